package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/mindmate/internal/entry"
)

var ErrFormat = errors.New("unknown export format")

type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

// Formats is the picker order.
var Formats = []Format{CSV, JSON}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case CSV, JSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrFormat, s)
}

// Write exports both namespaces into dir and returns the files it created.
// CSV produces one file per namespace; JSON produces a single document.
func Write(dir string, f Format, moods []entry.Mood, journals []entry.Journal, day time.Time) ([]string, error) {
	date := day.Format("2006-01-02")
	switch f {
	case CSV:
		moodPath := filepath.Join(dir, fmt.Sprintf("mindmate-moods-%s.csv", date))
		if err := MoodCSV(moods, moodPath); err != nil {
			return nil, err
		}
		journalPath := filepath.Join(dir, fmt.Sprintf("mindmate-journal-%s.csv", date))
		if err := JournalCSV(journals, journalPath); err != nil {
			return []string{moodPath}, err
		}
		return []string{moodPath, journalPath}, nil
	case JSON:
		path := filepath.Join(dir, fmt.Sprintf("mindmate-export-%s.json", date))
		if err := ToJSON(moods, journals, path); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrFormat, f)
}
