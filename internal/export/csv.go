package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/mindmate/internal/analytics"
	"github.com/sadopc/mindmate/internal/entry"
)

// MoodCSV writes one row per mood entry, in the order given.
func MoodCSV(entries []entry.Mood, path string) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ID,
			e.Date.Local().Format(time.RFC3339),
			strconv.Itoa(e.Mood),
			analytics.MoodLabel(e.Mood),
			strings.Join(e.Tags, ";"),
			e.Note,
		})
	}
	return writeCSV(path, []string{"ID", "Date", "Mood", "Label", "Tags", "Note"}, rows)
}

// JournalCSV writes one row per journal entry, in the order given.
func JournalCSV(entries []entry.Journal, path string) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ID,
			e.Date.Local().Format(time.RFC3339),
			string(e.Category),
			e.Prompt,
			e.Content,
		})
	}
	return writeCSV(path, []string{"ID", "Date", "Category", "Prompt", "Content"}, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}
