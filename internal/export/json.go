package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/mindmate/internal/entry"
)

type jsonExport struct {
	ExportedAt   string          `json:"exported_at"`
	MoodCount    int             `json:"mood_count"`
	JournalCount int             `json:"journal_count"`
	Moods        []entry.Mood    `json:"moods"`
	Journals     []entry.Journal `json:"journals"`
}

// ToJSON writes both namespaces into a single pretty-printed document.
// Records keep their stored field names so the file can be read back with
// the same decoder.
func ToJSON(moods []entry.Mood, journals []entry.Journal, path string) error {
	export := jsonExport{
		ExportedAt:   time.Now().UTC().Format(time.RFC3339),
		MoodCount:    len(moods),
		JournalCount: len(journals),
		Moods:        moods,
		Journals:     journals,
	}
	if export.Moods == nil {
		export.Moods = []entry.Mood{}
	}
	if export.Journals == nil {
		export.Journals = []entry.Journal{}
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
