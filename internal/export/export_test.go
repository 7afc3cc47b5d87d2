package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/mindmate/internal/entry"
)

func sampleData() ([]entry.Mood, []entry.Journal) {
	now := time.Now().UTC().Truncate(time.Millisecond)

	moods := []entry.Mood{
		{ID: "m1", Mood: 4, Note: "good walk", Date: now.Add(-1 * time.Hour), Tags: []string{"peaceful", "grateful"}},
		{ID: "m2", Mood: 2, Note: "", Date: now.Add(-24 * time.Hour), Tags: []string{}},
		{ID: "m3", Mood: 5, Note: "great day", Date: now.Add(-48 * time.Hour), Tags: []string{"excited"}},
	}
	journals := []entry.Journal{
		{ID: "j1", Prompt: "What made you smile today?", Content: "coffee with a friend", Date: now, Category: entry.Gratitude},
		{ID: "j2", Prompt: "What is one goal for this week?", Content: "sleep earlier", Date: now.Add(-time.Hour), Category: entry.Goals},
	}
	return moods, journals
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestMoodCSV(t *testing.T) {
	moods, _ := sampleData()
	path := filepath.Join(t.TempDir(), "moods.csv")

	if err := MoodCSV(moods, path); err != nil {
		t.Fatalf("MoodCSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	expectedHeader := []string{"ID", "Date", "Mood", "Label", "Tags", "Note"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "m1" {
		t.Fatalf("ID = %q, want m1", row[0])
	}
	if row[2] != "4" {
		t.Fatalf("Mood = %q, want 4", row[2])
	}
	if row[3] != "Good" {
		t.Fatalf("Label = %q, want Good", row[3])
	}
	if row[4] != "peaceful;grateful" {
		t.Fatalf("Tags = %q", row[4])
	}
	if row[5] != "good walk" {
		t.Fatalf("Note = %q", row[5])
	}

	if records[2][4] != "" {
		t.Fatalf("untagged entry should have empty tags, got %q", records[2][4])
	}
}

func TestJournalCSV(t *testing.T) {
	_, journals := sampleData()
	path := filepath.Join(t.TempDir(), "journal.csv")

	if err := JournalCSV(journals, path); err != nil {
		t.Fatalf("JournalCSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(records))
	}
	if records[1][2] != "gratitude" {
		t.Fatalf("Category = %q", records[1][2])
	}
	if records[1][3] != "What made you smile today?" {
		t.Fatalf("Prompt = %q", records[1][3])
	}
	if _, err := time.Parse(time.RFC3339, records[1][1]); err != nil {
		t.Fatalf("Date is not RFC3339: %q", records[1][1])
	}
}

func TestCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := MoodCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestCSVBadPath(t *testing.T) {
	if err := MoodCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
	if err := JournalCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestCSVSpecialCharacters(t *testing.T) {
	journals := []entry.Journal{{
		ID:       "j1",
		Prompt:   `a "quoted" prompt`,
		Content:  "line one, with comma\nline two",
		Date:     time.Now(),
		Category: entry.Reflection,
	}}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := JournalCSV(journals, path); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, path)
	if records[1][3] != `a "quoted" prompt` {
		t.Fatalf("prompt mangled: %q", records[1][3])
	}
	if records[1][4] != "line one, with comma\nline two" {
		t.Fatalf("content mangled: %q", records[1][4])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	moods, journals := sampleData()
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(moods, journals, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.MoodCount != 3 || len(result.Moods) != 3 {
		t.Fatalf("moods = %d/%d, want 3", result.MoodCount, len(result.Moods))
	}
	if result.JournalCount != 2 || len(result.Journals) != 2 {
		t.Fatalf("journals = %d/%d, want 2", result.JournalCount, len(result.Journals))
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	m := result.Moods[0]
	if m.ID != "m1" || m.Mood != 4 || !m.Date.Equal(moods[0].Date) {
		t.Fatalf("mood round trip mismatch: %+v", m)
	}
	if result.Journals[1].Category != entry.Goals {
		t.Fatalf("category = %q", result.Journals[1].Category)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"moods": []`) {
		t.Fatalf("empty moods should encode as [], got %s", data)
	}
	if !strings.Contains(string(data), `"journals": []`) {
		t.Fatalf("empty journals should encode as [], got %s", data)
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, nil, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be indented")
	}
}

// ============================================================
// Write / ParseFormat
// ============================================================

func TestWriteCSV(t *testing.T) {
	moods, journals := sampleData()
	dir := t.TempDir()
	day := time.Date(2026, 3, 4, 10, 0, 0, 0, time.Local)

	paths, err := Write(dir, CSV, moods, journals, day)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "mindmate-moods-2026-03-04.csv"),
		filepath.Join(dir, "mindmate-journal-2026-03-04.csv"),
	}
	if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	paths, err := Write(dir, JSON, nil, nil, time.Date(2026, 1, 2, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "mindmate-export-2026-01-02.json" {
		t.Fatalf("paths = %v", paths)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if _, err := Write(t.TempDir(), Format("xml"), nil, nil, time.Now()); !errors.Is(err, ErrFormat) {
		t.Fatalf("err = %v, want ErrFormat", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", CSV, false},
		{"JSON", JSON, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
