package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/mindmate/internal/entry"
	"github.com/sadopc/mindmate/internal/store"
)

type env struct {
	dir    string
	config string
	db     string
}

func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	return env{
		dir:    dir,
		config: filepath.Join(dir, "config.toml"),
		db:     filepath.Join(dir, "mindmate.db"),
	}
}

func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

// seedStore writes raw values straight into the database.
func (e env) seedStore(t *testing.T, fn func(s *store.Store)) {
	t.Helper()
	s, err := store.New(e.db)
	if err != nil {
		t.Fatal(err)
	}
	fn(s)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}

func (e env) get(t *testing.T, key string) (string, bool) {
	t.Helper()
	s, err := store.New(e.db)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	v, ok, err := s.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	return v, ok
}

// ============================================================
// status
// ============================================================

func TestStatusEmpty(t *testing.T) {
	e := newEnv(t)
	out, err := e.run(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "database: "+e.db) {
		t.Fatalf("status should name the database, got:\n%s", out)
	}
	if !strings.Contains(out, entry.MoodKey) || !strings.Contains(out, "0 entries") {
		t.Fatalf("unexpected status output:\n%s", out)
	}
	if strings.Contains(out, "warning") {
		t.Fatalf("fresh database should not warn:\n%s", out)
	}
	// status never seeds.
	if _, ok := e.get(t, entry.MoodKey); ok {
		t.Fatal("status should not write sample moods")
	}
}

func TestStatusSummary(t *testing.T) {
	e := newEnv(t)
	e.seedStore(t, func(s *store.Store) {
		if err := entry.Save(s, entry.MoodKey, entry.SampleMoods(time.Now())); err != nil {
			t.Fatal(err)
		}
	})

	out, err := e.run(t, "status")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "6 entries, average") {
		t.Fatalf("status should summarise moods:\n%s", out)
	}
	if !strings.Contains(out, "  "+entry.MoodKey) || !strings.Contains(out, "bytes, updated") {
		t.Fatalf("status should list stored keys:\n%s", out)
	}
}

func TestStatusCorruptIsSilent(t *testing.T) {
	e := newEnv(t)
	e.seedStore(t, func(s *store.Store) {
		s.Set(entry.MoodKey, "{not json")
		s.Set(entry.JournalKey, `[{"id":"1"}]`)
	})

	out, err := e.run(t, "status")
	if err != nil {
		t.Fatalf("corrupt data should not fail status: %v", err)
	}
	if strings.Contains(out, "warning:") {
		t.Fatalf("unreadable data should not be reported:\n%s", out)
	}
	if !strings.Contains(out, entry.MoodKey+" ") || !strings.Contains(out, "0 entries") {
		t.Fatalf("corrupt moods should read as empty:\n%s", out)
	}
}

func TestDBFlagOverridesConfig(t *testing.T) {
	e := newEnv(t)
	other := filepath.Join(e.dir, "other", "x.db")
	out, err := e.run(t, "--db", other, "status")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "database: "+other) {
		t.Fatalf("--db not honoured:\n%s", out)
	}
	if _, err := os.Stat(other); err != nil {
		t.Fatalf("database not created at %s", other)
	}
}

func TestBadConfigFails(t *testing.T) {
	e := newEnv(t)
	os.WriteFile(e.config, []byte("chart_entries = 0\n"), 0600)
	if _, err := e.run(t, "status"); err == nil {
		t.Fatal("invalid config should fail")
	}
}

// ============================================================
// export
// ============================================================

func TestExportJSON(t *testing.T) {
	e := newEnv(t)
	j, err := entry.NewJournal("What made you smile?", "the sea", entry.Gratitude)
	if err != nil {
		t.Fatal(err)
	}
	e.seedStore(t, func(s *store.Store) {
		entry.Save(s, entry.JournalKey, []entry.Journal{j})
	})

	outDir := t.TempDir()
	out, err := e.run(t, "export", "--format", "json", "--out", outDir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	path := strings.TrimSpace(out)
	if filepath.Dir(path) != outDir {
		t.Fatalf("export path %q not in %q", path, outDir)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		JournalCount int             `json:"journal_count"`
		Journals     []entry.Journal `json:"journals"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.JournalCount != 1 || doc.Journals[0].Content != "the sea" {
		t.Fatalf("unexpected export %+v", doc)
	}
}

func TestExportCSVWritesTwoFiles(t *testing.T) {
	e := newEnv(t)
	outDir := t.TempDir()
	out, err := e.run(t, "export", "-o", outDir)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 paths, got %q", out)
	}
}

func TestExportBadFormat(t *testing.T) {
	e := newEnv(t)
	if _, err := e.run(t, "export", "--format", "xml", "--out", t.TempDir()); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

// ============================================================
// reset
// ============================================================

func TestResetRequiresConfirmation(t *testing.T) {
	e := newEnv(t)
	e.seedStore(t, func(s *store.Store) { s.Set(entry.MoodKey, "[]") })

	if _, err := e.run(t, "reset", "mood"); err == nil {
		t.Fatal("reset without --yes should fail")
	}
	if _, ok := e.get(t, entry.MoodKey); !ok {
		t.Fatal("nothing should be deleted without --yes")
	}
}

func TestResetMood(t *testing.T) {
	e := newEnv(t)
	e.seedStore(t, func(s *store.Store) {
		s.Set(entry.MoodKey, "[]")
		s.Set(entry.JournalKey, "[]")
	})

	out, err := e.run(t, "reset", "mood", "--yes")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "deleted "+entry.MoodKey) {
		t.Fatalf("unexpected output %q", out)
	}
	if _, ok := e.get(t, entry.MoodKey); ok {
		t.Fatal("mood key should be gone")
	}
	if _, ok := e.get(t, entry.JournalKey); !ok {
		t.Fatal("journal key should survive a mood reset")
	}
}

func TestResetAllDefault(t *testing.T) {
	e := newEnv(t)
	e.seedStore(t, func(s *store.Store) {
		s.Set(entry.MoodKey, "[]")
		s.Set(entry.JournalKey, "[]")
	})

	if _, err := e.run(t, "reset", "-y"); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{entry.MoodKey, entry.JournalKey} {
		if _, ok := e.get(t, key); ok {
			t.Fatalf("%s should be gone", key)
		}
	}
}

func TestResetUnknownTarget(t *testing.T) {
	e := newEnv(t)
	if _, err := e.run(t, "reset", "dreams", "--yes"); err == nil {
		t.Fatal("unknown target should fail")
	}
}

// ============================================================
// session
// ============================================================

func TestOpenSessionSeedsOnce(t *testing.T) {
	e := newEnv(t)
	opts := &options{configPath: e.config}

	s, err := openSession(opts, true)
	if err != nil {
		t.Fatal(err)
	}
	if s.moods.Len() != 6 {
		t.Fatalf("first launch should seed 6 moods, got %d", s.moods.Len())
	}
	if _, err := s.moods.Remove(s.moods.Items()[0].ID); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = openSession(opts, true)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if s.moods.Len() != 5 {
		t.Fatalf("second launch should keep stored moods, got %d", s.moods.Len())
	}
}

func TestOpenSessionCorruptMoods(t *testing.T) {
	e := newEnv(t)
	e.seedStore(t, func(s *store.Store) {
		s.Set(entry.MoodKey, "{not json")
	})

	s, err := openSession(&options{configPath: e.config}, true)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if len(s.warnings) != 0 {
		t.Fatalf("unreadable data should not reach the status line: %v", s.warnings)
	}
	if s.moods.Len() != 6 {
		t.Fatalf("corrupt moods should be seeded like a first run, got %d", s.moods.Len())
	}
	s.log.Sync()

	data, err := os.ReadFile(filepath.Join(e.dir, "mindmate.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "namespace corrupt") {
		t.Fatalf("corruption should still be logged:\n%s", data)
	}
}

func TestOpenSessionSeedDisabled(t *testing.T) {
	e := newEnv(t)
	os.WriteFile(e.config, []byte("seed_samples = false\n"), 0600)

	s, err := openSession(&options{configPath: e.config}, true)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if s.moods.Len() != 0 {
		t.Fatalf("seed_samples=false should not seed, got %d", s.moods.Len())
	}
}

func TestOpenSessionLogs(t *testing.T) {
	e := newEnv(t)
	s, err := openSession(&options{configPath: e.config}, false)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	data, err := os.ReadFile(filepath.Join(e.dir, "mindmate.log"))
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	if !strings.Contains(string(data), "store opened") {
		t.Fatalf("log should record store open:\n%s", data)
	}
}

func TestOpenSessionLogsChangesAtDebug(t *testing.T) {
	e := newEnv(t)
	os.WriteFile(e.config, []byte("log_level = \"debug\"\n"), 0600)

	s, err := openSession(&options{configPath: e.config}, false)
	if err != nil {
		t.Fatal(err)
	}
	m, err := entry.NewMood(4, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.moods.Append(m); err != nil {
		t.Fatal(err)
	}
	s.Close()

	data, err := os.ReadFile(filepath.Join(e.dir, "mindmate.log"))
	if err != nil {
		t.Fatal(err)
	}
	log := string(data)
	if !strings.Contains(log, "namespace changed") || !strings.Contains(log, m.ID) {
		t.Fatalf("append should be logged with the entry id:\n%s", log)
	}
	if !strings.Contains(log, `"op":"append"`) {
		t.Fatalf("log should name the op:\n%s", log)
	}
}

// ============================================================
// init
// ============================================================

func TestInitWritesDefaultConfig(t *testing.T) {
	e := newEnv(t)
	out, err := e.run(t, "init")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "wrote "+e.config) {
		t.Fatalf("unexpected output:\n%s", out)
	}
	cfg, err := loadConfig(&options{configPath: e.config})
	if err != nil {
		t.Fatalf("written config should load: %v", err)
	}
	if cfg.ChartEntries != 7 || !cfg.SeedSamples {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestInitRefusesOverwrite(t *testing.T) {
	e := newEnv(t)
	os.WriteFile(e.config, []byte("seed_samples = false\n"), 0600)

	if _, err := e.run(t, "init"); err == nil {
		t.Fatal("init should not overwrite without --force")
	}
	data, _ := os.ReadFile(e.config)
	if string(data) != "seed_samples = false\n" {
		t.Fatalf("config was modified:\n%s", data)
	}

	if _, err := e.run(t, "init", "--force"); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(&options{configPath: e.config})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.SeedSamples {
		t.Fatal("--force should restore defaults")
	}
}

func TestInitRecordsDBFlag(t *testing.T) {
	e := newEnv(t)
	other := filepath.Join(e.dir, "elsewhere.db")
	if _, err := e.run(t, "--db", other, "init"); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(&options{configPath: e.config})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != other {
		t.Fatalf("DBPath = %q, want %q", cfg.DBPath, other)
	}
}

// ============================================================
// version
// ============================================================

func TestVersion(t *testing.T) {
	e := newEnv(t)
	out, err := e.run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != Version {
		t.Fatalf("version = %q, want %q", out, Version)
	}
}

func TestUnknownCommand(t *testing.T) {
	e := newEnv(t)
	if _, err := e.run(t, "dance"); err == nil {
		t.Fatal("unknown command should fail")
	}
}
