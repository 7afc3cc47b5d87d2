package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sadopc/mindmate/internal/config"
	"github.com/sadopc/mindmate/internal/entry"
	"github.com/sadopc/mindmate/internal/logging"
	"github.com/sadopc/mindmate/internal/store"
	"go.uber.org/zap"
)

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	dbPath     string
}

// session is an opened store with both namespaces loaded.
type session struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *store.Store
	moods   *entry.Namespace[entry.Mood]
	journal *entry.Namespace[entry.Journal]

	// warnings are storage failures worth telling the user about.
	// Unreadable stored data only reaches the log.
	warnings []string
}

func (o *options) resolvedConfigPath() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.DefaultPath()
}

func loadConfig(opts *options) (*config.Config, error) {
	path, err := opts.resolvedConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ResolvePaths(filepath.Dir(path))
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	return cfg, nil
}

// openSession loads config, starts logging, opens the store and both
// namespaces. Only the interactive app seeds sample moods.
func openSession(opts *options, seed bool) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Error("open store", zap.String("path", cfg.DBPath), zap.Error(err))
		log.Sync()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	log.Info("store opened", zap.String("path", cfg.DBPath))

	s := &session{cfg: cfg, log: log, store: st}

	moods, res, seeded, err := entry.OpenMoods(st, seed && cfg.SeedSamples, time.Now())
	s.noteLoad(entry.MoodKey, res)
	if seeded {
		log.Info("seeded sample moods", zap.Int("count", moods.Len()))
	}
	if err != nil {
		log.Warn("persist seeded moods", zap.Error(err))
		s.warnings = append(s.warnings, "sample moods could not be saved")
	}
	s.moods = moods

	journal, res := entry.OpenJournal(st)
	s.noteLoad(entry.JournalKey, res)
	s.journal = journal

	s.moods.Subscribe(logChanges[entry.Mood](log))
	s.journal.Subscribe(logChanges[entry.Journal](log))

	return s, nil
}

func (s *session) noteLoad(key string, res entry.LoadResult) {
	fields := []zap.Field{zap.String("key", key), zap.Stringer("status", res.Status)}
	switch res.Status {
	case entry.LoadOK, entry.LoadAbsent:
		if res.Err != nil {
			s.log.Error("read namespace", append(fields, zap.Error(res.Err))...)
			s.warnings = append(s.warnings, fmt.Sprintf("%s could not be read", key))
			return
		}
		s.log.Info("namespace loaded", fields...)
	case entry.LoadCorrupt:
		s.log.Warn("namespace corrupt, starting empty", append(fields, zap.Error(res.Err))...)
	case entry.LoadPartial:
		s.log.Warn("namespace partially loaded", append(fields, zap.Int("dropped", res.Dropped))...)
	}
}

// logChanges records every namespace mutation at debug level.
func logChanges[T entry.Record](log *zap.Logger) entry.Subscriber[T] {
	return func(c entry.Change[T]) error {
		fields := []zap.Field{zap.String("key", c.Key), zap.Stringer("op", c.Op), zap.Int("count", len(c.Items))}
		if c.Op != entry.OpSeed {
			fields = append(fields, zap.String("id", c.Item.EntryID()))
		}
		log.Debug("namespace changed", fields...)
		return nil
	}
}

func (s *session) Close() error {
	err := s.store.Close()
	s.log.Sync()
	return err
}
