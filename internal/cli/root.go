// Package cli wires the mindmate commands.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/mindmate/internal/analytics"
	"github.com/sadopc/mindmate/internal/config"
	"github.com/sadopc/mindmate/internal/entry"
	"github.com/sadopc/mindmate/internal/export"
	"github.com/sadopc/mindmate/internal/selector"
	"github.com/sadopc/mindmate/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var Version = "0.1.0"

// NewRootCmd builds the command tree. Running it without a subcommand starts
// the interactive app.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "mindmate",
		Short:         "A quiet terminal companion for chatting, mood tracking and journaling.",
		Version:       fmt.Sprintf("v%s", Version),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default <config dir>/mindmate/config.toml)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database path (overrides db_path)")

	root.AddCommand(
		newInitCmd(opts),
		newExportCmd(opts),
		newStatusCmd(opts),
		newResetCmd(opts),
		newVersionCmd(),
	)
	return root
}

func runApp(opts *options) error {
	s, err := openSession(opts, true)
	if err != nil {
		return err
	}
	defer s.Close()

	app := tui.NewApp(tui.Deps{
		Moods:         s.moods,
		Journal:       s.journal,
		Prompts:       selector.New(selector.JournalPrompts()),
		Responses:     selector.New(selector.ChatResponses()),
		Config:        s.cfg,
		Logger:        s.log,
		Status:        strings.Join(s.warnings, "; "),
		StatusIsError: len(s.warnings) > 0,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	s.log.Info("session started")
	if _, err := p.Run(); err != nil {
		s.log.Error("tui exited", zap.Error(err))
		return err
	}
	s.log.Info("session ended")
	return nil
}

func newExportCmd(opts *options) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export mood and journal entries as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if out == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				out = home
			}

			s, err := openSession(opts, false)
			if err != nil {
				return err
			}
			defer s.Close()

			paths, err := export.Write(out, f, s.moods.Items(), s.journal.Items(), time.Now())
			if err != nil {
				s.log.Error("export failed", zap.String("format", string(f)), zap.Error(err))
				return err
			}
			s.log.Info("exported", zap.String("format", string(f)), zap.Strings("paths", paths))
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (default home directory)")
	return cmd
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show stored namespaces and a short mood summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, false)
			if err != nil {
				return err
			}
			defer s.Close()

			w := cmd.OutOrStdout()
			moods := s.moods.Items()
			journals := s.journal.Items()
			summary := analytics.JournalStats(journals, time.Now())

			fmt.Fprintf(w, "database: %s\n", s.cfg.DBPath)
			fmt.Fprintf(w, "%-24s %d entries, average %.1f, trend %s\n",
				entry.MoodKey, len(moods), analytics.Average(moods), analytics.TrendOf(moods))
			fmt.Fprintf(w, "%-24s %d entries, %d this week\n",
				entry.JournalKey, summary.Total, summary.ThisWeek)
			pairs, err := s.store.List()
			if err != nil {
				return err
			}
			for _, p := range pairs {
				fmt.Fprintf(w, "  %-22s %6d bytes, updated %s\n", p.Key, len(p.Value), p.UpdatedAt.Local().Format(time.DateTime))
			}
			for _, warn := range s.warnings {
				fmt.Fprintf(w, "warning: %s\n", warn)
			}
			return nil
		},
	}
}

// resetTargets maps reset arguments to the keys they delete.
var resetTargets = map[string][]string{
	"mood":    {entry.MoodKey},
	"journal": {entry.JournalKey},
	"all":     {entry.MoodKey, entry.JournalKey},
}

func newResetCmd(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:       "reset [mood|journal|all]",
		Short:     "Delete stored entries",
		Long:      "Delete stored entries. A reset mood namespace is seeded with samples again on the next launch unless seed_samples is false.",
		ValidArgs: []string{"mood", "journal", "all"},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "all"
			if len(args) == 1 {
				target = args[0]
			}
			if !yes {
				return fmt.Errorf("reset %s deletes stored entries; pass --yes to confirm", target)
			}

			s, err := openSession(opts, false)
			if err != nil {
				return err
			}
			defer s.Close()

			for _, key := range resetTargets[target] {
				if err := s.store.Delete(key); err != nil {
					return fmt.Errorf("delete %s: %w", key, err)
				}
				s.log.Info("namespace reset", zap.String("key", key))
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", key)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}

func newInitCmd(opts *options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.resolvedConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; pass --force to overwrite", path)
			}
			cfg := config.Default()
			if opts.dbPath != "" {
				cfg.DBPath = opts.dbPath
			}
			if err := config.Save(path, cfg); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of mindmate",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}
