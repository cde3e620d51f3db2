package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/soaringjerry/TalentFlow/internal/api"
	"github.com/soaringjerry/TalentFlow/internal/config"
	"github.com/soaringjerry/TalentFlow/internal/db"
)

type rootFlags struct {
	configPath string
	envFile    string
}

func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "talentflow",
		Short: "Recruitment assessment server",
		Long: `TalentFlow serves job assessments: recruiters author sectioned
question schemas with conditional logic, candidates fill them in, and
validated responses are stored per job.`,
		Version:      commit,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "talentflow.yaml", "path to the YAML config file")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "path to a .env file")

	cmd.AddCommand(newServeCommand(flags))
	cmd.AddCommand(newMigrateCommand(flags))
	cmd.AddCommand(newTokenCommand(flags))
	cmd.AddCommand(newSeedCommand(flags))
	cmd.AddCommand(newSchemaCommand(flags))
	return cmd
}

func (f *rootFlags) load() (*config.Config, error) {
	cfg, err := config.Load(f.configPath, f.envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger picks a text handler for terminals and JSON otherwise unless
// the format is forced.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level, _ := config.ParseLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	format := cfg.LogFormat
	if format == "auto" {
		format = "json"
		if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			format = "text"
		}
	}
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// openStore opens the configured backend. The returned close func releases
// the store and its data-dir lock.
func openStore(cfg *config.Config, logger *slog.Logger) (api.Store, func() error, error) {
	if cfg.Storage == config.StorageMemory {
		return api.NewMemoryStore(), func() error { return nil }, nil
	}
	h, err := db.Open(cfg.Storage, cfg.DataDir, cfg.MigrationsDir, logger)
	if err != nil {
		return nil, nil, err
	}
	return h.Store, h.Close, nil
}
