package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soaringjerry/TalentFlow/internal/config"
	"github.com/soaringjerry/TalentFlow/internal/db"
)

func newMigrateCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQLite migrations",
		Long: `Apply SQL migrations from migrations_dir, or the embedded set when the
directory does not exist. Already applied files are skipped. Other storage
backends have nothing to migrate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cfg.Storage != config.StorageSQLite {
				fmt.Fprintf(out, "storage %q has no migrations\n", cfg.Storage)
				return nil
			}
			applied, err := db.MigrateSQLite(cfg.DataDir, cfg.MigrationsDir)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(out, "database is up to date")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(out, "applied %s\n", name)
			}
			return nil
		},
	}
}
