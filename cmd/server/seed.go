package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/soaringjerry/TalentFlow/internal/config"
	"github.com/soaringjerry/TalentFlow/internal/services"
)

func newSeedCommand(flags *rootFlags) *cobra.Command {
	var (
		jobID string
		title string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store the sample two-section assessment for a job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if cfg.Storage == config.StorageMemory {
				return errors.New("seed needs sqlite or badger storage")
			}
			store, closeStore, err := openStore(cfg, newLogger(os.Stderr, cfg))
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			a, ids, err := services.SeedSampleAssessment(cmd.Context(), store, jobID, title)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "seeded %q for job %s (%d questions)\n", a.Title, jobID, len(a.Questions()))
			keys := make([]string, 0, len(ids))
			for k := range ids {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "  %-18s %s\n", k, ids[k])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&jobID, "job", "", "job id to attach the assessment to (required)")
	cmd.Flags().StringVar(&title, "title", "Senior Engineer Screening", "assessment title")
	_ = cmd.MarkFlagRequired("job")
	return cmd
}
