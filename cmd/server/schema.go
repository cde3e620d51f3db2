package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/soaringjerry/TalentFlow/internal/assessment"
	"github.com/soaringjerry/TalentFlow/internal/config"
	"github.com/soaringjerry/TalentFlow/internal/models"
	"github.com/soaringjerry/TalentFlow/internal/services"
)

func newSchemaCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Lint, import and export assessment schema files",
	}
	cmd.AddCommand(newSchemaLintCommand())
	cmd.AddCommand(newSchemaImportCommand(flags))
	cmd.AddCommand(newSchemaExportCommand(flags))
	return cmd
}

// readSchemaFile decodes a schema from JSON (.json) or YAML (anything else).
func readSchemaFile(path string) (*models.Assessment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	var a models.Assessment
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &a)
	} else {
		err = yaml.Unmarshal(data, &a)
	}
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", path, err)
	}
	return &a, nil
}

// printIssues writes one line per issue and returns the number of errors.
func printIssues(w io.Writer, issues []assessment.Issue) int {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	errs := 0
	for _, is := range issues {
		loc := is.QuestionID
		if loc == "" {
			loc = is.SectionID
		}
		if loc != "" {
			loc = " [" + loc + "]"
		}
		if is.Severity == assessment.SeverityError {
			errs++
			red.Fprint(w, "error")
		} else {
			yellow.Fprint(w, "warning")
		}
		fmt.Fprintf(w, "%s: %s\n", loc, is.Message)
	}
	return errs
}

func newSchemaLintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <file>",
		Short: "Report structural problems in a schema file",
		Long: `Report duplicate ids, unknown question types, inverted numeric bounds,
self-dependencies and dependency cycles as errors, and dangling or empty
prerequisites and unknown conditions as warnings. Exits non-zero when any
error is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := readSchemaFile(args[0])
			if err != nil {
				return err
			}
			if a.JobID == "" {
				a.JobID = "lint"
			}
			out := cmd.OutOrStdout()
			issues := assessment.Lint(a)
			errs := printIssues(out, issues)
			if errs > 0 {
				return fmt.Errorf("%d error(s) in %s", errs, args[0])
			}
			color.New(color.FgGreen).Fprintf(out, "ok")
			fmt.Fprintf(out, ": %d section(s), %d question(s), %d warning(s)\n", len(a.Sections), len(a.Questions()), len(issues))
			return nil
		},
	}
}

func newSchemaImportCommand(flags *rootFlags) *cobra.Command {
	var jobID string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Commit a schema file as the assessment for a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if cfg.Storage == config.StorageMemory {
				return errors.New("import needs sqlite or badger storage")
			}
			in, err := readSchemaFile(args[0])
			if err != nil {
				return err
			}
			if jobID == "" {
				jobID = in.JobID
			}
			store, closeStore, err := openStore(cfg, newLogger(os.Stderr, cfg))
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			b, err := services.OpenBuilder(cmd.Context(), store, jobID)
			if err != nil {
				return err
			}
			if err := b.Replace(in); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			saved, err := b.Commit(cmd.Context())
			if err != nil {
				var cerr *assessment.CheckError
				if errors.As(err, &cerr) {
					printIssues(out, cerr.Issues)
				}
				return err
			}
			printIssues(out, assessment.Lint(saved))
			fmt.Fprintf(out, "imported %s for job %s\n", saved.ID, jobID)
			return nil
		},
	}
	cmd.Flags().StringVar(&jobID, "job", "", "job id (defaults to jobId in the file)")
	return cmd
}

func newSchemaExportCommand(flags *rootFlags) *cobra.Command {
	var (
		jobID  string
		output string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a job's committed schema as YAML or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(cfg, newLogger(os.Stderr, cfg))
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			a, err := store.GetSchema(cmd.Context(), jobID)
			if err != nil {
				return err
			}
			if a == nil {
				return services.ErrAssessmentNotFound
			}
			var data []byte
			if asJSON || strings.EqualFold(filepath.Ext(output), ".json") {
				data, err = json.MarshalIndent(a, "", "  ")
				data = append(data, '\n')
			} else {
				data, err = yaml.Marshal(a)
			}
			if err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(output, data, 0o644)
		},
	}
	cmd.Flags().StringVar(&jobID, "job", "", "job id (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write JSON instead of YAML")
	_ = cmd.MarkFlagRequired("job")
	return cmd
}
