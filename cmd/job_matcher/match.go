package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/job-matcher/internal/observability"
	"github.com/spf13/cobra"
)

func newMatchCmd(a *app) *cobra.Command {
	var (
		studentID string
		minScore  float64
		all       bool
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Run matching for one student or for every student",
		Long: `Scores the student against every active job that has no stored match yet and
persists the new matches. With --min-score, previously stored matches at or
above the threshold are included in the output as well.`,
		Example: `  job_matcher match --student 8f1a4c36-0d7e-4a4f-9e58-3c1c2f4b9a10
  job_matcher match --all --workers 8`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if all == (studentID != "") {
				return errors.New("exactly one of --student or --all is required")
			}
			var threshold *float64
			if cmd.Flags().Changed("min-score") {
				if minScore < 1 || minScore > 100 {
					return fmt.Errorf("--min-score must be between 1 and 100, got %v", minScore)
				}
				threshold = &minScore
			}

			store, release, err := a.openBackend(ctx)
			if err != nil {
				return err
			}
			defer release()

			engine, client, err := a.buildEngine(ctx, store)
			if err != nil {
				return err
			}
			defer client.Close()

			printer := observability.NewPrinter(cmd.OutOrStdout())

			if all {
				if !cmd.Flags().Changed("workers") {
					workers = a.cfg.Matching.Workers
				}
				summary, err := engine.FindMatchesForAll(ctx, workers)
				printer.PrintSummary("BATCH MATCHING", []observability.BatchLine{
					{Label: "Students", Value: summary.Students},
					{Label: "Created", Value: summary.Created},
					{Label: "Skipped", Value: summary.Skipped},
					{Label: "Failed", Value: summary.Failed},
					{Label: "Errors", Value: summary.Errors},
				})
				return err
			}

			id, err := uuid.Parse(studentID)
			if err != nil {
				return fmt.Errorf("invalid --student: %w", err)
			}
			matches, err := engine.FindMatchesForStudent(ctx, id, threshold)
			report, rerr := engine.Report(ctx, id)
			if rerr == nil {
				printer.PrintMatches("MATCHES FOR "+report.StudentName, matches, report.Jobs)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&studentID, "student", "s", "", "student id")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "also return stored matches at or above this score (1-100)")
	cmd.Flags().BoolVar(&all, "all", false, "match every student")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent students for --all (default matching.workers)")
	return cmd
}
