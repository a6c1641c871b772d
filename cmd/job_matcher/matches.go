package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/job-matcher/internal/observability"
	"github.com/jonathan/job-matcher/internal/types"
	"github.com/spf13/cobra"
)

func newMatchesCmd(a *app) *cobra.Command {
	var (
		studentID string
		matchID   string
		viewed    bool
	)

	cmd := &cobra.Command{
		Use:   "matches",
		Short: "Show stored matches without running matching",
		Long: `Lists a student's stored matches best first, or shows one match with its
evidence narratives. --viewed marks the shown match as viewed by its owner.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if studentID == "" && matchID == "" {
				return errors.New("one of --student or --match is required")
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

			if matchID != "" {
				id, err := uuid.Parse(matchID)
				if err != nil {
					return fmt.Errorf("invalid --match: %w", err)
				}
				m, err := engine.GetMatch(ctx, id)
				if err != nil {
					return err
				}
				if viewed {
					if m, err = engine.MarkViewed(ctx, id, m.StudentID); err != nil {
						return err
					}
				}
				report, err := engine.Report(ctx, m.StudentID)
				if err != nil {
					return err
				}
				var job *types.Job
				if j, ok := report.Jobs[m.JobID]; ok {
					job = &j
				}
				printer.PrintMatch(m, job)
				return nil
			}

			id, err := uuid.Parse(studentID)
			if err != nil {
				return fmt.Errorf("invalid --student: %w", err)
			}
			report, err := engine.Report(ctx, id)
			if err != nil {
				return err
			}
			printer.PrintMatches("MATCHES FOR "+report.StudentName, report.Matches, report.Jobs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&studentID, "student", "s", "", "student id")
	cmd.Flags().StringVarP(&matchID, "match", "m", "", "match id")
	cmd.Flags().BoolVar(&viewed, "viewed", false, "mark the match given by --match as viewed")
	return cmd
}
