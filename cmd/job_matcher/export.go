package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/job-matcher/internal/export"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		studentID string
		out       string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a student's stored matches to an Excel workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			id, err := uuid.Parse(studentID)
			if err != nil {
				return fmt.Errorf("invalid --student: %w", err)
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

			report, err := engine.Report(ctx, id)
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("matches-%s.xlsx", id)
			}
			path, err := export.SaveFile(out, report)
			if err != nil {
				return err
			}

			a.logger.Info("export written", zap.String("path", path), zap.Int("matches", len(report.Matches)))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&studentID, "student", "s", "", "student id")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default matches-<student>.xlsx)")
	_ = cmd.MarkFlagRequired("student")
	return cmd
}
