package main

import (
	"fmt"

	"github.com/jonathan/job-matcher/internal/fixtures"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		file    string
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load students, jobs and CVs from a JSON fixture file",
		Long: `Validates the fixture file against the fixture schema, then upserts its
records. Jobs without an "active" field are imported as active.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			set, err := fixtures.Load(file)
			if err != nil {
				return err
			}

			store, release, err := a.openBackend(ctx)
			if err != nil {
				return err
			}
			defer release()

			if migrate {
				if err := store.Migrate(ctx); err != nil {
					return err
				}
			}

			n, err := fixtures.Import(ctx, store, set)
			if err != nil {
				return err
			}
			a.logger.Info("fixtures imported",
				zap.String("file", file),
				zap.Int("students", n.Students),
				zap.Int("jobs", n.Jobs),
				zap.Int("cvs", n.CVs),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d students, %d jobs, %d cvs\n", n.Students, n.Jobs, n.CVs)
			for _, s := range set.Students {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n", s.ID, s.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "fixture file")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before importing")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
