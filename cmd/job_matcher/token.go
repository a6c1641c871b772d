package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/job-matcher/internal/server"
	"github.com/jonathan/job-matcher/internal/types"
	"github.com/spf13/cobra"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		studentID string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a student",
		Long:  "Signs a token with the configured JWT secret. Intended for development and service-to-service calls.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := uuid.Parse(studentID)
			if err != nil {
				return fmt.Errorf("invalid --student: %w", err)
			}
			jwtCfg, err := a.cfg.Auth.JWT()
			if err != nil {
				return err
			}

			token, err := server.NewJWTService(jwtCfg).GenerateToken(id)
			if err != nil {
				return err
			}
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(types.TokenResponse{StudentID: id, Token: token})
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&studentID, "student", "s", "", "student id")
	cmd.Flags().BoolVar(&asJSON, "output-json", false, "print {student_id, token} as JSON")
	_ = cmd.MarkFlagRequired("student")
	return cmd
}
