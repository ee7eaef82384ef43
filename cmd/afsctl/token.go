package main

import (
	"fmt"

	"github.com/blues/afs/internal/auth"
	"github.com/blues/afs/internal/config"
	"github.com/blues/afs/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func tokenCmd() *cobra.Command {
	var (
		userId int64
		role   string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed identity token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userId <= 0 {
				return fmt.Errorf("--user must be a positive id")
			}
			r, ok := model.ParseRole(role)
			if !ok {
				return fmt.Errorf("unknown role %q", role)
			}

			cfg, err := config.LoadFrom(viper.New(), ".env")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			token, err := auth.NewTokenManager(cfg.Auth).Issue(userId, r)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userId, "user", 0, "User id placed in the token subject")
	cmd.Flags().StringVar(&role, "role", string(model.RoleDonor), "Role: athlete, donor or both")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
