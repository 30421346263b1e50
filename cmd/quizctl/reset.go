package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vytor/quizday/internal/repository"
)

func newResetCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the profile and every attempt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			ctx := cmd.Context()
			for _, key := range []string{repository.ProfileKey, repository.ProgressKey} {
				if err := a.backend.Store.Delete(ctx, key); err != nil {
					return fmt.Errorf("delete %s: %w", key, err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all local data removed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}
