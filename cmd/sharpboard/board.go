package main

import (
	"context"

	"github.com/spf13/cobra"
)

var boardOpts boardFlags

func init() {
	boardOpts.register(boardCmd)
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Fetch the board once and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, client, err := newSession()
		if err != nil {
			return err
		}
		defer client.Close()

		criteria, err := boardOpts.apply(cmd.Flags(), session.Criteria())
		if err != nil {
			return err
		}
		session.SetCriteria(criteria)

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Refresh.RefreshTimeout())
		defer cancel()

		refreshErr := session.Refresh(ctx)
		if err := writeOutput(cmd.OutOrStdout(), boardOpts.output, session.Snapshot(), boardOpts.top); err != nil {
			return err
		}
		return refreshErr
	},
}
