package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the board backend is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, client, err := newSession()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Backend.Timeout)
		defer cancel()

		health, err := session.Ping(ctx)
		out := cmd.OutOrStdout()
		if err != nil || !health.OK {
			fmt.Fprintf(out, "API: DOWN • %s\n", client.BaseURL())
			if err == nil {
				err = fmt.Errorf("backend at %s reported not ok", client.BaseURL())
			}
			return err
		}

		fmt.Fprintf(out, "API: UP • LAT: %dms • %s\n", health.Latency.Milliseconds(), client.BaseURL())
		return nil
	},
}
