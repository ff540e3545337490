package main

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/sharpboard/internal/dashboard"
)

var demoOpts boardFlags

func init() {
	demoOpts.register(demoCmd)
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Print the built-in demo board without contacting a backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := dashboard.NewFromConfig(cfg, nil, logger)
		if err != nil {
			return err
		}

		criteria, err := demoOpts.apply(cmd.Flags(), session.Criteria())
		if err != nil {
			return err
		}
		session.SetCriteria(criteria)
		session.LoadDemo()

		return writeOutput(cmd.OutOrStdout(), demoOpts.output, session.Snapshot(), demoOpts.top)
	},
}
