package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/sharpboard/internal/dashboard"
	"github.com/yourusername/sharpboard/internal/export"
)

var (
	exportOpts boardFlags
	exportOut  string
	exportDemo bool
)

func init() {
	exportOpts.register(exportCmd)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default board_<timestamp>.csv, - for stdout)")
	exportCmd.Flags().BoolVar(&exportDemo, "demo", false, "Export the demo board instead of the backend board")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered board as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		var session *dashboard.Session
		if exportDemo {
			s, err := dashboard.NewFromConfig(cfg, nil, logger)
			if err != nil {
				return err
			}
			session = s
		} else {
			s, client, err := newSession()
			if err != nil {
				return err
			}
			defer client.Close()
			session = s
		}

		criteria, err := exportOpts.apply(cmd.Flags(), session.Criteria())
		if err != nil {
			return err
		}
		session.SetCriteria(criteria)

		if exportDemo {
			session.LoadDemo()
		} else {
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Refresh.RefreshTimeout())
			defer cancel()
			if err := session.Refresh(ctx); err != nil {
				return err
			}
		}

		if exportOut == "-" {
			return session.ExportCSV(cmd.OutOrStdout())
		}

		path := exportOut
		if path == "" {
			path = export.FileName(time.Now())
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}

		if err := session.ExportCSV(f); err != nil {
			_ = f.Close()
			_ = os.Remove(path)
			if errors.Is(err, export.ErrEmptyBoard) {
				return errors.New(session.Status())
			}
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}

		logger.WithField("path", path).Info("Board exported")
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}
