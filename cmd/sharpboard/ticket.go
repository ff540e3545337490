package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/sharpboard/internal/backend"
	"github.com/yourusername/sharpboard/internal/dashboard"
	"github.com/yourusername/sharpboard/internal/models"
	"github.com/yourusername/sharpboard/internal/risk"
)

var (
	ticketOpts     boardFlags
	ticketPicks    []string
	ticketMode     string
	ticketStake    float64
	ticketBankroll float64
	ticketSubmit   bool
	ticketDemo     bool
)

func init() {
	ticketOpts.register(ticketCmd)
	fs := ticketCmd.Flags()
	fs.StringArrayVarP(&ticketPicks, "pick", "p", nil, "Board row to add, by 1-based position on the filtered board or by row key (repeatable)")
	fs.StringVarP(&ticketMode, "mode", "m", "", "Slip mode: single or parlay")
	fs.Float64Var(&ticketStake, "stake", 0, "Stake per single or per parlay")
	fs.Float64Var(&ticketBankroll, "bankroll", 0, "Simulated bankroll")
	fs.BoolVar(&ticketSubmit, "submit", false, "Log the ticket with the backend instead of simulating it")
	fs.BoolVar(&ticketDemo, "demo", false, "Price picks from the demo board")
	_ = ticketCmd.MarkFlagRequired("pick")
}

var ticketCmd = &cobra.Command{
	Use:   "ticket",
	Short: "Build a slip from board rows and simulate or submit it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ticketSubmit && ticketDemo {
			return fmt.Errorf("--submit cannot be used with --demo")
		}

		var (
			session *dashboard.Session
			client  *backend.Client
			err     error
		)
		if ticketDemo {
			session, err = dashboard.NewFromConfig(cfg, nil, logger)
		} else {
			session, client, err = newSession()
		}
		if err != nil {
			return err
		}
		if client != nil {
			defer client.Close()
		}

		criteria, err := ticketOpts.apply(cmd.Flags(), session.Criteria())
		if err != nil {
			return err
		}
		session.SetCriteria(criteria)

		if ticketDemo {
			session.LoadDemo()
		} else {
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Refresh.RefreshTimeout())
			err := session.Refresh(ctx)
			cancel()
			if err != nil {
				return err
			}
		}

		if err := configureSlip(cmd, session); err != nil {
			return err
		}

		filtered := session.Snapshot().Filtered
		for _, p := range ticketPicks {
			key, err := resolvePick(p, filtered)
			if err != nil {
				return err
			}
			if _, err := session.TogglePick(key); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if ticketSubmit {
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Backend.Timeout)
			defer cancel()

			resp, err := session.SubmitTicket(ctx, map[string]string{"client": "sharpboard-cli"})
			if err != nil {
				return err
			}
			printSlip(out, session.Snapshot())
			ids := make([]string, len(resp.CreatedTicketIDs))
			for i, id := range resp.CreatedTicketIDs {
				ids[i] = string(id)
			}
			fmt.Fprintf(out, "Ticket logged • request %s • tickets %s\n", resp.RequestID, strings.Join(ids, ", "))
			return nil
		}

		ticket, err := session.SimulateTicket()
		if err != nil {
			return err
		}
		printSlip(out, session.Snapshot())
		fmt.Fprintf(out, "Simulated ticket %s • cost %s • bankroll after %s\n",
			ticket.ID, ticket.Cost.StringFixed(2), ticket.BankrollAfter.StringFixed(2))
		return nil
	},
}

func configureSlip(cmd *cobra.Command, session *dashboard.Session) error {
	fs := cmd.Flags()
	if fs.Changed("mode") {
		mode, err := risk.ParseMode(ticketMode)
		if err != nil {
			return err
		}
		if err := session.SetMode(mode); err != nil {
			return err
		}
	}
	if fs.Changed("stake") {
		session.SetStake(ticketStake)
	}
	if fs.Changed("bankroll") {
		session.SetBankroll(ticketBankroll)
	}
	return nil
}

// resolvePick maps a 1-based board position or a row key to a row key.
func resolvePick(pick string, rows []models.MarketRow) (string, error) {
	if n, err := strconv.Atoi(pick); err == nil {
		if n < 1 || n > len(rows) {
			return "", fmt.Errorf("%w: position %d (board has %d rows)", models.ErrPickNotOnBoard, n, len(rows))
		}
		return rows[n-1].Key(), nil
	}
	return pick, nil
}
