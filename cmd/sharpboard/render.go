package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/yourusername/sharpboard/internal/dashboard"
	"github.com/yourusername/sharpboard/internal/models"
	"github.com/yourusername/sharpboard/internal/odds"
	"github.com/yourusername/sharpboard/internal/risk"
)

// Output formats
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	steamStyle  = cellStyle.Foreground(lipgloss.Color("203")).Bold(true)
	betterStyle = cellStyle.Foreground(lipgloss.Color("42"))
	worseStyle  = cellStyle.Foreground(lipgloss.Color("196"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var boardHeaders = []string{"#", "SPORT", "START", "MATCHUP", "MKT", "LINE", "BOOK", "ODDS", "MOVE", "IMPL", "MODEL", "EDGE", "SIGNAL", "STEAM"}

// Column indexes styled per row
const (
	colMove  = 8
	colSteam = 13
)

func writeOutput(w io.Writer, format string, snap dashboard.Snapshot, top int) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case outputYAML:
		return writeYAML(w, snap)
	case outputTable, "":
		printStatus(w, snap)
		printBoard(w, snap, top)
		printSlip(w, snap)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

// writeYAML renders v with its JSON field names.
func writeYAML(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(&node)
}

// blockStyle drops the flow style JSON input leaves on every node.
func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style = 0
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func printStatus(w io.Writer, snap dashboard.Snapshot) {
	fmt.Fprintln(w, statusStyle.Render(snap.Status))

	backendState := "DOWN"
	if snap.Backend.OK {
		backendState = "UP"
	}
	latency := "LAT: —"
	if snap.Backend.OK && snap.Backend.Latency > 0 {
		latency = fmt.Sprintf("LAT: %dms", snap.Backend.Latency.Milliseconds())
	}
	updated := "—"
	if !snap.LastUpdated.IsZero() {
		updated = snap.LastUpdated.Format("15:04:05")
	}
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("API: %s • %s • source %s • markets %d/%d • top signal %s • last updated %s",
		backendState, latency, orDash(snap.Source), len(snap.Filtered), len(snap.Board), topSignal(snap), updated)))
}

func printBoard(w io.Writer, snap dashboard.Snapshot, top int) {
	rows := snap.Filtered
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No markets on the board."))
		return
	}

	picked := make(map[string]bool, len(snap.Picks))
	for _, p := range snap.Picks {
		picked[p.Key] = true
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		idx := strconv.Itoa(i + 1)
		if picked[r.Key()] {
			idx += "*"
		}
		cells[i] = []string{
			idx, r.Sport, r.Start, r.Matchup, r.Market, r.Line, r.Book,
			formatOdds(r.Odds), formatMove(r),
			formatPct(r.ImpliedProbability), formatPct(r.ModelProbability), formatEdge(r.EdgePercent),
			fmt.Sprintf("%d %s", r.SignalScore, r.SignalLabel), formatSteam(r),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(boardHeaders...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(rows) {
				return cellStyle
			}
			r := rows[row]
			switch {
			case col == colSteam && r.HasSteam():
				return steamStyle
			case col == colMove && r.MoveDirection == models.MoveBetter:
				return betterStyle
			case col == colMove && r.MoveDirection == models.MoveWorse:
				return worseStyle
			}
			return cellStyle
		})

	fmt.Fprintln(w, t.Render())
}

func printSlip(w io.Writer, snap dashboard.Snapshot) {
	a := snap.Assessment
	fmt.Fprintf(w, "SLIP • %s • %d picks • stake %s • bankroll %s\n",
		strings.ToUpper(string(snap.Mode)), len(snap.Picks), snap.Stake.StringFixed(2), snap.Bankroll.StringFixed(2))

	for i, p := range snap.Picks {
		fmt.Fprintf(w, "  %d. %s %s %s @ %s (%s)\n", i+1, p.Row.Matchup, p.Row.Market, p.Row.Line, formatOdds(p.Row.Odds), p.Row.Book)
	}

	fmt.Fprintf(w, "RISK %d %s • EV %s • cost %.2f\n", a.Risk.Value, a.Risk.Label, formatMoney(a.EV), a.Cost)
	if a.Mode == risk.ModeParlay && a.Parlay != nil && a.Parlay.Legs > 0 {
		p := a.Parlay
		fmt.Fprintf(w, "PARLAY %d legs • decimal %s • implied %s • model %s • to win %s\n",
			p.Legs, formatDecimal(p.DecimalOdds), formatPct(p.ImpliedProbability), formatPct(p.ModelProbability), formatMoney(p.ToWin))
	}
	fmt.Fprintln(w, mutedStyle.Render(a.Advice))
}

func topSignal(snap dashboard.Snapshot) string {
	if top := snap.TopSignal(); top > 0 {
		return strconv.Itoa(top)
	}
	return models.Placeholder
}

func formatOdds(v *int) string {
	if v == nil {
		return models.Placeholder
	}
	return odds.FormatAmerican(*v)
}

func formatMove(r models.MarketRow) string {
	if r.MoveDirection == models.MoveNone || r.PreviousOdds == nil {
		return ""
	}
	return fmt.Sprintf("%s %s", r.MoveDirection.Glyph(), odds.FormatAmerican(*r.PreviousOdds))
}

func formatSteam(r models.MarketRow) string {
	if r.HasSteam() {
		return "STEAM"
	}
	return ""
}

func formatPct(v *float64) string {
	if v == nil {
		return models.Placeholder
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}

func formatEdge(v *float64) string {
	if v == nil {
		return models.Placeholder
	}
	return fmt.Sprintf("%+.2f%%", *v)
}

func formatDecimal(v *float64) string {
	if v == nil {
		return models.Placeholder
	}
	return fmt.Sprintf("%.3f", *v)
}

func formatMoney(v *float64) string {
	if v == nil {
		return models.Placeholder
	}
	return fmt.Sprintf("%+.2f", *v)
}

func orDash(s string) string {
	if s == "" {
		return models.Placeholder
	}
	return s
}
