package models

import "strings"

// Placeholder is shown for any textual field the upstream row omits.
const Placeholder = "—"

// MoveDirection classifies an odds change from the bettor's point of view.
type MoveDirection int

const (
	// MoveNone means the price did not change or there was nothing to compare
	MoveNone MoveDirection = iota
	// MoveBetter means the price improved for the bettor
	MoveBetter
	// MoveWorse means the price got worse for the bettor
	MoveWorse
)

// String returns string representation of the direction
func (d MoveDirection) String() string {
	switch d {
	case MoveBetter:
		return "BETTER"
	case MoveWorse:
		return "WORSE"
	default:
		return "NONE"
	}
}

// Glyph returns the ticker arrow for a move.
func (d MoveDirection) Glyph() string {
	switch d {
	case MoveBetter:
		return "▼"
	case MoveWorse:
		return "▲"
	default:
		return ""
	}
}

// RawMarketRow is the canonical ingestion shape every upstream adapter
// produces. A nil text field was missing or null upstream; an empty string
// was sent as such. An empty SignalLabel means no label.
type RawMarketRow struct {
	Sport         *string
	Start         *string
	Matchup       *string
	Market        *string
	Line          *string
	Book          *string
	Odds          *float64
	Edge          *float64
	SignalScore   *float64
	SignalLabel   string
	SteamDetected bool
}

// MarketRow is one quoted line for one market on one event
type MarketRow struct {
	Sport   string `json:"sport"`
	Start   string `json:"start"`
	Matchup string `json:"matchup"`
	Market  string `json:"market"`
	Line    string `json:"line"`
	Book    string `json:"book"`

	Odds          *int     `json:"odds"`
	EdgePercent   *float64 `json:"edge"`
	SignalScore   int      `json:"signal_score"`
	SignalLabel   string   `json:"signal_label"`
	SteamDetected bool     `json:"steam_detected"`

	ImpliedProbability *float64 `json:"implied_probability"`
	DecimalOdds        *float64 `json:"decimal_odds"`
	ModelProbability   *float64 `json:"model_probability"`

	PreviousOdds  *int          `json:"previous_odds"`
	MoveDirection MoveDirection `json:"move_direction"`
	SteamActive   bool          `json:"steam_active"`
}

// Key returns the stable identity of the row. Odds are excluded so a row
// keeps its identity when its price moves.
func (r MarketRow) Key() string {
	return strings.Join([]string{r.Sport, r.Start, r.Matchup, r.Market, r.Line, r.Book}, "|")
}

// HasSteam reports tracker-detected steam or a source-provided steam hint.
func (r MarketRow) HasSteam() bool {
	return r.SteamActive || r.SteamDetected
}

// Edge returns the edge percentage, treating a missing edge as 0.
func (r MarketRow) Edge() float64 {
	if r.EdgePercent == nil {
		return 0
	}
	return *r.EdgePercent
}

// Clone returns a copy that shares no pointers with r.
func (r MarketRow) Clone() MarketRow {
	c := r
	c.Odds = cloneInt(r.Odds)
	c.PreviousOdds = cloneInt(r.PreviousOdds)
	c.EdgePercent = cloneFloat(r.EdgePercent)
	c.ImpliedProbability = cloneFloat(r.ImpliedProbability)
	c.DecimalOdds = cloneFloat(r.DecimalOdds)
	c.ModelProbability = cloneFloat(r.ModelProbability)
	return c
}

// CloneRows deep-copies a row slice.
func CloneRows(rows []MarketRow) []MarketRow {
	if rows == nil {
		return nil
	}
	out := make([]MarketRow, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
