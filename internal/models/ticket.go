package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// LegSummary is the subset of a pick needed to re-identify and re-price it
// when a ticket is logged.
type LegSummary struct {
	Key              string   `json:"key"`
	Sport            string   `json:"sport"`
	Start            string   `json:"start"`
	Matchup          string   `json:"matchup"`
	Market           string   `json:"market"`
	Line             string   `json:"line"`
	Book             string   `json:"book"`
	Odds             *int     `json:"odds"`
	DecimalOdds      *float64 `json:"decimal_odds"`
	ModelProbability *float64 `json:"model_probability"`
	Edge             *float64 `json:"edge"`
	SignalScore      int      `json:"signal_score"`
}

// NewLegSummary builds a leg from a board row.
func NewLegSummary(r MarketRow) LegSummary {
	c := r.Clone()
	return LegSummary{
		Key:              r.Key(),
		Sport:            c.Sport,
		Start:            c.Start,
		Matchup:          c.Matchup,
		Market:           c.Market,
		Line:             c.Line,
		Book:             c.Book,
		Odds:             c.Odds,
		DecimalOdds:      c.DecimalOdds,
		ModelProbability: c.ModelProbability,
		Edge:             c.EdgePercent,
		SignalScore:      c.SignalScore,
	}
}

// TicketRequest is the ticket-logging payload
type TicketRequest struct {
	Mode     string            `json:"mode"`
	Stake    float64           `json:"stake"`
	Bankroll float64           `json:"bankroll"`
	Legs     []LegSummary      `json:"legs"`
	Meta     map[string]string `json:"meta"`
}

// TicketResponse is the ticket-logging reply
type TicketResponse struct {
	OK               bool       `json:"ok"`
	CreatedTicketIDs []TicketID `json:"created_ticket_ids"`

	// RequestID is the client-generated id sent with the request
	RequestID string `json:"-"`
}

// TicketID is a backend-assigned ticket identifier. The backend may send it
// as a JSON string or a JSON number.
type TicketID string

// UnmarshalJSON accepts both string and numeric identifiers.
func (id *TicketID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TicketID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("ticket id must be a string or number: %w", err)
	}
	*id = TicketID(strings.TrimSpace(n.String()))
	return nil
}
