// Package slip holds the user's selected picks, stake and bankroll.
package slip

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/sharpboard/internal/models"
	"github.com/yourusername/sharpboard/internal/risk"
)

// DefaultBankroll is the starting simulated bankroll.
const DefaultBankroll = 10000.0

var (
	// ErrEmptySlip is returned when simulating a ticket with no picks
	ErrEmptySlip = errors.New("slip is empty")
	// ErrInsufficientBankroll is returned when the ticket costs more than the bankroll
	ErrInsufficientBankroll = errors.New("insufficient bankroll for this ticket")
)

// Pick is a board row frozen at selection time
type Pick struct {
	Key string           `json:"key"`
	Row models.MarketRow `json:"row"`
}

// Ticket is the result of a simulated placement
type Ticket struct {
	ID            uuid.UUID       `json:"id"`
	Mode          risk.Mode       `json:"mode"`
	Legs          int             `json:"legs"`
	Stake         decimal.Decimal `json:"stake"`
	Cost          decimal.Decimal `json:"cost"`
	BankrollAfter decimal.Decimal `json:"bankroll_after"`
	Assessment    risk.Assessment `json:"assessment"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Slip is not safe for concurrent use; its owner serializes access.
type Slip struct {
	picks    []Pick
	mode     risk.Mode
	stake    decimal.Decimal
	bankroll decimal.Decimal
}

// New returns an empty single-mode slip with the default stake and bankroll.
func New() *Slip {
	return &Slip{
		mode:     risk.ModeSingle,
		stake:    decimal.NewFromFloat(risk.DefaultStake),
		bankroll: decimal.NewFromFloat(DefaultBankroll),
	}
}

// Mode returns the slip mode.
func (s *Slip) Mode() risk.Mode { return s.mode }

// SetMode switches between singles and parlay.
func (s *Slip) SetMode(m risk.Mode) error {
	parsed, err := risk.ParseMode(string(m))
	if err != nil {
		return err
	}
	s.mode = parsed
	return nil
}

// Stake returns the per-ticket stake.
func (s *Slip) Stake() decimal.Decimal { return s.stake }

// SetStake sets the stake, clamped to at least 1.
func (s *Slip) SetStake(v float64) decimal.Decimal {
	s.stake = decimal.NewFromFloat(risk.NormalizeStake(v))
	return s.stake
}

// Bankroll returns the simulated bankroll.
func (s *Slip) Bankroll() decimal.Decimal { return s.bankroll }

// SetBankroll sets the bankroll, clamped to at least 0.
func (s *Slip) SetBankroll(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = DefaultBankroll
	}
	s.bankroll = decimal.NewFromFloat(math.Max(0, v))
	return s.bankroll
}

// Len returns the number of picks.
func (s *Slip) Len() int { return len(s.picks) }

// Contains reports whether a pick with key is on the slip.
func (s *Slip) Contains(key string) bool {
	return s.index(key) >= 0
}

// Picks returns a copy of the picks in selection order.
func (s *Slip) Picks() []Pick {
	out := make([]Pick, len(s.picks))
	for i, p := range s.picks {
		out[i] = Pick{Key: p.Key, Row: p.Row.Clone()}
	}
	return out
}

// Rows returns the picked rows in selection order.
func (s *Slip) Rows() []models.MarketRow {
	out := make([]models.MarketRow, len(s.picks))
	for i, p := range s.picks {
		out[i] = p.Row.Clone()
	}
	return out
}

// Toggle adds the row if it is not on the slip and removes it if it is.
// It reports whether the row is on the slip afterwards.
func (s *Slip) Toggle(row models.MarketRow) bool {
	key := row.Key()
	if i := s.index(key); i >= 0 {
		s.picks = append(s.picks[:i], s.picks[i+1:]...)
		return false
	}
	s.picks = append(s.picks, Pick{Key: key, Row: row.Clone()})
	return true
}

// Sync refreshes every pick from board by key and drops picks whose key is
// no longer listed. It returns the number of dropped picks.
func (s *Slip) Sync(board []models.MarketRow) int {
	byKey := make(map[string]models.MarketRow, len(board))
	for _, r := range board {
		if _, ok := byKey[r.Key()]; !ok {
			byKey[r.Key()] = r
		}
	}

	kept := s.picks[:0]
	dropped := 0
	for _, p := range s.picks {
		r, ok := byKey[p.Key]
		if !ok {
			dropped++
			continue
		}
		kept = append(kept, Pick{Key: p.Key, Row: r.Clone()})
	}
	s.picks = kept
	return dropped
}

// Clear removes every pick.
func (s *Slip) Clear() {
	s.picks = nil
}

// Assess prices the slip in its current mode.
func (s *Slip) Assess() risk.Assessment {
	return risk.Assess(s.mode, s.stake.InexactFloat64(), s.Rows())
}

// Cost returns what placing the slip would cost.
func (s *Slip) Cost() decimal.Decimal {
	if len(s.picks) == 0 {
		return decimal.Zero
	}
	if s.mode == risk.ModeParlay {
		return s.stake
	}
	return s.stake.Mul(decimal.NewFromInt(int64(len(s.picks))))
}

// Simulate places the slip against the simulated bankroll. The picks stay on
// the slip.
func (s *Slip) Simulate() (*Ticket, error) {
	if len(s.picks) == 0 {
		return nil, ErrEmptySlip
	}

	cost := s.Cost()
	if s.bankroll.LessThan(cost) {
		return nil, fmt.Errorf("%w: cost %s, bankroll %s", ErrInsufficientBankroll, cost.StringFixed(2), s.bankroll.StringFixed(2))
	}

	s.bankroll = decimal.Max(decimal.Zero, s.bankroll.Sub(cost))

	return &Ticket{
		ID:            uuid.New(),
		Mode:          s.mode,
		Legs:          len(s.picks),
		Stake:         s.stake,
		Cost:          cost,
		BankrollAfter: s.bankroll,
		Assessment:    s.Assess(),
		CreatedAt:     time.Now(),
	}, nil
}

// TicketRequest builds the ticket-logging payload for the current slip.
func (s *Slip) TicketRequest(meta map[string]string) models.TicketRequest {
	legs := make([]models.LegSummary, len(s.picks))
	for i, p := range s.picks {
		legs[i] = models.NewLegSummary(p.Row)
	}

	m := make(map[string]string, len(meta))
	for k, v := range meta {
		m[k] = v
	}

	return models.TicketRequest{
		Mode:     string(s.mode),
		Stake:    s.stake.InexactFloat64(),
		Bankroll: s.bankroll.InexactFloat64(),
		Legs:     legs,
		Meta:     m,
	}
}

func (s *Slip) index(key string) int {
	for i, p := range s.picks {
		if p.Key == key {
			return i
		}
	}
	return -1
}
