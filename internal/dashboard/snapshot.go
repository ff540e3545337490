package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/sharpboard/internal/backend"
	"github.com/yourusername/sharpboard/internal/filter"
	"github.com/yourusername/sharpboard/internal/models"
	"github.com/yourusername/sharpboard/internal/risk"
	"github.com/yourusername/sharpboard/internal/slip"
)

// Snapshot is a deep copy of everything the dashboard shows
type Snapshot struct {
	Board       []models.MarketRow   `json:"board"`
	Filtered    []models.MarketRow   `json:"filtered"`
	Sports      []string             `json:"sports"`
	Criteria    filter.Criteria      `json:"criteria"`
	Picks       []slip.Pick          `json:"picks"`
	Mode        risk.Mode            `json:"mode"`
	Stake       decimal.Decimal      `json:"stake"`
	Bankroll    decimal.Decimal      `json:"bankroll"`
	Assessment  risk.Assessment      `json:"assessment"`
	RecentMoves []string             `json:"recent_moves"`
	Backend     backend.HealthStatus `json:"backend"`
	Status      string               `json:"status"`
	Source      string               `json:"source"`
	LastUpdated time.Time            `json:"last_updated"`
}

// TopSignal returns the highest signal score on the filtered board, or 0.
func (s Snapshot) TopSignal() int {
	top := 0
	for _, r := range s.Filtered {
		if r.SignalScore > top {
			top = r.SignalScore
		}
	}
	return top
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Board:       models.CloneRows(s.rows),
		Filtered:    models.CloneRows(s.filtered),
		Sports:      filter.Sports(s.rows),
		Criteria:    s.criteria,
		Picks:       s.slip.Picks(),
		Mode:        s.slip.Mode(),
		Stake:       s.slip.Stake(),
		Bankroll:    s.slip.Bankroll(),
		Assessment:  s.slip.Assess(),
		RecentMoves: s.tracker.RecentMoves(),
		Backend:     s.health,
		Status:      s.status,
		Source:      s.boardSource,
		LastUpdated: s.lastUpdated,
	}
}
