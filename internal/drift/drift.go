// Package drift nudges odds at random so a static demo board shows movement.
package drift

import (
	"math/rand"
	"sync"
	"time"

	"github.com/yourusername/sharpboard/internal/models"
	"github.com/yourusername/sharpboard/internal/normalizer"
)

// Defaults for demo drift
const (
	DefaultChance    = 0.70
	DefaultMaxPoints = 6
	DefaultLimit     = 500
)

// Config controls demo drift
type Config struct {
	Enabled   bool    `mapstructure:"enabled"`
	Chance    float64 `mapstructure:"chance" validate:"omitempty,gte=0,lte=1"`
	MaxPoints int     `mapstructure:"max_points" validate:"omitempty,gte=1"`
	Limit     int     `mapstructure:"limit" validate:"omitempty,gte=100"`
}

// DefaultConfig returns drift settings matching the demo board.
func DefaultConfig() Config {
	return Config{Enabled: true, Chance: DefaultChance, MaxPoints: DefaultMaxPoints, Limit: DefaultLimit}
}

// Source is the randomness drift draws from. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// Drifter applies random odds drift
type Drifter struct {
	cfg Config
	mu  sync.Mutex
	rnd Source
}

// NewDrifter creates a drifter. A nil source is seeded from the clock.
func NewDrifter(cfg Config, rnd Source) *Drifter {
	if cfg.MaxPoints < 1 {
		cfg.MaxPoints = DefaultMaxPoints
	}
	if cfg.Limit < 1 {
		cfg.Limit = DefaultLimit
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Drifter{cfg: cfg, rnd: rnd}
}

// Enabled reports whether drift is switched on.
func (d *Drifter) Enabled() bool {
	return d != nil && d.cfg.Enabled
}

// Apply returns drifted copies of rows with derived fields recomputed. Rows
// without odds pass through unchanged. When drift is disabled the rows are
// returned as copies with no change.
func (d *Drifter) Apply(rows []models.MarketRow) []models.MarketRow {
	out := models.CloneRows(rows)
	if !d.Enabled() {
		return out
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for i, r := range out {
		if r.Odds == nil {
			continue
		}
		if d.rnd.Float64() > d.cfg.Chance {
			continue
		}

		magnitude := d.rnd.Intn(d.cfg.MaxPoints) + 1
		direction := -1
		if d.rnd.Float64() > 0.5 {
			direction = 1
		}

		next := Step(*r.Odds, direction, magnitude, d.cfg.Limit)
		r.Odds = &next
		out[i] = normalizer.Derive(r)
	}
	return out
}

// Step moves American odds by magnitude points. For a favorite, direction 1
// lengthens the price (-110 to -112); for an underdog it raises it (+135 to
// +140). The result is clamped to ±limit and a result of 0 keeps the old odds.
func Step(odds, direction, magnitude, limit int) int {
	next := odds
	if next < 0 {
		next += direction * -magnitude
	} else {
		next += direction * magnitude
	}

	if next > limit {
		next = limit
	}
	if next < -limit {
		next = -limit
	}
	if next == 0 {
		next = odds
	}
	return next
}
