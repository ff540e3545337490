// Package tracker annotates refreshed board rows with line movement and
// detects steam, a run of same-direction moves on one market.
package tracker

import (
	"fmt"

	"github.com/yourusername/sharpboard/internal/models"
	"github.com/yourusername/sharpboard/internal/odds"
)

// Default tracker limits
const (
	DefaultWindow    = 4
	DefaultMinStreak = 2
	DefaultMaxRecent = 10
)

// Config holds the movement tracking limits
type Config struct {
	Window    int `mapstructure:"window" validate:"omitempty,min=1"`
	MinStreak int `mapstructure:"min_streak" validate:"omitempty,min=1"`
	MaxRecent int `mapstructure:"max_recent" validate:"omitempty,min=1"`
}

// DefaultConfig returns the standard 4/2/10 limits.
func DefaultConfig() Config {
	return Config{Window: DefaultWindow, MinStreak: DefaultMinStreak, MaxRecent: DefaultMaxRecent}
}

func (c Config) withDefaults() Config {
	if c.Window < 1 {
		c.Window = DefaultWindow
	}
	if c.MinStreak < 1 {
		c.MinStreak = DefaultMinStreak
	}
	if c.MaxRecent < 1 {
		c.MaxRecent = DefaultMaxRecent
	}
	return c
}

// State is everything the tracker remembers between refreshes.
type State struct {
	PreviousOdds map[string]int
	MoveHistory  map[string][]models.MoveDirection
	RecentMoves  []string
}

// NewState returns an empty tracker state.
func NewState() *State {
	return &State{
		PreviousOdds: make(map[string]int),
		MoveHistory:  make(map[string][]models.MoveDirection),
	}
}

// Move is one observed odds change.
type Move struct {
	Key       string
	Matchup   string
	Book      string
	From      int
	To        int
	Direction models.MoveDirection
}

// String renders the move the way the ticker shows it.
func (m Move) String() string {
	return fmt.Sprintf("%s %d→%d %s (%s)", m.Matchup, m.From, m.To, m.Direction.Glyph(), m.Book)
}

// Result is the outcome of one tracking pass.
type Result struct {
	Rows  []models.MarketRow
	Moves []Move
	Steam int
}

// Apply runs one tracking pass over rows, mutating state in place. The input
// slice is not modified; annotated copies are returned.
func Apply(state *State, rows []models.MarketRow, cfg Config) Result {
	cfg = cfg.withDefaults()
	if state.PreviousOdds == nil {
		state.PreviousOdds = make(map[string]int)
	}
	if state.MoveHistory == nil {
		state.MoveHistory = make(map[string][]models.MoveDirection)
	}

	res := Result{Rows: make([]models.MarketRow, 0, len(rows))}

	for _, in := range rows {
		row := in.Clone()
		key := row.Key()

		prev, seen := state.PreviousOdds[key]
		if seen {
			p := prev
			row.PreviousOdds = &p
		} else {
			row.PreviousOdds = nil
		}

		if row.Odds == nil || !seen || prev == *row.Odds {
			row.MoveDirection = models.MoveNone
			row.SteamActive = false
			if h, ok := state.MoveHistory[key]; ok {
				state.MoveHistory[key] = trim(h, cfg.Window)
			}
		} else {
			next := *row.Odds
			dir := models.MoveWorse
			if odds.IsFavorableMove(prev, next) {
				dir = models.MoveBetter
			}
			row.MoveDirection = dir
			res.Moves = append(res.Moves, Move{
				Key:       key,
				Matchup:   row.Matchup,
				Book:      row.Book,
				From:      prev,
				To:        next,
				Direction: dir,
			})

			h := trim(append(state.MoveHistory[key], dir), cfg.Window)
			state.MoveHistory[key] = h
			row.SteamActive = trailingRun(h) >= cfg.MinStreak
			if row.SteamActive {
				res.Steam++
			}
		}

		if row.Odds != nil {
			state.PreviousOdds[key] = *row.Odds
		}

		res.Rows = append(res.Rows, row)
	}

	if len(res.Moves) > 0 {
		recent := make([]string, 0, len(res.Moves)+len(state.RecentMoves))
		for _, m := range res.Moves {
			recent = append(recent, m.String())
		}
		recent = append(recent, state.RecentMoves...)
		if len(recent) > cfg.MaxRecent {
			recent = recent[:cfg.MaxRecent]
		}
		state.RecentMoves = recent
	}

	return res
}

// trim keeps the newest window entries, oldest first.
func trim(h []models.MoveDirection, window int) []models.MoveDirection {
	if len(h) <= window {
		return h
	}
	return append([]models.MoveDirection(nil), h[len(h)-window:]...)
}

// trailingRun counts identical directions ending at the newest entry.
func trailingRun(h []models.MoveDirection) int {
	if len(h) == 0 {
		return 0
	}
	last := h[len(h)-1]
	run := 0
	for i := len(h) - 1; i >= 0 && h[i] == last; i-- {
		run++
	}
	return run
}
