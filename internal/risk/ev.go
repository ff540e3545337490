// Package risk prices a bet slip: expected value for singles and parlays and
// a heuristic slip risk score.
package risk

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/yourusername/sharpboard/internal/models"
)

// Mode is how the slip is turned into tickets
type Mode string

const (
	// ModeSingle places each pick as its own ticket
	ModeSingle Mode = "single"
	// ModeParlay combines all picks into one ticket
	ModeParlay Mode = "parlay"
)

// DefaultStake is used when no usable stake is supplied.
const DefaultStake = 25.0

// ErrUnknownMode is returned by ParseMode.
var ErrUnknownMode = errors.New("unknown slip mode")

// ParseMode validates a slip mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSingle:
		return ModeSingle, nil
	case ModeParlay:
		return ModeParlay, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// NormalizeStake clamps a stake to at least 1. Non-finite input falls back
// to DefaultStake.
func NormalizeStake(stake float64) float64 {
	if math.IsNaN(stake) || math.IsInf(stake, 0) {
		return DefaultStake
	}
	return math.Max(1, stake)
}

// SingleEV returns stake × (decimal × model − 1), or nil if the row lacks
// either input.
func SingleEV(stake float64, r models.MarketRow) *float64 {
	if r.DecimalOdds == nil || r.ModelProbability == nil {
		return nil
	}
	ev := stake * (*r.DecimalOdds**r.ModelProbability - 1)
	return &ev
}

// SinglePick is the EV of one single ticket
type SinglePick struct {
	Key string   `json:"key"`
	EV  *float64 `json:"ev"`
}

// SinglesResult prices every pick as an independent ticket
type SinglesResult struct {
	Picks   []SinglePick `json:"picks"`
	TotalEV *float64     `json:"total_ev"`
	Cost    float64      `json:"cost"`
}

// Singles prices each pick as an equal-stake single. Picks without EV are
// skipped in the total; a slip where no pick has EV has a nil total.
func Singles(stake float64, picks []models.MarketRow) SinglesResult {
	res := SinglesResult{
		Picks: make([]SinglePick, 0, len(picks)),
		Cost:  stake * float64(len(picks)),
	}

	var sum float64
	found := false
	for _, p := range picks {
		ev := SingleEV(stake, p)
		res.Picks = append(res.Picks, SinglePick{Key: p.Key(), EV: ev})
		if ev != nil {
			sum += *ev
			found = true
		}
	}
	if found {
		res.TotalEV = &sum
	}
	return res
}

// ParlayResult prices the slip as one combined ticket
type ParlayResult struct {
	Legs               int      `json:"legs"`
	DecimalOdds        *float64 `json:"decimal_odds"`
	ImpliedProbability *float64 `json:"implied_probability"`
	ModelProbability   *float64 `json:"model_probability"`
	ToWin              *float64 `json:"to_win"`
	EV                 *float64 `json:"ev"`
	Cost               float64  `json:"cost"`
}

// Parlay multiplies per-leg decimal odds and probabilities. A leg missing a
// value is left out of that product rather than voiding the parlay.
func Parlay(stake float64, picks []models.MarketRow) ParlayResult {
	res := ParlayResult{Legs: len(picks)}
	if len(picks) == 0 {
		return res
	}
	res.Cost = stake

	dec, implied, model := product(picks, func(r models.MarketRow) *float64 { return r.DecimalOdds }),
		product(picks, func(r models.MarketRow) *float64 { return r.ImpliedProbability }),
		product(picks, func(r models.MarketRow) *float64 { return r.ModelProbability })

	res.DecimalOdds = dec
	res.ImpliedProbability = implied
	res.ModelProbability = model

	if dec != nil {
		toWin := stake * *dec
		res.ToWin = &toWin
	}
	if dec != nil && model != nil {
		ev := stake * (*dec**model - 1)
		res.EV = &ev
	}
	return res
}

func product(picks []models.MarketRow, field func(models.MarketRow) *float64) *float64 {
	acc := 1.0
	found := false
	for _, p := range picks {
		if v := field(p); v != nil {
			acc *= *v
			found = true
		}
	}
	if !found {
		return nil
	}
	return &acc
}
