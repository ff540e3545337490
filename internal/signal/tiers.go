// Package signal maps numeric signal scores to display labels.
package signal

import (
	"errors"
	"fmt"
)

// Preset names accepted in configuration.
const (
	PresetClassic = "classic"
	PresetElite   = "elite"
)

var (
	// ErrEmptyTable is returned when a tier table has no tiers.
	ErrEmptyTable = errors.New("signal tier table is empty")
	// ErrUnknownPreset is returned for a preset name that is not defined.
	ErrUnknownPreset = errors.New("unknown signal tier preset")
)

// Tier labels every score at or above MinScore that no higher tier claims.
type Tier struct {
	MinScore int    `mapstructure:"min_score" json:"min_score"`
	Label    string `mapstructure:"label" json:"label"`
}

// TierTable is ordered from the highest MinScore to the lowest.
type TierTable []Tier

// ClassicTiers is the 70/55 convention used by the sportsbook board.
func ClassicTiers() TierTable {
	return TierTable{
		{MinScore: 70, Label: "SHARP WATCH"},
		{MinScore: 55, Label: "INTEREST"},
		{MinScore: 0, Label: "NOISE"},
	}
}

// EliteTiers is the 81/61/31 convention.
func EliteTiers() TierTable {
	return TierTable{
		{MinScore: 81, Label: "ELITE"},
		{MinScore: 61, Label: "SHARP"},
		{MinScore: 31, Label: "INTEREST"},
		{MinScore: 0, Label: "NOISE"},
	}
}

// Preset returns a named tier table.
func Preset(name string) (TierTable, error) {
	switch name {
	case "", PresetClassic:
		return ClassicTiers(), nil
	case PresetElite:
		return EliteTiers(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
}

// Label returns the label of the first tier whose threshold the score meets.
// Scores below every threshold get the lowest tier's label.
func (t TierTable) Label(score int) string {
	if len(t) == 0 {
		return ""
	}
	for _, tier := range t {
		if score >= tier.MinScore {
			return tier.Label
		}
	}
	return t[len(t)-1].Label
}

// Validate checks that thresholds strictly descend, labels are set, and the
// last tier starts at 0 so every non-negative score is covered.
func (t TierTable) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTable
	}
	for i, tier := range t {
		if tier.Label == "" {
			return fmt.Errorf("tier %d has an empty label", i)
		}
		if i > 0 && tier.MinScore >= t[i-1].MinScore {
			return fmt.Errorf("tier %d min_score %d must be below %d", i, tier.MinScore, t[i-1].MinScore)
		}
	}
	if last := t[len(t)-1]; last.MinScore != 0 {
		return fmt.Errorf("last tier must start at 0, got %d", last.MinScore)
	}
	return nil
}
