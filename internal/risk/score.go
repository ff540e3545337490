package risk

import (
	"math"

	"github.com/yourusername/sharpboard/internal/models"
)

// Risk labels
const (
	LabelEmpty          = "EMPTY"
	LabelHighVolatility = "HIGH VOLATILITY"
	LabelModerate       = "MODERATE RISK"
	LabelControlled     = "CONTROLLED"
	LabelLow            = "LOW RISK"
)

// Score is the slip risk heuristic, 0 to 100
type Score struct {
	Value int    `json:"score"`
	Label string `json:"label"`
}

// SlipRisk scores a slip. More legs and steam raise the score; a higher
// average signal or edge lowers it.
func SlipRisk(picks []models.MarketRow) Score {
	n := len(picks)
	if n == 0 {
		return Score{Value: 0, Label: LabelEmpty}
	}

	var signalSum, edgeSum float64
	steam := 0
	for _, p := range picks {
		signalSum += float64(p.SignalScore)
		edgeSum += p.Edge()
		if p.HasSteam() {
			steam++
		}
	}
	avgSignal := signalSum / float64(n)
	avgEdge := edgeSum / float64(n)

	base := 50.0
	base += float64(n-1) * 10
	base += float64(steam) * 4
	base -= math.Min(20, avgSignal/5)
	base -= math.Min(10, avgEdge*2)

	value := int(math.Max(0, math.Min(100, math.Floor(base+0.5))))
	return Score{Value: value, Label: band(value)}
}

func band(score int) string {
	switch {
	case score >= 80:
		return LabelHighVolatility
	case score >= 60:
		return LabelModerate
	case score >= 35:
		return LabelControlled
	default:
		return LabelLow
	}
}

// Assessment bundles everything the slip panel shows
type Assessment struct {
	Mode    Mode           `json:"mode"`
	Stake   float64        `json:"stake"`
	Risk    Score          `json:"risk"`
	EV      *float64       `json:"ev"`
	Cost    float64        `json:"cost"`
	Singles *SinglesResult `json:"singles,omitempty"`
	Parlay  *ParlayResult  `json:"parlay,omitempty"`
	Advice  string         `json:"advice"`
}

// Assess prices the slip in the given mode. An unknown mode is treated as
// singles.
func Assess(mode Mode, stake float64, picks []models.MarketRow) Assessment {
	stake = NormalizeStake(stake)
	a := Assessment{Mode: mode, Stake: stake, Risk: SlipRisk(picks)}

	if mode == ModeParlay {
		p := Parlay(stake, picks)
		a.Parlay = &p
		a.EV = p.EV
		a.Cost = p.Cost
		a.Advice = Advice(mode, picks, a.Risk)
		return a
	}

	a.Mode = ModeSingle
	s := Singles(stake, picks)
	a.Singles = &s
	a.EV = s.TotalEV
	a.Cost = s.Cost
	a.Advice = Advice(ModeSingle, picks, a.Risk)
	return a
}
