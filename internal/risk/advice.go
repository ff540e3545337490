package risk

import (
	"fmt"
	"math"
	"strings"

	"github.com/yourusername/sharpboard/internal/models"
)

// IdleAdvice is shown while the slip is empty.
const IdleAdvice = "Watching the board for steam and signal spikes. Build a slip to grade it."

// Advice returns the one-line slip summary shown beside the risk score.
func Advice(mode Mode, picks []models.MarketRow, score Score) string {
	n := len(picks)
	if n == 0 {
		return IdleAdvice
	}

	sum, steam := 0, 0
	for _, p := range picks {
		sum += p.SignalScore
		if p.HasSteam() {
			steam++
		}
	}
	avg := int(math.Floor(float64(sum)/float64(n) + 0.5))

	var b strings.Builder
	if mode == ModeParlay {
		fmt.Fprintf(&b, "Parlay armed: %d legs • avg signal %d.", n, avg)
		if steam > 0 {
			fmt.Fprintf(&b, " Steam legs: %d.", steam)
		}
		fmt.Fprintf(&b, " Risk score %d. If EV is negative, trim legs with lowest signal/edge first.", score.Value)
		return b.String()
	}

	fmt.Fprintf(&b, "Singles armed: %d picks • avg signal %d.", n, avg)
	if steam > 0 {
		fmt.Fprintf(&b, " Steam flags: %d.", steam)
	}
	fmt.Fprintf(&b, " Risk score %d. Consider staking heavier on highest signal + edge combos.", score.Value)
	return b.String()
}
