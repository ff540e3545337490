// Package odds provides American odds conversions and the probability math
// shared by the board normalizer, the movement tracker and the risk calculator.
package odds

import (
	"errors"
	"math"
	"strconv"
)

// ErrZeroOdds is returned for an American price of 0, which has no meaning.
var ErrZeroOdds = errors.New("invalid American odds: cannot be 0")

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -110 → Decimal 1.909
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, ErrZeroOdds
	}

	if american > 0 {
		return 1.0 + float64(american)/100.0, nil
	}

	return 1.0 + 100.0/math.Abs(float64(american)), nil
}

// AmericanToImpliedProbability converts American odds to the probability the
// price implies, ignoring any model.
// American +150 → 0.40
// American -110 → 0.5238
func AmericanToImpliedProbability(american int) (float64, error) {
	if american == 0 {
		return 0, ErrZeroOdds
	}

	if american > 0 {
		return 100.0 / (float64(american) + 100.0), nil
	}

	a := math.Abs(float64(american))
	return a / (a + 100.0), nil
}

// DecimalOdds is the nil-propagating form of AmericanToDecimal.
func DecimalOdds(american *int) *float64 {
	if american == nil {
		return nil
	}
	d, err := AmericanToDecimal(*american)
	if err != nil {
		return nil
	}
	return &d
}

// ImpliedProbability is the nil-propagating form of AmericanToImpliedProbability.
func ImpliedProbability(american *int) *float64 {
	if american == nil {
		return nil
	}
	p, err := AmericanToImpliedProbability(*american)
	if err != nil {
		return nil
	}
	return &p
}

// ModelProbability blends the implied probability with an edge percentage:
// clamp(implied + edge/100, 0, 1). The edge is treated as an additive
// probability adjustment. Nil when either input is missing.
func ModelProbability(implied, edgePercent *float64) *float64 {
	if implied == nil || edgePercent == nil {
		return nil
	}
	p := math.Max(0, math.Min(1, *implied+*edgePercent/100.0))
	return &p
}

// IsFavorableMove reports whether moving from prev to next improved the price
// for the bettor: a negative price became less negative or a positive price
// became more positive.
func IsFavorableMove(prev, next int) bool {
	return (prev < 0 && next > prev) || (prev > 0 && next > prev)
}

// FormatAmerican renders odds with an explicit sign for positive prices.
func FormatAmerican(american int) string {
	if american > 0 {
		return "+" + strconv.Itoa(american)
	}
	return strconv.Itoa(american)
}
