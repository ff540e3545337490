package odds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     float64
	}{
		{"Positive odds +100", 100, 2.0},
		{"Positive odds +150", 150, 2.5},
		{"Negative odds -110", -110, 1.909090909},
		{"Negative odds -200", -200, 1.5},
		{"Negative odds -135", -135, 1.740740741},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AmericanToDecimal(tt.american)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestAmericanToImpliedProbability(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     float64
	}{
		{"Even odds +100", 100, 0.50},
		{"Favorite -110", -110, 0.5238},
		{"Heavy favorite -200", -200, 0.6667},
		{"Underdog +150", 150, 0.40},
		{"Heavy underdog +300", 300, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AmericanToImpliedProbability(tt.american)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestZeroOddsRejected(t *testing.T) {
	_, err := AmericanToDecimal(0)
	assert.ErrorIs(t, err, ErrZeroOdds)

	_, err = AmericanToImpliedProbability(0)
	assert.ErrorIs(t, err, ErrZeroOdds)

	assert.Nil(t, DecimalOdds(intPtr(0)))
	assert.Nil(t, ImpliedProbability(intPtr(0)))
}

func TestImpliedIsInverseOfDecimal(t *testing.T) {
	for _, a := range []int{-10000, -500, -135, -110, -101, 100, 101, 120, 150, 500, 10000} {
		implied, err := AmericanToImpliedProbability(a)
		require.NoError(t, err)
		dec, err := AmericanToDecimal(a)
		require.NoError(t, err)

		assert.Greater(t, implied, 0.0, "odds %d", a)
		assert.Less(t, implied, 1.0, "odds %d", a)
		assert.InDelta(t, 1/dec, implied, 1e-9, "odds %d", a)
	}
}

func TestNilPropagation(t *testing.T) {
	assert.Nil(t, DecimalOdds(nil))
	assert.Nil(t, ImpliedProbability(nil))

	dec := DecimalOdds(intPtr(150))
	require.NotNil(t, dec)
	assert.Equal(t, 2.5, *dec)
}

func TestModelProbability(t *testing.T) {
	tests := []struct {
		name    string
		implied *float64
		edge    *float64
		want    *float64
	}{
		{"additive blend", floatPtr(0.5238), floatPtr(3.0), floatPtr(0.5538)},
		{"clamped high", floatPtr(0.98), floatPtr(5.0), floatPtr(1.0)},
		{"clamped low", floatPtr(0.02), floatPtr(-5.0), floatPtr(0.0)},
		{"missing edge", floatPtr(0.5), nil, nil},
		{"missing implied", nil, floatPtr(2.0), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ModelProbability(tt.implied, tt.edge)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestIsFavorableMove(t *testing.T) {
	tests := []struct {
		name string
		prev int
		next int
		want bool
	}{
		{"favorite shortens for bettor", -110, -105, true},
		{"favorite lengthens against bettor", -110, -115, false},
		{"underdog drifts out", 120, 130, true},
		{"underdog comes in", 130, 120, false},
		{"crosses to plus side", -105, 105, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFavorableMove(tt.prev, tt.next))
		})
	}
}

func TestFormatAmerican(t *testing.T) {
	assert.Equal(t, "+150", FormatAmerican(150))
	assert.Equal(t, "-110", FormatAmerican(-110))
	assert.Equal(t, "0", FormatAmerican(0))
}
