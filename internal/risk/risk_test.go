package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharpboard/internal/models"
)

func f(v float64) *float64 { return &v }

func leg(matchup string, dec, model *float64) models.MarketRow {
	return models.MarketRow{Sport: "NBA", Matchup: matchup, DecimalOdds: dec, ModelProbability: model}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("single")
	require.NoError(t, err)
	assert.Equal(t, ModeSingle, m)

	m, err = ParseMode(" PARLAY ")
	require.NoError(t, err)
	assert.Equal(t, ModeParlay, m)

	_, err = ParseMode("teaser")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestNormalizeStake(t *testing.T) {
	assert.Equal(t, 1.0, NormalizeStake(0))
	assert.Equal(t, 1.0, NormalizeStake(-5))
	assert.Equal(t, 40.0, NormalizeStake(40))
	assert.Equal(t, DefaultStake, NormalizeStake(math.NaN()))
}

func TestSingles(t *testing.T) {
	picks := []models.MarketRow{
		leg("A", f(1.91), f(0.55)),
		leg("B", f(2.00), f(0.52)),
		leg("C", nil, f(0.60)),
	}

	res := Singles(25, picks)

	require.Len(t, res.Picks, 3)
	require.NotNil(t, res.Picks[0].EV)
	assert.InDelta(t, 1.2625, *res.Picks[0].EV, 1e-9)
	assert.InDelta(t, 1.0, *res.Picks[1].EV, 1e-9)
	assert.Nil(t, res.Picks[2].EV)
	require.NotNil(t, res.TotalEV)
	assert.InDelta(t, 2.2625, *res.TotalEV, 1e-9)
	assert.Equal(t, 75.0, res.Cost)
}

func TestSinglesWithoutData(t *testing.T) {
	res := Singles(25, []models.MarketRow{leg("A", nil, nil)})
	assert.Nil(t, res.TotalEV)
}

func TestParlayTwoLegs(t *testing.T) {
	picks := []models.MarketRow{
		leg("A", f(1.91), f(0.55)),
		leg("B", f(2.00), f(0.52)),
	}

	res := Parlay(25, picks)

	require.NotNil(t, res.DecimalOdds)
	assert.InDelta(t, 3.82, *res.DecimalOdds, 1e-9)
	require.NotNil(t, res.ModelProbability)
	assert.InDelta(t, 0.286, *res.ModelProbability, 1e-9)
	require.NotNil(t, res.ToWin)
	assert.InDelta(t, 95.5, *res.ToWin, 1e-9)
	require.NotNil(t, res.EV)
	assert.InDelta(t, 2.313, *res.EV, 0.01)
	assert.Equal(t, 25.0, res.Cost)
	assert.Nil(t, res.ImpliedProbability)
}

func TestParlaySkipsMissingLegs(t *testing.T) {
	picks := []models.MarketRow{
		leg("A", f(1.91), f(0.55)),
		leg("B", f(2.00), f(0.52)),
		leg("C", nil, nil),
	}

	res := Parlay(25, picks)

	assert.Equal(t, 3, res.Legs)
	assert.InDelta(t, 3.82, *res.DecimalOdds, 1e-9)
	assert.InDelta(t, 2.313, *res.EV, 0.01)
}

func TestParlayNeedsDecimalAndModel(t *testing.T) {
	res := Parlay(25, []models.MarketRow{leg("A", f(1.91), nil)})
	require.NotNil(t, res.ToWin)
	assert.Nil(t, res.EV)

	res = Parlay(25, []models.MarketRow{leg("A", nil, f(0.5))})
	assert.Nil(t, res.ToWin)
	assert.Nil(t, res.EV)

	res = Parlay(25, nil)
	assert.Nil(t, res.EV)
	assert.Zero(t, res.Cost)
}

func TestSlipRisk(t *testing.T) {
	tests := []struct {
		name  string
		picks []models.MarketRow
		want  Score
	}{
		{
			name: "empty",
			want: Score{Value: 0, Label: LabelEmpty},
		},
		{
			name:  "strong single with steam",
			picks: []models.MarketRow{{SignalScore: 72, EdgePercent: f(3.9), SteamActive: true}},
			want:  Score{Value: 32, Label: LabelLow},
		},
		{
			name: "three legs",
			picks: []models.MarketRow{
				{SignalScore: 19, EdgePercent: f(1.42)},
				{SignalScore: 72, EdgePercent: f(3.9), SteamActive: true},
				{SignalScore: 55},
			},
			want: Score{Value: 61, Label: LabelModerate},
		},
		{
			name:  "half rounds up",
			picks: []models.MarketRow{{EdgePercent: f(0.25)}},
			want:  Score{Value: 50, Label: LabelControlled},
		},
		{
			name: "clamped at 100",
			picks: []models.MarketRow{
				{SteamDetected: true}, {SteamDetected: true}, {SteamDetected: true},
				{SteamDetected: true}, {SteamDetected: true},
			},
			want: Score{Value: 100, Label: LabelHighVolatility},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SlipRisk(tt.picks))
		})
	}
}

func TestBands(t *testing.T) {
	assert.Equal(t, LabelHighVolatility, band(80))
	assert.Equal(t, LabelModerate, band(79))
	assert.Equal(t, LabelModerate, band(60))
	assert.Equal(t, LabelControlled, band(59))
	assert.Equal(t, LabelControlled, band(35))
	assert.Equal(t, LabelLow, band(34))
}

func TestAssess(t *testing.T) {
	picks := []models.MarketRow{
		leg("A", f(1.91), f(0.55)),
		leg("B", f(2.00), f(0.52)),
	}

	single := Assess(ModeSingle, 25, picks)
	require.NotNil(t, single.Singles)
	assert.Nil(t, single.Parlay)
	assert.InDelta(t, 2.2625, *single.EV, 1e-9)
	assert.Equal(t, 50.0, single.Cost)

	parlay := Assess(ModeParlay, 25, picks)
	require.NotNil(t, parlay.Parlay)
	assert.InDelta(t, 2.313, *parlay.EV, 0.01)
	assert.Equal(t, 25.0, parlay.Cost)
	assert.Equal(t, 60, parlay.Risk.Value)

	clamped := Assess(ModeParlay, 0, picks)
	assert.Equal(t, 1.0, clamped.Stake)

	unknown := Assess(Mode("teaser"), 25, picks)
	assert.Equal(t, ModeSingle, unknown.Mode)
}
