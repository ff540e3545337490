package normalizer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	fields, err := decodeObject(json.RawMessage(s))
	require.NoError(t, err)
	return fields
}

func TestSnakeCaseAdapter(t *testing.T) {
	raw := SnakeCaseAdapter().Adapt(decode(t, `{"sport":"NFL","signal_score":55,"signal_label":" INTEREST ","steam_detected":true,"edge":1.61}`))

	require.NotNil(t, raw.Sport)
	assert.Equal(t, "NFL", *raw.Sport)
	require.NotNil(t, raw.SignalScore)
	assert.Equal(t, 55.0, *raw.SignalScore)
	assert.Equal(t, "INTEREST", raw.SignalLabel)
	assert.True(t, raw.SteamDetected)
	require.NotNil(t, raw.Edge)
	assert.Equal(t, 1.61, *raw.Edge)
}

func TestCamelCaseAdapter(t *testing.T) {
	raw := CamelCaseAdapter().Adapt(decode(t, `{"signalScore":"64","signalLabel":"INTEREST","steamDetected":1,"edgePercent":2.2}`))

	require.NotNil(t, raw.SignalScore)
	assert.Equal(t, 64.0, *raw.SignalScore)
	assert.True(t, raw.SteamDetected)
	require.NotNil(t, raw.Edge)
	assert.Equal(t, 2.2, *raw.Edge)
}

func TestLegacyAdapter(t *testing.T) {
	raw := LegacyAdapter().Adapt(decode(t, `{"signal":88,"steam":false}`))

	require.NotNil(t, raw.SignalScore)
	assert.Equal(t, 88.0, *raw.SignalScore)
	assert.False(t, raw.SteamDetected)
	assert.Equal(t, "", raw.SignalLabel)
}

func TestAutoAdapterDetectsShape(t *testing.T) {
	tests := []struct {
		name  string
		row   string
		score float64
	}{
		{"snake", `{"signal_score":70,"signal":1}`, 70},
		{"camel", `{"signalScore":61}`, 61},
		{"legacy", `{"signal":33}`, 33},
	}

	auto := AutoAdapter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := auto.Adapt(decode(t, tt.row))
			require.NotNil(t, raw.SignalScore)
			assert.Equal(t, tt.score, *raw.SignalScore)
		})
	}
}

func TestAutoAdapterMixedAliases(t *testing.T) {
	tests := []struct {
		name  string
		row   string
		score float64
		label string
		steam bool
		edge  float64
	}{
		{"legacy score with snake steam", `{"signal":80,"steam_detected":true}`, 80, "", true, 0},
		{"camel score with empty snake label", `{"signalScore":72,"signal_label":""}`, 72, "", false, 0},
		{"snake score with camel label and steam", `{"signal_score":64,"signalLabel":"INTEREST","steamDetected":true,"edgePercent":2.5}`, 64, "INTEREST", true, 2.5},
		{"null snake score falls through", `{"signal_score":null,"signalScore":58,"label":"HOT","steam":1}`, 58, "HOT", true, 0},
	}

	auto := AutoAdapter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := auto.Adapt(decode(t, tt.row))
			require.NotNil(t, raw.SignalScore)
			assert.Equal(t, tt.score, *raw.SignalScore)
			assert.Equal(t, tt.label, raw.SignalLabel)
			assert.Equal(t, tt.steam, raw.SteamDetected)
			if tt.edge != 0 {
				require.NotNil(t, raw.Edge)
				assert.Equal(t, tt.edge, *raw.Edge)
			}
		})
	}
}

func TestFixedAdaptersIgnoreOtherShapes(t *testing.T) {
	raw := LegacyAdapter().Adapt(decode(t, `{"signal":80,"steam_detected":true}`))
	require.NotNil(t, raw.SignalScore)
	assert.Equal(t, 80.0, *raw.SignalScore)
	assert.False(t, raw.SteamDetected)

	raw = SnakeCaseAdapter().Adapt(decode(t, `{"signal":80}`))
	assert.Nil(t, raw.SignalScore)
}

func TestAutoAdapterWithoutSignal(t *testing.T) {
	raw := AutoAdapter().Adapt(decode(t, `{"matchup":"A @ B"}`))
	assert.Nil(t, raw.SignalScore)
	require.NotNil(t, raw.Matchup)
	assert.Equal(t, "A @ B", *raw.Matchup)
	assert.Nil(t, raw.Book)
}

func TestAdapterFor(t *testing.T) {
	for _, format := range []string{"", FormatAuto, FormatSnake, FormatCamel, FormatLegacy} {
		a, err := AdapterFor(format)
		require.NoError(t, err, format)
		assert.NotNil(t, a)
	}

	_, err := AdapterFor("xml")
	assert.Error(t, err)
}
