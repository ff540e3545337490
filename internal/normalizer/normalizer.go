// Package normalizer turns upstream board rows into canonical MarketRows with
// derived probability fields.
package normalizer

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharpboard/internal/models"
	"github.com/yourusername/sharpboard/internal/odds"
	"github.com/yourusername/sharpboard/internal/signal"
)

// Normalizer normalizes board rows from any upstream shape
type Normalizer struct {
	adapter Adapter
	tiers   signal.TierTable
	logger  *logrus.Logger
}

// NewNormalizer creates a normalizer. A nil adapter means auto-detection and
// an empty tier table means the classic tiers.
func NewNormalizer(adapter Adapter, tiers signal.TierTable, logger *logrus.Logger) *Normalizer {
	if adapter == nil {
		adapter = AutoAdapter()
	}
	if len(tiers) == 0 {
		tiers = signal.ClassicTiers()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Normalizer{adapter: adapter, tiers: tiers, logger: logger}
}

// NormalizePayload decodes and normalizes every element of a board payload.
// Elements that are not JSON objects are skipped; the count is returned.
func (n *Normalizer) NormalizePayload(rows []json.RawMessage) ([]models.MarketRow, int) {
	out := make([]models.MarketRow, 0, len(rows))
	skipped := 0

	for i, raw := range rows {
		fields, err := decodeObject(raw)
		if err != nil {
			skipped++
			n.logger.WithFields(logrus.Fields{
				"index":   i,
				"adapter": n.adapter.Name(),
			}).WithError(err).Debug("Skipping board row")
			continue
		}
		out = append(out, n.Normalize(n.adapter.Adapt(fields)))
	}

	if skipped > 0 {
		n.logger.WithFields(logrus.Fields{
			"rows":    len(rows),
			"skipped": skipped,
		}).Warn("Board payload contained rows that are not objects")
	}

	return out, skipped
}

// Normalize converts a canonical raw row into a MarketRow
func (n *Normalizer) Normalize(raw models.RawMarketRow) models.MarketRow {
	row := models.MarketRow{
		Sport:         orPlaceholder(raw.Sport),
		Start:         orPlaceholder(raw.Start),
		Matchup:       orPlaceholder(raw.Matchup),
		Market:        orPlaceholder(raw.Market),
		Line:          orPlaceholder(raw.Line),
		Book:          orPlaceholder(raw.Book),
		EdgePercent:   raw.Edge,
		SteamDetected: raw.SteamDetected,
	}

	if raw.Odds != nil {
		o := int(math.Round(*raw.Odds))
		row.Odds = &o
	}
	if raw.SignalScore != nil {
		row.SignalScore = int(*raw.SignalScore)
	}

	row.SignalLabel = raw.SignalLabel
	if row.SignalLabel == "" {
		row.SignalLabel = n.tiers.Label(row.SignalScore)
	}

	return Derive(row)
}

// Derive recomputes the probability fields from the row's current odds and edge.
func Derive(row models.MarketRow) models.MarketRow {
	row.DecimalOdds = odds.DecimalOdds(row.Odds)
	row.ImpliedProbability = odds.ImpliedProbability(row.Odds)
	row.ModelProbability = odds.ModelProbability(row.ImpliedProbability, row.EdgePercent)
	return row
}

func orPlaceholder(s *string) string {
	if s == nil {
		return models.Placeholder
	}
	return *s
}

func decodeObject(raw json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, models.ErrInvalidRow
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}
