package normalizer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yourusername/sharpboard/internal/models"
)

// Row formats accepted in configuration.
const (
	FormatAuto   = "auto"
	FormatSnake  = "snake"
	FormatCamel  = "camel"
	FormatLegacy = "legacy"
)

// Adapter converts one upstream row shape into the canonical RawMarketRow.
type Adapter interface {
	Adapt(fields map[string]any) models.RawMarketRow
	Name() string
}

// fieldNames lists the upstream keys for each signal-related field. When a
// field has several keys the first non-null one wins.
type fieldNames struct {
	name        string
	signalScore []string
	signalLabel []string
	steam       []string
	edge        []string
}

type keyedAdapter struct {
	keys fieldNames
}

// SnakeCaseAdapter reads signal_score / signal_label / steam_detected rows.
func SnakeCaseAdapter() Adapter {
	return keyedAdapter{keys: fieldNames{
		name:        FormatSnake,
		signalScore: []string{"signal_score"},
		signalLabel: []string{"signal_label"},
		steam:       []string{"steam_detected"},
		edge:        []string{"edge"},
	}}
}

// CamelCaseAdapter reads signalScore / signalLabel / steamDetected rows.
func CamelCaseAdapter() Adapter {
	return keyedAdapter{keys: fieldNames{
		name:        FormatCamel,
		signalScore: []string{"signalScore"},
		signalLabel: []string{"signalLabel"},
		steam:       []string{"steamDetected"},
		edge:        []string{"edge", "edgePercent"},
	}}
}

// LegacyAdapter reads the early board shape with bare signal / label / steam keys.
func LegacyAdapter() Adapter {
	return keyedAdapter{keys: fieldNames{
		name:        FormatLegacy,
		signalScore: []string{"signal"},
		signalLabel: []string{"label"},
		steam:       []string{"steam"},
		edge:        []string{"edge"},
	}}
}

// AutoAdapter resolves every field on its own through the snake, camel and
// legacy keys in that order, so one row may mix shapes.
func AutoAdapter() Adapter {
	return keyedAdapter{keys: fieldNames{
		name:        FormatAuto,
		signalScore: []string{"signal_score", "signalScore", "signal"},
		signalLabel: []string{"signal_label", "signalLabel", "label"},
		steam:       []string{"steam_detected", "steamDetected", "steam"},
		edge:        []string{"edge", "edgePercent"},
	}}
}

func (a keyedAdapter) Name() string { return a.keys.name }

func (a keyedAdapter) Adapt(fields map[string]any) models.RawMarketRow {
	return models.RawMarketRow{
		Sport:         textField(fields["sport"]),
		Start:         textField(fields["start"]),
		Matchup:       textField(fields["matchup"]),
		Market:        textField(fields["market"]),
		Line:          textField(fields["line"]),
		Book:          textField(fields["book"]),
		Odds:          numberField(fields["odds"]),
		Edge:          numberField(first(fields, a.keys.edge)),
		SignalScore:   numberField(first(fields, a.keys.signalScore)),
		SignalLabel:   labelField(first(fields, a.keys.signalLabel)),
		SteamDetected: truthy(first(fields, a.keys.steam)),
	}
}

// first returns the value of the first key that is present and not null.
func first(fields map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := fields[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// AdapterFor returns the adapter registered for a configured row format.
func AdapterFor(format string) (Adapter, error) {
	switch format {
	case "", FormatAuto:
		return AutoAdapter(), nil
	case FormatSnake:
		return SnakeCaseAdapter(), nil
	case FormatCamel:
		return CamelCaseAdapter(), nil
	case FormatLegacy:
		return LegacyAdapter(), nil
	default:
		return nil, fmt.Errorf("unknown row format: %s", format)
	}
}

// textField returns nil for a missing or null value. Present values are kept
// as text, including the empty string.
func textField(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = t
	case json.Number:
		s = t.String()
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		s = fmt.Sprint(t)
	}
	return &s
}

func labelField(v any) string {
	if s := textField(v); s != nil {
		return strings.TrimSpace(*s)
	}
	return ""
}

func numberField(v any) *float64 {
	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case float64:
		f = t
	case json.Number:
		f, err = t.Float64()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		f, err = strconv.ParseFloat(s, 64)
	case bool:
		if t {
			f = 1
		}
	default:
		return nil
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}
