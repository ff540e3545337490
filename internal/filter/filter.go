// Package filter narrows and orders a board for display.
package filter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/sharpboard/internal/models"
)

// AllSports disables the sport filter.
const AllSports = "ALL"

// SortMode selects the board ordering
type SortMode string

const (
	SortSignalDesc SortMode = "signal_desc"
	SortEdgeDesc   SortMode = "edge_desc"
	SortStartAsc   SortMode = "start_asc"
	SortSportAsc   SortMode = "sport_asc"
	SortNone       SortMode = "none"
)

// ErrUnknownSortMode is returned by ParseSortMode.
var ErrUnknownSortMode = errors.New("unknown sort mode")

// SortModes lists every accepted sort mode.
func SortModes() []SortMode {
	return []SortMode{SortSignalDesc, SortEdgeDesc, SortStartAsc, SortSportAsc, SortNone}
}

// ParseSortMode validates a sort mode name.
func ParseSortMode(s string) (SortMode, error) {
	for _, m := range SortModes() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortMode, s)
}

// Criteria is the user's current board filter
type Criteria struct {
	Sport     string   `mapstructure:"sport" json:"sport"`
	Query     string   `mapstructure:"query" json:"query"`
	MinEdge   float64  `mapstructure:"min_edge" json:"min_edge"`
	MinSignal int      `mapstructure:"min_signal" json:"min_signal"`
	SteamOnly bool     `mapstructure:"steam_only" json:"steam_only"`
	Sort      SortMode `mapstructure:"sort" json:"sort"`
}

// DefaultCriteria shows every row ordered by signal.
func DefaultCriteria() Criteria {
	return Criteria{Sport: AllSports, Sort: SortSignalDesc}
}

// Apply returns the rows matching c in c's order. rows is never modified.
func Apply(rows []models.MarketRow, c Criteria) []models.MarketRow {
	sport := strings.ToUpper(strings.TrimSpace(c.Sport))
	query := strings.ToLower(strings.TrimSpace(c.Query))

	out := make([]models.MarketRow, 0, len(rows))
	for _, r := range rows {
		if sport != "" && sport != AllSports && strings.ToUpper(r.Sport) != sport {
			continue
		}
		if query != "" && !strings.Contains(haystack(r), query) {
			continue
		}
		if r.Edge() < c.MinEdge {
			continue
		}
		if r.SignalScore < c.MinSignal {
			continue
		}
		if c.SteamOnly && !r.HasSteam() {
			continue
		}
		out = append(out, r.Clone())
	}

	Sort(out, c.Sort)
	return out
}

// Sort orders rows in place. Equal keys keep their relative order.
func Sort(rows []models.MarketRow, mode SortMode) {
	var less func(a, b models.MarketRow) bool
	switch mode {
	case SortSignalDesc:
		less = func(a, b models.MarketRow) bool { return a.SignalScore > b.SignalScore }
	case SortEdgeDesc:
		less = func(a, b models.MarketRow) bool { return a.Edge() > b.Edge() }
	case SortStartAsc:
		less = func(a, b models.MarketRow) bool { return a.Start < b.Start }
	case SortSportAsc:
		less = func(a, b models.MarketRow) bool { return a.Sport < b.Sport }
	default:
		return
	}
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}

// Sports returns the distinct upper-cased sports on the board, sorted.
func Sports(rows []models.MarketRow) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range rows {
		s := strings.ToUpper(r.Sport)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func haystack(r models.MarketRow) string {
	return strings.ToLower(strings.Join([]string{r.Matchup, r.Book, r.Line, r.Market, r.Sport}, " "))
}
