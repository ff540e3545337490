package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yourusername/sharpboard/internal/filter"
)

// boardFlags are the filter and output flags shared by board views.
type boardFlags struct {
	sport     string
	query     string
	minEdge   float64
	minSignal int
	steamOnly bool
	sort      string
	output    string
	top       int
}

func (f *boardFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.sport, "sport", filter.AllSports, "Only show this sport")
	fs.StringVarP(&f.query, "query", "q", "", "Case-insensitive search across matchup, market, line, book and sport")
	fs.Float64Var(&f.minEdge, "min-edge", 0, "Minimum edge percent")
	fs.IntVar(&f.minSignal, "min-signal", 0, "Minimum signal score")
	fs.BoolVar(&f.steamOnly, "steam-only", false, "Only show rows with steam")
	fs.StringVar(&f.sort, "sort", string(filter.SortSignalDesc), "Sort mode: signal_desc, edge_desc, start_asc, sport_asc, none")
	fs.StringVarP(&f.output, "output", "o", outputTable, "Output format: table, json, yaml")
	fs.IntVar(&f.top, "top", 0, "Show at most this many rows (0 for all)")
}

// apply overlays the flags the user set on the configured criteria.
func (f *boardFlags) apply(fs *pflag.FlagSet, c filter.Criteria) (filter.Criteria, error) {
	if fs.Changed("sport") {
		c.Sport = f.sport
	}
	if fs.Changed("query") {
		c.Query = f.query
	}
	if fs.Changed("min-edge") {
		c.MinEdge = f.minEdge
	}
	if fs.Changed("min-signal") {
		c.MinSignal = f.minSignal
	}
	if fs.Changed("steam-only") {
		c.SteamOnly = f.steamOnly
	}
	if fs.Changed("sort") {
		mode, err := filter.ParseSortMode(f.sort)
		if err != nil {
			return c, err
		}
		c.Sort = mode
	}
	return c, nil
}
