// Package export writes the board as CSV.
package export

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/sharpboard/internal/models"
)

// ErrEmptyBoard is returned when there are no rows to export
var ErrEmptyBoard = errors.New("nothing to export: board is empty")

// Columns is the CSV header, in order.
var Columns = []string{
	"sport", "start", "matchup", "market", "line", "odds", "book",
	"edge", "signal_score", "signal_label", "steam",
}

// Write writes the header and one line per row. Fields containing a comma
// are quoted with embedded quotes doubled; all other fields are written as-is.
func Write(w io.Writer, rows []models.MarketRow) error {
	if len(rows) == 0 {
		return ErrEmptyBoard
	}

	bw := bufio.NewWriter(w)
	if err := writeLine(bw, Columns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writeLine(bw, record(r)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// FileName returns the export file name for t.
func FileName(t time.Time) string {
	return "board_" + t.UTC().Format("2006-01-02T15-04-05") + ".csv"
}

func record(r models.MarketRow) []string {
	odds := ""
	if r.Odds != nil {
		odds = strconv.Itoa(*r.Odds)
	}
	edge := ""
	if r.EdgePercent != nil {
		edge = strconv.FormatFloat(*r.EdgePercent, 'f', -1, 64)
	}
	return []string{
		r.Sport, r.Start, r.Matchup, r.Market, r.Line, odds, r.Book,
		edge, strconv.Itoa(r.SignalScore), r.SignalLabel, strconv.FormatBool(r.HasSteam()),
	}
}

func writeLine(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if strings.Contains(f, ",") {
			f = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		if _, err := w.WriteString(f); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}
