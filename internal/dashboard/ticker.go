package dashboard

import (
	"fmt"
	"strings"
)

// tickerText is the live status line. Callers hold s.mu.
func (s *Session) tickerText() string {
	mode := strings.ToUpper(string(s.slip.Mode()))
	text := fmt.Sprintf("LIVE • %d markets • %s math online • Signal + steam armed", len(s.filtered), mode)
	if moves := s.tracker.RecentMoves(); len(moves) > 0 {
		text += " • MOVES: " + strings.Join(moves, " • ")
	}
	return text
}
