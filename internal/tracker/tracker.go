package tracker

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharpboard/internal/models"
)

// Tracker owns a State and serializes every pass over it
type Tracker struct {
	cfg    Config
	state  *State
	mu     sync.Mutex
	logger *logrus.Logger
}

// NewTracker creates a tracker with empty state
func NewTracker(cfg Config, logger *logrus.Logger) *Tracker {
	if logger == nil {
		logger = logrus.New()
	}
	return &Tracker{
		cfg:    cfg.withDefaults(),
		state:  NewState(),
		logger: logger,
	}
}

// Update runs one tracking pass
func (t *Tracker) Update(rows []models.MarketRow) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	res := Apply(t.state, rows, t.cfg)

	for _, m := range res.Moves {
		t.logger.WithFields(logrus.Fields{
			"key":       m.Key,
			"from":      m.From,
			"to":        m.To,
			"direction": m.Direction.String(),
		}).Debug("Line moved")
	}
	if len(res.Moves) > 0 {
		t.logger.WithFields(logrus.Fields{
			"rows":  len(rows),
			"moves": len(res.Moves),
			"steam": res.Steam,
		}).Info("Tracked board movement")
	}

	return res
}

// RecentMoves returns the ticker log, newest first.
func (t *Tracker) RecentMoves() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.state.RecentMoves...)
}
