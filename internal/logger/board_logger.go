package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// BoardLogger provides dedicated logging for board refresh cycles.
type BoardLogger struct {
	*logrus.Entry
}

// NewBoardLogger creates a new board logger.
func NewBoardLogger(baseLogger *logrus.Logger) *BoardLogger {
	return &BoardLogger{
		Entry: baseLogger.WithField("component", "board"),
	}
}

// LogRefresh logs a completed refresh cycle.
func (bl *BoardLogger) LogRefresh(source string, rows, shown, skipped, moves, steam int, duration time.Duration) {
	bl.WithFields(logrus.Fields{
		"source":      source,
		"rows":        rows,
		"shown":       shown,
		"skipped":     skipped,
		"moves":       moves,
		"steam":       steam,
		"duration_ms": duration.Milliseconds(),
	}).Info("Board refreshed")
}

// LogBackendDown logs a refresh that fell back to the empty board.
func (bl *BoardLogger) LogBackendDown(stage string, err error) {
	bl.WithFields(logrus.Fields{
		"stage": stage,
	}).WithError(err).Warn("Backend unavailable, showing empty board")
}

// LogSteam logs a market that started steaming on this refresh. The caller
// only reports transitions, not every steaming row.
func (bl *BoardLogger) LogSteam(key, matchup, book string, odds int) {
	bl.WithFields(logrus.Fields{
		"key":     key,
		"matchup": matchup,
		"book":    book,
		"odds":    odds,
	}).Info("Steam detected")
}

// LogRefreshSkipped logs a refresh dropped because another was running.
func (bl *BoardLogger) LogRefreshSkipped() {
	bl.Debug("Refresh already in flight, skipping")
}
