package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharpboard/internal/dashboard"
	applog "github.com/yourusername/sharpboard/internal/logger"
)

// fakeSchedule ends the draw loop once the loop has asked about the next run.
type fakeSchedule struct {
	running bool
	next    time.Time
	cancel  context.CancelFunc
}

func (f *fakeSchedule) IsRunning() bool {
	if !f.running {
		f.cancel()
	}
	return f.running
}

func (f *fakeSchedule) GetNextRun() time.Time {
	f.cancel()
	return f.next
}

func TestDrawLoopShowsNextRefresh(t *testing.T) {
	prev := watchOpts
	defer func() { watchOpts = prev }()
	watchOpts = boardFlags{output: outputTable}

	next := time.Date(2026, 3, 14, 19, 5, 30, 0, time.Local)
	tests := []struct {
		name    string
		running bool
		want    bool
	}{
		{"running", true, true},
		{"stopped", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := dashboard.NewSession(dashboard.Options{Logger: applog.Discard()})
			session.LoadDemo()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			updates := make(chan struct{}, 1)
			updates <- struct{}{}

			var buf bytes.Buffer
			sched := &fakeSchedule{running: tt.running, next: next, cancel: cancel}
			require.NoError(t, drawLoop(ctx, &buf, session, updates, sched))

			assert.Contains(t, buf.String(), "KANSAS @ BAYLOR")
			if tt.want {
				assert.Contains(t, buf.String(), "next refresh 19:05:30")
			} else {
				assert.NotContains(t, buf.String(), "next refresh")
			}
		})
	}
}
