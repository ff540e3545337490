package scheduler

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBusy = errors.New("busy")

func testLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetLevel(logrus.InfoLevel)
	return log, buf
}

func TestScheduleEveryClampsInterval(t *testing.T) {
	log, _ := testLogger()
	s := NewScheduler(log)

	require.NoError(t, s.ScheduleEvery("refresh", time.Second, func(context.Context) error { return nil }))
	require.NoError(t, s.Start())
	defer s.Stop()

	next := s.GetNextRun()
	assert.False(t, next.IsZero())
	assert.WithinDuration(t, time.Now().Add(MinInterval), next, 2*time.Second)
}

func TestStartRequiresJobs(t *testing.T) {
	log, _ := testLogger()
	s := NewScheduler(log)

	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
	assert.True(t, s.GetNextRun().IsZero())
}

func TestScheduleWhileRunning(t *testing.T) {
	log, _ := testLogger()
	s := NewScheduler(log)
	require.NoError(t, s.ScheduleEvery("refresh", 15*time.Second, func(context.Context) error { return nil }))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.Error(t, s.ScheduleEvery("other", 15*time.Second, func(context.Context) error { return nil }))

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.NoError(t, s.Stop())
}

func TestJobDeadline(t *testing.T) {
	log, _ := testLogger()
	s := NewScheduler(log)

	var deadline time.Time
	var ok bool
	start := time.Now()
	s.job("refresh", 15*time.Second, func(ctx context.Context) error {
		deadline, ok = ctx.Deadline()
		return nil
	})()

	require.True(t, ok)
	assert.WithinDuration(t, start.Add(14*time.Second), deadline, time.Second)
}

func TestJobErrorsLogged(t *testing.T) {
	log, buf := testLogger()
	s := NewScheduler(log, errBusy)

	s.job("refresh", 15*time.Second, func(context.Context) error {
		return errors.New("board fetch failed")
	})()
	assert.Contains(t, buf.String(), "Scheduled job failed")
	assert.Contains(t, buf.String(), "board fetch failed")

	buf.Reset()
	s.job("refresh", 15*time.Second, func(context.Context) error {
		return errBusy
	})()
	assert.Empty(t, buf.String())
}
