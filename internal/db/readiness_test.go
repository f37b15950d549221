package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// flakyDialer falla las primeras failures llamadas y luego acepta.
type flakyDialer struct {
	failures int
	calls    int
}

func (d *flakyDialer) Dial(_ context.Context) error {
	d.calls++
	if d.calls <= d.failures {
		return errors.New("connection refused")
	}
	return nil
}

func TestWaitReady_SucceedsOnThirdAttempt(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	dialer := &flakyDialer{failures: 2}
	p := NewProber(zap.New(core), dialer.Dial)

	err := p.WaitReady(context.Background(), 10, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, dialer.calls, "no further attempts after the first success")

	warns := logs.FilterMessage("storage not ready").All()
	require.Len(t, warns, 2)
	assert.EqualValues(t, 1, warns[0].ContextMap()["attempt"])
	assert.EqualValues(t, 2, warns[1].ContextMap()["attempt"])
	assert.Contains(t, warns[0].ContextMap()["error"], "connection refused")
}

func TestWaitReady_SucceedsImmediately(t *testing.T) {
	dialer := &flakyDialer{}
	p := NewProber(zap.NewNop(), dialer.Dial)

	require.NoError(t, p.WaitReady(context.Background(), 10, time.Hour))
	assert.Equal(t, 1, dialer.calls)
}

func TestWaitReady_ExhaustsAttempts(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	dialer := &flakyDialer{failures: 100}
	p := NewProber(zap.New(core), dialer.Dial)

	err := p.WaitReady(context.Background(), 4, time.Millisecond)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 4, dialer.calls)
	assert.Len(t, logs.FilterMessage("storage not ready").All(), 4)
	assert.Len(t, logs.FilterMessage("storage unreachable").All(), 1)
}

func TestWaitReady_NonPositiveAttemptsStillTriesOnce(t *testing.T) {
	dialer := &flakyDialer{failures: 1}
	p := NewProber(zap.NewNop(), dialer.Dial)

	err := p.WaitReady(context.Background(), 0, 0)

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Equal(t, 1, dialer.calls)
}

func TestWaitReady_ContextCanceled(t *testing.T) {
	dialer := &flakyDialer{failures: 100}
	p := NewProber(zap.NewNop(), dialer.Dial)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.WaitReady(ctx, 10, time.Hour)

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Less(t, dialer.calls, 10)
}
