package dbx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	errs  []error
	calls int
}

func (f *fakePinger) PingContext(context.Context) error {
	f.calls++
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

func TestPingWithRetry_SucceedsAfterFailures(t *testing.T) {
	p := &fakePinger{errs: []error{errors.New("connection refused"), errors.New("connection refused")}}

	err := PingWithRetry(context.Background(), p, 3, time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, 3, p.calls)
}

func TestPingWithRetry_GivesUp(t *testing.T) {
	p := &fakePinger{errs: []error{errors.New("down"), errors.New("still down"), errors.New("never reached")}}

	err := PingWithRetry(context.Background(), p, 2, time.Millisecond)
	require.Error(t, err)
	require.Contains(t, err.Error(), "still down")
	require.Equal(t, 2, p.calls)
}

func TestPingWithRetry_ZeroAttemptsPingsOnce(t *testing.T) {
	p := &fakePinger{errs: []error{errors.New("down")}}

	err := PingWithRetry(context.Background(), p, 0, time.Millisecond)
	require.Error(t, err)
	require.Equal(t, 1, p.calls)
}

func TestPingWithRetry_ContextCancelled(t *testing.T) {
	p := &fakePinger{errs: []error{errors.New("down"), errors.New("down")}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := PingWithRetry(ctx, p, 5, time.Hour)
	require.Error(t, err)
	require.LessOrEqual(t, p.calls, 1)
}
