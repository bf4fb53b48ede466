package goroutine

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() (*RecoveryHandler, *bytes.Buffer) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	return NewRecoveryHandler(logrus.NewEntry(l)), &buf
}

func TestSafeGo_RecoversAndCallsOnPanic(t *testing.T) {
	rh, buf := newTestHandler()
	done := make(chan struct{})

	rh.SafeGo("worker", func() { panic("boom") }, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("onPanic was not called")
	}
	assert.Contains(t, buf.String(), `"goroutine":"worker"`)
	assert.Contains(t, buf.String(), "panic: boom")
}

func TestSafeGo_NoPanic(t *testing.T) {
	rh, buf := newTestHandler()
	done := make(chan struct{})

	rh.SafeGo("worker", func() { close(done) }, func() { t.Error("onPanic must not run") })

	<-done
	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, buf.String())
}

func TestSafeGoWithContext_PassesContext(t *testing.T) {
	rh, _ := newTestHandler()
	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan error, 1)

	rh.SafeGoWithContext(ctx, "waiter", func(ctx context.Context) {
		<-ctx.Done()
		got <- ctx.Err()
	})
	cancel()

	select {
	case err := <-got:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("goroutine did not observe cancellation")
	}
}
