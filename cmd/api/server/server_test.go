package server

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"early-access-api/cmd/api/di"
	"early-access-api/internal/config"
)

func TestWithSignal_CancelsOnSIGTERM(t *testing.T) {
	got := make(chan os.Signal, 1)
	ctx, stop := WithSignal(context.Background(), func(sig os.Signal) { got <- sig })
	defer stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not canceled")
	}
	assert.Equal(t, syscall.SIGTERM, <-got)
}

func TestWithSignal_StopCancels(t *testing.T) {
	ctx, stop := WithSignal(context.Background(), nil)
	stop()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestServer_StartAndShutdown(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.App.HTTPPort = "0"
	cfg.App.GRPCEnabled = true
	cfg.App.GRPCPort = "0"

	l := zaptest.NewLogger(t)
	c, err := di.NewContainer(cfg, l, time.Now())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	s := New(cfg, l, c)
	require.NotNil(t, s.GRPC)

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	// Let both listeners come up before stopping them.
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Gin.Shutdown(ctx))
	s.GRPC.GracefulStop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after shutdown")
	}
}
