package cmd

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestWithShutdownSignals_NotCancelledWithoutSignal(t *testing.T) {
	ctx, stop := withShutdownSignals(context.Background(), nil)
	defer stop()

	select {
	case <-ctx.Done():
		t.Error("Context should not be cancelled without signal")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestWithShutdownSignals_StopCancels(t *testing.T) {
	ctx, stop := withShutdownSignals(context.Background(), nil)
	stop()

	select {
	case <-ctx.Done():
	case <-time.After(100 * time.Millisecond):
		t.Error("stop should cancel the context")
	}
}

func TestWithShutdownSignals_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := withShutdownSignals(parent, nil)
	defer stop()

	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(100 * time.Millisecond):
		t.Error("Context should follow its parent")
	}
}

func TestWithShutdownSignals_Signal(t *testing.T) {
	if os.Getenv("CI") == "true" {
		t.Skip("Skipping signal test in CI environment")
	}

	received := make(chan os.Signal, 1)
	ctx, stop := withShutdownSignals(context.Background(), func(sig os.Signal) {
		received <- sig
	})
	defer stop()

	time.Sleep(10 * time.Millisecond)
	syscall.Kill(syscall.Getpid(), syscall.SIGINT)

	select {
	case <-ctx.Done():
		if sig := <-received; sig != syscall.SIGINT {
			t.Errorf("Expected signal SIGINT, got %v", sig)
		}
	case <-time.After(time.Second):
		t.Error("Context was not cancelled after receiving signal")
	}
}
