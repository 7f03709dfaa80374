package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// withShutdownSignals returns a context that is cancelled on SIGTERM or
// SIGINT. onSignal, if set, runs before the cancel. The returned stop
// function releases the signal handler.
func withShutdownSignals(parent context.Context, onSignal func(os.Signal)) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		select {
		case sig := <-sigChan:
			if onSignal != nil {
				onSignal(sig)
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
