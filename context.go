package swiftdriver

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// InterruptibleContext returns a context which is canceled when the program
// is interrupted (i.e. receiving SIGINT or SIGTERM). Planning itself never
// needs this (it is synchronous and cannot be cancelled mid-resolution),
// but the reference executor in internal/jobexec uses it to stop running
// jobs cleanly.
func InterruptibleContext() (context.Context, context.CancelFunc) {
	ctx, canc := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		// Subsequent signals result in immediate termination, useful in
		// case a running job hangs.
		signal.Stop(sig)
		canc()
	}()
	return ctx, canc
}
