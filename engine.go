package cmdline

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/mfridman/cmdline/pkg/ctxlog"
)

// Engine wraps the whole of [Command.Execute] with process-wide setup and teardown. Run must
// call fn exactly once and return its error, or an error of its own.
type Engine interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// EngineFunc adapts a function to the [Engine] interface.
type EngineFunc func(ctx context.Context, fn func(ctx context.Context) error) error

func (f EngineFunc) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return f(ctx, fn)
}

// PanicError is returned by [DefaultEngine] when the executed command panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// DefaultEngine cancels the context passed to fn when the process receives an interrupt, and
// turns a panic in fn into a [*PanicError]. It logs both with the logger found in the context.
type DefaultEngine struct {
	// Signals that cancel the context. Defaults to os.Interrupt, SIGHUP and SIGTERM.
	Signals []os.Signal
}

func (e *DefaultEngine) Run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	logger := ctxlog.FromContext(ctx)
	signals := e.Signals
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt, syscall.SIGHUP, syscall.SIGTERM}
	}

	ctx, cancel := context.WithCancel(ctx)
	received := make(chan os.Signal, 1)
	signal.Notify(received, signals...)
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case sig := <-received:
			logger.Warn("interrupted, cancelling command", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()
	defer func() {
		signal.Stop(received)
		cancel()
		<-done
	}()

	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			logger.Error("command panicked", "panic", r)
			err = &PanicError{Value: r, Stack: stack}
		}
	}()
	return fn(ctx)
}
