package errorbot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"
)

const (
	exitPanic     = 2
	exitInterrupt = 130

	unhandledPrefix = "Unhandled exception: "
)

// ErrInterrupt marks a panic caused by an interrupt request. Hosts that turn
// SIGINT into a panic should panic with os.Interrupt or an error wrapping ErrInterrupt.
var ErrInterrupt = errors.New("interrupted")

// Handler receives panics that escaped every other recover.
type Handler interface {
	HandleException(value any, stack []byte)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(value any, stack []byte)

// HandleException calls f(value, stack).
func (f HandlerFunc) HandleException(value any, stack []byte) {
	f(value, stack)
}

// DefaultHandler prints the panic and its stack to stderr the way the Go runtime does.
//
//nolint:gochecknoglobals // process-wide default, mirrors the runtime's own behavior
var DefaultHandler Handler = HandlerFunc(func(value any, stack []byte) {
	fmt.Fprintf(os.Stderr, "panic: %v\n\n%s", value, stack)
})

type installed struct {
	h Handler
}

//nolint:gochecknoglobals // the hook is process-wide by definition
var (
	hook atomic.Value // stores installed
	exit = os.Exit
)

// Install makes h the process-wide handler used by Recover. The last call wins.
// A nil h restores DefaultHandler.
func Install(h Handler) {
	hook.Store(installed{h: h})
}

// Installed returns the current process-wide handler.
func Installed() Handler {
	if v, ok := hook.Load().(installed); ok && v.h != nil {
		return v.h
	}
	return DefaultHandler
}

// Recover must be deferred directly: `defer errorbot.Recover()`.
// It recovers a panic, hands it with its stack to the installed handler
// and then terminates the process like an unhandled panic would, with
// status 2, or 130 for interrupts. Without a panic it does nothing.
func Recover() {
	value := recover()
	if value == nil {
		return
	}
	dispatch(value, debug.Stack())
}

// Go runs fn in a new goroutine guarded by Recover.
func Go(fn func()) {
	go func() {
		defer Recover()
		fn()
	}()
}

func dispatch(value any, stack []byte) {
	Installed().HandleException(value, stack)
	if isInterrupt(value) {
		exit(exitInterrupt)
		return
	}
	exit(exitPanic)
}

// HandleException reports value as an unhandled exception. Interrupts are
// not reported; they go to the fallback handler unchanged.
func (r *Reporter) HandleException(value any, stack []byte) {
	if isInterrupt(value) {
		r.fallback.HandleException(value, stack)
		return
	}

	r.log.With("stack_trace", string(stack)).Debug("unhandled panic")
	r.ReportError(context.Background(), unhandledPrefix+fmt.Sprint(value))
}

func isInterrupt(value any) bool {
	switch v := value.(type) {
	case os.Signal:
		return v == os.Interrupt
	case error:
		return errors.Is(v, ErrInterrupt)
	default:
		return false
	}
}
