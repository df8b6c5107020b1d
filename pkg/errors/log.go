package errors

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// LogHandler is an ErrorHandler that logs errors to stderr, or to Out when set.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Out overrides the destination. Nil means os.Stderr.
	Out io.Writer

	mu sync.Mutex
}

func (h *LogHandler) writer() io.Writer {
	if h.Out != nil {
		return h.Out
	}
	return os.Stderr
}

// HandleError logs a TweenError.
func (h *LogHandler) HandleError(err *TweenError) {
	if err == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	w := h.writer()
	if h.Verbose {
		fmt.Fprintf(w, "[tween error] %s [%s]", err.Op, err.Kind)
		if err.Slot != "" {
			fmt.Fprintf(w, " slot=%s", err.Slot)
		}
		if err.Tag != nil {
			fmt.Fprintf(w, " tag=%v", err.Tag)
		}
		fmt.Fprintf(w, ": %v\n", err.Err)
		if err.StackTrace != "" {
			fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
		}
	} else {
		fmt.Fprintf(w, "[tween error] %s: %v\n", err.Op, err.Err)
	}
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	w := h.writer()
	if err.Op != "" {
		fmt.Fprintf(w, "[tween panic] %s: %v\n", err.Op, err.Value)
	} else {
		fmt.Fprintf(w, "[tween panic] %v\n", err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(w, "Stack trace:\n%s\n", err.StackTrace)
	}
}
