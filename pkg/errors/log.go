package errors

import (
	"fmt"
	"os"
)

// LogHandler is an ErrorHandler that logs errors to stderr.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

// HandleError logs an EnhanceError to stderr.
func (h *LogHandler) HandleError(err *EnhanceError) {
	if err == nil {
		return
	}
	h.write("enhance error", err)
}

// HandleWarning logs a non-fatal EnhanceError to stderr.
func (h *LogHandler) HandleWarning(err *EnhanceError) {
	if err == nil {
		return
	}
	h.write("enhance warn", err)
}

func (h *LogHandler) write(prefix string, err *EnhanceError) {
	if h.Verbose {
		fmt.Fprintf(os.Stderr, "[%s] %s [%s]", prefix, err.Op, err.Kind)
		if err.WidgetKind != "" {
			fmt.Fprintf(os.Stderr, " widget=%s", err.WidgetKind)
		}
		fmt.Fprintf(os.Stderr, ": %v\n", err.Err)
		if err.StackTrace != "" {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
		}
	} else {
		fmt.Fprintf(os.Stderr, "[%s] %s: %v\n", prefix, err.Op, err.Err)
	}
}

// HandlePanic logs a PanicError to stderr.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Op != "" {
		fmt.Fprintf(os.Stderr, "[enhance panic] %s: %v\n", err.Op, err.Value)
	} else {
		fmt.Fprintf(os.Stderr, "[enhance panic] %v\n", err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
	}
}
