package vm

import (
	"fmt"
	"strings"
)

// frameTrace captures one call frame's position at the moment a runtime
// error was raised, formatted into clox's "[line N] in <fn-name|script>"
// trace lines.
type frameTrace struct {
	FunctionName string // "script" for the top-level frame
	Line         int
}

// RuntimeError is the error a VM.run call returns when the script raises a
// runtime fault (type error, undefined variable, wrong arity, stack
// overflow...). Its Error() rendering is the message followed by one
// "[line N] in <fn-name|script>" line per call frame, innermost first.
type RuntimeError struct {
	Message string
	Frames  []frameTrace
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, f := range e.Frames {
		b.WriteByte('\n')
		fmt.Fprintf(&b, "[line %d] in %s", f.Line, f.FunctionName)
	}
	return b.String()
}

func newRuntimeError(message string, frames []frameTrace) *RuntimeError {
	return &RuntimeError{Message: message, Frames: frames}
}
