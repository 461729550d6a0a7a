// Package engine is clox's single entry point: compile a source string and
// run it, writing output to the caller's own sinks. Every other package in
// this module — the CLI, the REPL, tests — goes through Run rather than
// wiring pkg/compiler and pkg/vm together themselves, so the boundary of
// what the language can touch (a UTF-8 source string, stdout, stderr,
// stdin — nothing else) lives in exactly one place.
package engine

import (
	"io"

	"github.com/kristofer/clox/pkg/compiler"
	"github.com/kristofer/clox/pkg/object"
	"github.com/kristofer/clox/pkg/vm"
)

// Result classifies how Run finished: clean, a compile-time error, or a
// runtime error.
type Result int

const (
	ResultOK Result = iota
	ResultCompileError
	ResultRuntimeError
)

// Engine holds the heap/collector a sequence of Run calls share, so a REPL
// session keeps its globals, classes, and interned strings alive across
// lines the way a real session would.
type Engine struct {
	gc *object.GC
	vm *vm.VM
}

// New creates an Engine with a fresh heap, wired to the given I/O sinks.
func New(stdout, stderr io.Writer, stdin io.Reader) *Engine {
	gc := object.NewGC()
	return &Engine{gc: gc, vm: vm.New(gc, stdout, stderr, stdin)}
}

// SetTraceLogger wires an instruction-level trace sink (see internal/diag)
// into the underlying VM.
func (e *Engine) SetTraceLogger(logf func(format string, args ...interface{})) {
	e.vm.SetTraceLogger(logf)
	e.gc.SetLogger(logf)
}

// SetGCStressMode forces a collection cycle before every instruction the VM
// dispatches instead of waiting for the heap's high-water mark; allocations
// within one instruction, and during compilation, never trigger a
// collection. A well-formed program produces
// identical stdout either way, so this is purely a shakeout aid for finding
// missed roots and use-after-sweep bugs.
func (e *Engine) SetGCStressMode(enabled bool) {
	e.gc.SetStressMode(enabled)
}

// Run compiles and executes source. Compile errors are written to stderr by
// pkg/compiler as they're found (possibly several, for one call); runtime
// errors are written to stderr by pkg/vm as a single trace.
func (e *Engine) Run(source string, stderr io.Writer) Result {
	fn, ok := compiler.Compile(source, e.gc, stderr)
	if !ok {
		return ResultCompileError
	}

	result, err := e.vm.Interpret(fn)
	if err != nil || result != vm.InterpretOK {
		return ResultRuntimeError
	}
	return ResultOK
}

// Disassemble compiles source and writes its bytecode listing to out without
// running it, for `clox disasm` and `--debug`. It reports false, with the
// compile errors written to stderr, if source does not compile.
func (e *Engine) Disassemble(source string, stderr io.Writer, out io.Writer) bool {
	fn, ok := compiler.Compile(source, e.gc, stderr)
	if !ok {
		return false
	}
	disassembleFunction(out, fn)
	return true
}
