// Package vm implements clox's bytecode virtual machine: a fixed-size value
// stack, a fixed-size call-frame array, and a fetch-decode-execute loop over
// a compiled Chunk. It is the last stage of the pipeline:
//
//	source -> pkg/lexer -> pkg/compiler -> pkg/bytecode.Chunk -> pkg/vm -> output
//
// Execution model:
//
// Every clox value lives on one shared operand stack (StackMax slots).
// Calling a function pushes a CallFrame that remembers which closure is
// running, where its instruction pointer is, and which stack slot its
// locals start at — the frame itself carries no separate storage, so
// closing over a local is just capturing a pointer into the shared stack
// array (see Obj Upvalue in pkg/object) until the owning frame returns, at
// which point OP_CLOSE_UPVALUE/OP_RETURN copy the value out before the slot
// is reused.
package vm

import (
	"fmt"
	"io"
	"time"

	"github.com/kristofer/clox/pkg/bytecode"
	"github.com/kristofer/clox/pkg/object"
	"github.com/kristofer/clox/pkg/value"
)

// StackMax is the fixed size of the VM's value stack.
const StackMax = 16384

// FramesMax is the fixed size of the VM's call-frame array, the effective
// recursion limit.
const FramesMax = 64

// CallFrame is one activation record: which closure is executing, the
// index of the next instruction to fetch within its chunk, and the stack
// slot its locals (including the receiver/function-itself in slot 0) start
// at.
type CallFrame struct {
	closure *object.ObjClosure
	ip      int
	slots   int
}

// InterpretResult classifies how an Interpret call finished. Compile errors are
// reported by pkg/compiler before the VM ever runs; the VM itself only ever
// produces OK or a runtime error.
type InterpretResult int

const (
	InterpretOK InterpretResult = iota
	InterpretRuntimeError
)

// VM is one bytecode interpreter instance: its operand stack, call frames,
// globals table, open-upvalue chain, and the heap/collector it shares with
// the compiler that produced its code.
type VM struct {
	stack      [StackMax]value.Value
	stackTop   int
	frames     [FramesMax]CallFrame
	frameCount int

	globals      *object.Table
	gc           *object.GC
	openUpvalues *object.ObjUpvalue

	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader

	startTime time.Time

	traceLog func(format string, args ...interface{})
	lastErr  *RuntimeError
}

// New returns a VM sharing gc with whatever compiler produced the code it
// will run, writing `print` output and runtime error text to stdout/stderr
// and reading from stdin for the `getc` native — the only three I/O
// surfaces the core touches.
func New(gc *object.GC, stdout, stderr io.Writer, stdin io.Reader) *VM {
	vm := &VM{
		globals:   object.NewTable(),
		gc:        gc,
		stdout:    stdout,
		stderr:    stderr,
		stdin:     stdin,
		startTime: time.Now(),
	}
	vm.defineNatives()
	return vm
}

// SetTraceLogger installs a callback invoked once per executed instruction
// with its disassembly, wired to internal/diag's logrus logger when
// `--trace` is set. A nil logger (the default) means zero overhead beyond a
// nil check per instruction.
func (vm *VM) SetTraceLogger(logf func(format string, args ...interface{})) {
	vm.traceLog = logf
}

func (vm *VM) push(v value.Value) {
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() value.Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.stackTop-1-distance]
}

func (vm *VM) resetStack() {
	vm.stackTop = 0
	vm.frameCount = 0
	vm.openUpvalues = nil
}

// Interpret runs fn (the top-level `<script>` function pkg/compiler
// produced, or any other zero-arity function) to completion; it is called
// with no arguments, so a function with parameters fails the arity check.
func (vm *VM) Interpret(fn *object.ObjFunction) (InterpretResult, error) {
	closure := vm.gc.NewClosure(fn)
	vm.push(value.FromObj(closure))
	if !vm.call(closure, 0) {
		return InterpretRuntimeError, vm.lastErr
	}
	return vm.run()
}

// lastErr carries the *RuntimeError out of the deeply nested call()/run()
// helpers, which signal failure with a plain bool so every call site stays
// a simple `if !vm.call(...) { return false }` without threading an error
// return through the whole dispatch loop.

func (vm *VM) currentFrame() *CallFrame { return &vm.frames[vm.frameCount-1] }

func (vm *VM) runtimeError(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	frames := make([]frameTrace, 0, vm.frameCount)
	for i := vm.frameCount - 1; i >= 0; i-- {
		frame := &vm.frames[i]
		fn := frame.closure.Function
		line := fn.Chunk.Line(frame.ip - 1)
		name := "script"
		if fn.Name != nil {
			name = fn.Name.Chars + "()"
		}
		frames = append(frames, frameTrace{FunctionName: name, Line: line})
	}

	vm.lastErr = newRuntimeError(message, frames)
	fmt.Fprintln(vm.stderr, vm.lastErr.Error())
	vm.resetStack()
}
