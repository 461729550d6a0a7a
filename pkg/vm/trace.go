package vm

import (
	"strings"

	"github.com/kristofer/clox/pkg/bytecode"
)

// traceInstruction renders the instruction about to execute in frame using
// the same disassembler `clox disasm` uses, for the opt-in --trace log
// stream. It never touches vm.stdout/vm.stderr — the caller (internal/diag)
// decides where it goes.
func (vm *VM) traceInstruction(frame *CallFrame) string {
	var b strings.Builder
	bytecode.DisassembleInstruction(&b, frame.closure.Function.Chunk, frame.ip)
	return strings.TrimRight(b.String(), "\n")
}
