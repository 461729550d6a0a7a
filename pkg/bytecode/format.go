// Disassembly support: a non-interactive bytecode listing used by `clox
// disasm` and the `--debug` CLI flag. clox never persists compiled bytecode
// to disk, only disassembles it for a human to read, so this is a pure
// io.Writer-based, one-function-per-instruction-shape listing.
package bytecode

import (
	"fmt"
	"io"
)

// Disassemble writes a human-readable listing of every instruction in c to
// w, labelled with name (e.g. the chunk's owning function name, or
// "<script>").
func Disassemble(w io.Writer, c *Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = DisassembleInstruction(w, c, offset)
	}
}

// DisassembleInstruction writes one instruction at offset and returns the
// offset of the instruction that follows it.
func DisassembleInstruction(w io.Writer, c *Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	if offset > 0 && c.Line(offset) == c.Line(offset-1) {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", c.Line(offset))
	}

	op := OpCode(c.Code[offset])
	switch op {
	case OpNil, OpTrue, OpFalse, OpPop, OpEqual, OpGreater, OpLess,
		OpAdd, OpSubtract, OpMultiply, OpDivide, OpNot, OpNegate,
		OpPrint, OpCloseUpvalue, OpReturn, OpInherit:
		return simpleInstruction(w, op, offset)
	case OpConstant, OpGetGlobal, OpDefineGlobal, OpSetGlobal, OpClass, OpMethod, OpGetSuper:
		return constantInstruction(w, op, c, offset)
	case OpGetLocal, OpSetLocal, OpGetUpvalue, OpSetUpvalue, OpCall:
		return byteInstruction(w, op, c, offset)
	case OpInvoke, OpSuperInvoke:
		return invokeInstruction(w, op, c, offset)
	case OpJump, OpJumpIfFalse:
		return jumpInstruction(w, op, c, offset, 1)
	case OpLoop:
		return jumpInstruction(w, op, c, offset, -1)
	case OpClosure:
		return closureInstruction(w, c, offset)
	default:
		fmt.Fprintf(w, "Unknown opcode %d\n", op)
		return offset + 1
	}
}

func simpleInstruction(w io.Writer, op OpCode, offset int) int {
	fmt.Fprintf(w, "%s\n", op)
	return offset + 1
}

func constantInstruction(w io.Writer, op OpCode, c *Chunk, offset int) int {
	idx := c.ReadUint16(offset + 1)
	fmt.Fprintf(w, "%-16s %4d '%v'\n", op, idx, c.Constants[idx])
	return offset + 3
}

func byteInstruction(w io.Writer, op OpCode, c *Chunk, offset int) int {
	slot := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d\n", op, slot)
	return offset + 2
}

func invokeInstruction(w io.Writer, op OpCode, c *Chunk, offset int) int {
	idx := c.ReadUint16(offset + 1)
	argCount := c.Code[offset+3]
	fmt.Fprintf(w, "%-16s (%d args) %4d '%v'\n", op, argCount, idx, c.Constants[idx])
	return offset + 4
}

func jumpInstruction(w io.Writer, op OpCode, c *Chunk, offset int, sign int) int {
	jump := int(c.ReadUint16(offset + 1))
	target := offset + 3 + sign*jump
	fmt.Fprintf(w, "%-16s %4d -> %d\n", op, offset, target)
	return offset + 3
}

func closureInstruction(w io.Writer, c *Chunk, offset int) int {
	offset++
	idx := c.ReadUint16(offset)
	offset += 2
	fmt.Fprintf(w, "%-16s %4d '%v'\n", OpClosure, idx, c.Constants[idx])

	fn, ok := c.Constants[idx].AsObj().(interface{ UpvalueCount() int })
	if !ok {
		return offset
	}
	upvalueCount := fn.UpvalueCount()
	for i := 0; i < upvalueCount; i++ {
		isLocal := c.Code[offset]
		offset++
		index := c.Code[offset]
		offset++
		kind := "upvalue"
		if isLocal != 0 {
			kind = "local"
		}
		fmt.Fprintf(w, "%04d      |                     %s %d\n", offset-2, kind, index)
	}
	return offset
}
