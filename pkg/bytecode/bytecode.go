// Package bytecode defines clox's compiled instruction format: a byte
// buffer of one-byte opcodes and their operands, a parallel per-byte line
// table for error reporting, and a constant pool addressed by a 16-bit
// index.
//
// Architecture:
//
// A Chunk is the unit the compiler emits into and the VM executes: a packed
// byte stream rather than a slice of boxed instruction structs. Multi-byte
// operands (jump offsets, constant indices) are written and read with
// encoding/binary, the same way every bytecode VM in the Lox family lays
// out its instruction stream, keeping constant-time operand decoding
// without paying for a boxed Instruction struct per opcode.
//
// Example compilation:
//
//	Source:  print 1 + 2;
//
//	Bytecode:
//	  OpConstant 0   ; push constants[0] == 1
//	  OpConstant 1   ; push constants[1] == 2
//	  OpAdd          ; pop two, push their sum
//	  OpPrint        ; pop, print
//	  OpNil          ; implicit return value
//	  OpReturn
//
//	Constants: [1, 2]
package bytecode

import (
	"encoding/binary"

	"github.com/kristofer/clox/pkg/value"
)

// OpCode is a single one-byte instruction tag.
type OpCode byte

const (
	OpConstant OpCode = iota
	OpNil
	OpTrue
	OpFalse
	OpPop
	OpGetLocal
	OpSetLocal
	OpGetGlobal
	OpDefineGlobal
	OpSetGlobal
	OpGetUpvalue
	OpSetUpvalue
	OpGetProperty
	OpSetProperty
	OpGetSuper
	OpEqual
	OpGreater
	OpLess
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNot
	OpNegate
	OpPrint
	OpJump
	OpJumpIfFalse
	OpLoop
	OpCall
	OpInvoke
	OpSuperInvoke
	OpClosure
	OpCloseUpvalue
	OpReturn
	OpClass
	OpInherit
	OpMethod
)

var opCodeNames = map[OpCode]string{
	OpConstant:     "OP_CONSTANT",
	OpNil:          "OP_NIL",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpPop:          "OP_POP",
	OpGetLocal:     "OP_GET_LOCAL",
	OpSetLocal:     "OP_SET_LOCAL",
	OpGetGlobal:    "OP_GET_GLOBAL",
	OpDefineGlobal: "OP_DEFINE_GLOBAL",
	OpSetGlobal:    "OP_SET_GLOBAL",
	OpGetUpvalue:   "OP_GET_UPVALUE",
	OpSetUpvalue:   "OP_SET_UPVALUE",
	OpGetProperty:  "OP_GET_PROPERTY",
	OpSetProperty:  "OP_SET_PROPERTY",
	OpGetSuper:     "OP_GET_SUPER",
	OpEqual:        "OP_EQUAL",
	OpGreater:      "OP_GREATER",
	OpLess:         "OP_LESS",
	OpAdd:          "OP_ADD",
	OpSubtract:     "OP_SUBTRACT",
	OpMultiply:     "OP_MULTIPLY",
	OpDivide:       "OP_DIVIDE",
	OpNot:          "OP_NOT",
	OpNegate:       "OP_NEGATE",
	OpPrint:        "OP_PRINT",
	OpJump:         "OP_JUMP",
	OpJumpIfFalse:  "OP_JUMP_IF_FALSE",
	OpLoop:         "OP_LOOP",
	OpCall:         "OP_CALL",
	OpInvoke:       "OP_INVOKE",
	OpSuperInvoke:  "OP_SUPER_INVOKE",
	OpClosure:      "OP_CLOSURE",
	OpCloseUpvalue: "OP_CLOSE_UPVALUE",
	OpReturn:       "OP_RETURN",
	OpClass:        "OP_CLASS",
	OpInherit:      "OP_INHERIT",
	OpMethod:       "OP_METHOD",
}

func (op OpCode) String() string {
	if name, ok := opCodeNames[op]; ok {
		return name
	}
	return "OP_UNKNOWN"
}

// MaxConstants is the largest constant-pool size a Chunk can address with
// its 16-bit constant index operand.
const MaxConstants = 65536

// Chunk is a sequence of bytecode plus the data it references: one source
// line per code byte (for runtime error reporting) and the constant pool.
type Chunk struct {
	Code      []byte
	Lines     []int
	Constants []value.Value
}

// NewChunk returns an empty Chunk ready to be written into.
func NewChunk() *Chunk {
	return &Chunk{}
}

// Write appends a single byte (an opcode or a raw operand byte) tagged with
// the source line that produced it.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// WriteOp appends an opcode byte.
func (c *Chunk) WriteOp(op OpCode, line int) {
	c.Write(byte(op), line)
}

// WriteUint16 appends a two-byte big-endian operand (jump offsets and
// constant indices both use this width).
func (c *Chunk) WriteUint16(v uint16, line int) int {
	offset := len(c.Code)
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	c.Write(buf[0], line)
	c.Write(buf[1], line)
	return offset
}

// ReadUint16 reads a two-byte big-endian operand starting at offset.
func (c *Chunk) ReadUint16(offset int) uint16 {
	return binary.BigEndian.Uint16(c.Code[offset : offset+2])
}

// PatchUint16 overwrites the two bytes at offset — used to back-patch a
// forward jump once the target address is known.
func (c *Chunk) PatchUint16(offset int, v uint16) {
	binary.BigEndian.PutUint16(c.Code[offset:offset+2], v)
}

// AddConstant appends a value to the constant pool and returns its index.
// Callers must not exceed MaxConstants; the compiler checks this before
// emitting OpConstant so the 16-bit operand never overflows.
func (c *Chunk) AddConstant(v value.Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// Line returns the source line recorded for the instruction at offset.
func (c *Chunk) Line(offset int) int {
	if offset < 0 || offset >= len(c.Lines) {
		return -1
	}
	return c.Lines[offset]
}
