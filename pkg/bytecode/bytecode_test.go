package bytecode

import (
	"bytes"
	"testing"

	"github.com/kristofer/clox/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadUint16(t *testing.T) {
	c := NewChunk()
	offset := c.WriteUint16(0x1234, 7)
	assert.Equal(t, uint16(0x1234), c.ReadUint16(offset))
	assert.Equal(t, 7, c.Line(offset))
}

func TestPatchUint16(t *testing.T) {
	c := NewChunk()
	offset := c.WriteUint16(0, 1)
	c.PatchUint16(offset, 99)
	assert.Equal(t, uint16(99), c.ReadUint16(offset))
}

func TestAddConstant(t *testing.T) {
	c := NewChunk()
	idx := c.AddConstant(value.Number(42))
	require.Equal(t, 0, idx)
	assert.True(t, c.Constants[idx].Equal(value.Number(42)))
}

func TestDisassembleSimpleChunk(t *testing.T) {
	c := NewChunk()
	idx := c.AddConstant(value.Number(1))
	c.WriteOp(OpConstant, 1)
	c.WriteUint16(uint16(idx), 1)
	c.WriteOp(OpReturn, 1)

	var buf bytes.Buffer
	Disassemble(&buf, c, "test")
	out := buf.String()
	assert.Contains(t, out, "== test ==")
	assert.Contains(t, out, "OP_CONSTANT")
	assert.Contains(t, out, "OP_RETURN")
}
