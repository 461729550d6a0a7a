package engine

import (
	"io"

	"github.com/kristofer/clox/pkg/bytecode"
	"github.com/kristofer/clox/pkg/object"
)

// disassembleFunction prints fn's chunk, then recurses into every nested
// function found in its constant pool, so `clox disasm` shows every
// function and method a script defines, not just the top-level script body.
func disassembleFunction(out io.Writer, fn *object.ObjFunction) {
	name := "<script>"
	if fn.Name != nil {
		name = fn.Name.Chars
	}
	bytecode.Disassemble(out, fn.Chunk, name)

	for _, c := range fn.Chunk.Constants {
		if !c.IsObj() {
			continue
		}
		if nested, ok := c.AsObj().(*object.ObjFunction); ok {
			disassembleFunction(out, nested)
		}
	}
}
