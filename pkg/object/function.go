package object

import (
	"fmt"

	"github.com/kristofer/clox/pkg/bytecode"
	"github.com/kristofer/clox/pkg/value"
)

// ObjFunction is a compiled function body: its arity, the number of
// upvalues its closures must capture, and the Chunk the compiler emitted
// for it. Top-level script code is itself an ObjFunction with Arity 0 and a
// nil Name.
type ObjFunction struct {
	header
	Arity             int
	UpvalueCountField int
	Chunk             *bytecode.Chunk
	Name              *ObjString
}

func (f *ObjFunction) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}

// UpvalueCount reports how many upvalues closures over f must capture. The
// bytecode disassembler reads this through a structural interface so that
// pkg/bytecode never has to import pkg/object.
func (f *ObjFunction) UpvalueCount() int { return f.UpvalueCountField }

// NewFunction allocates an ObjFunction and registers it with gc.
func (gc *GC) NewFunction() *ObjFunction {
	fn := &ObjFunction{Chunk: bytecode.NewChunk()}
	fn.kind = value.ObjKindFunction
	gc.track(fn)
	return fn
}

// NativeFn is the signature every native (host-implemented) function must
// have: it receives its arguments and returns a result or a runtime error
// message.
type NativeFn func(args []value.Value) (value.Value, error)

// ObjNative wraps a NativeFn so it can be stored in a Value and called
// through the same OP_CALL path as an interpreted closure.
type ObjNative struct {
	header
	Name     string
	Function NativeFn
}

func (n *ObjNative) String() string { return "<native fn>" }

// NewNative allocates and registers an ObjNative.
func (gc *GC) NewNative(name string, fn NativeFn) *ObjNative {
	obj := &ObjNative{Name: name, Function: fn}
	obj.kind = value.ObjKindNative
	gc.track(obj)
	return obj
}
