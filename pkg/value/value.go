// Package value defines clox's runtime Value representation: a small boxed
// tagged union rather than the NaN-boxed double the Design Notes also
// sanction. Every Value is a fixed-size struct (a tag byte plus a float64
// and an Obj slot), never a heap-allocated interface box for the common
// Nil/Bool/Number cases — only the Obj case carries a pointer, and that
// pointer is always owned and GC-managed by pkg/object.
package value

import (
	"fmt"
	"math"
	"strconv"
)

// Obj is the minimal interface a heap object must satisfy to be stored in a
// Value. It is declared here, not in pkg/object, so that this package never
// imports the object package: pkg/object imports pkg/value (every heap
// object holds fields, upvalues, or constants that are Values), so the
// dependency can only run one way.
type Obj interface {
	// Kind reports the concrete object type, used by the VM and formatter
	// to avoid a type switch at every call site.
	Kind() ObjKind
}

// ObjKind tags the concrete variant behind an Obj.
type ObjKind byte

const (
	ObjKindString ObjKind = iota
	ObjKindFunction
	ObjKindNative
	ObjKindClosure
	ObjKindUpvalue
	ObjKindClass
	ObjKindInstance
	ObjKindBoundMethod
)

// Type tags a Value's active variant.
type Type byte

const (
	TypeNil Type = iota
	TypeBool
	TypeNumber
	TypeObj
)

// Value is the tagged union every clox stack slot, global, local, upvalue,
// and constant pool entry holds. Exactly one of the payload fields is
// meaningful, selected by typ.
type Value struct {
	typ     Type
	boolean bool
	number  float64
	obj     Obj
}

// Nil is the singleton nil value.
var Nil = Value{typ: TypeNil}

// Bool boxes a boolean.
func Bool(b bool) Value {
	return Value{typ: TypeBool, boolean: b}
}

// Number boxes a float64; clox has exactly one numeric type.
func Number(n float64) Value {
	return Value{typ: TypeNumber, number: n}
}

// FromObj boxes a heap object reference.
func FromObj(o Obj) Value {
	return Value{typ: TypeObj, obj: o}
}

// IsNil reports whether v is the nil value.
func (v Value) IsNil() bool { return v.typ == TypeNil }

// IsBool reports whether v holds a boolean.
func (v Value) IsBool() bool { return v.typ == TypeBool }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.typ == TypeNumber }

// IsObj reports whether v holds a heap object reference.
func (v Value) IsObj() bool { return v.typ == TypeObj }

// AsBool returns the boolean payload. The caller must have checked IsBool.
func (v Value) AsBool() bool { return v.boolean }

// AsNumber returns the float64 payload. The caller must have checked IsNumber.
func (v Value) AsNumber() float64 { return v.number }

// AsObj returns the Obj payload. The caller must have checked IsObj.
func (v Value) AsObj() Obj { return v.obj }

// IsFalsey implements clox's truthiness rule: nil and false are falsey,
// everything else — including 0 and the empty string — is truthy.
func (v Value) IsFalsey() bool {
	return v.IsNil() || (v.IsBool() && !v.AsBool())
}

// Equal implements clox's `==` semantics. Values of different types are
// never equal. Numbers compare with ordinary IEEE-754 float64 equality, so
// NaN != NaN falls straight out of the underlying Go `==` — no special
// casing is needed or added. Objects compare by identity (pointer
// equality): since all ObjString instances are interned (pkg/object's
// Table), two strings with the same contents are always the same pointer,
// so identity comparison already implements by-contents string equality.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeNil:
		return true
	case TypeBool:
		return v.boolean == other.boolean
	case TypeNumber:
		return v.number == other.number
	case TypeObj:
		return v.obj == other.obj
	default:
		return false
	}
}

// String renders v for disassembly listings, REPL echoes, and error
// messages where a Go %v would otherwise print the internal struct layout.
func (v Value) String() string {
	switch v.typ {
	case TypeNil:
		return "nil"
	case TypeBool:
		if v.boolean {
			return "true"
		}
		return "false"
	case TypeNumber:
		return formatNumber(v.number)
	case TypeObj:
		if s, ok := v.obj.(fmt.Stringer); ok {
			return s.String()
		}
		return "<obj>"
	default:
		return "<invalid>"
	}
}

// formatNumber prints a float64 the way clox's `print` does: integral
// values with no trailing ".0", everything else via Go's shortest
// round-tripping representation.
func formatNumber(n float64) string {
	if n == math.Trunc(n) && !math.IsInf(n, 0) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
