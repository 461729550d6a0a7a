package object

import (
	"fmt"

	"github.com/kristofer/clox/pkg/value"
)

// ObjClass is a class: its name and its own method table. Inherited
// methods are copied into Methods at OP_INHERIT time, so method lookup at
// a call site never has to walk a superclass chain.
type ObjClass struct {
	header
	Name    *ObjString
	Methods *Table
}

func (c *ObjClass) String() string { return c.Name.Chars }

// NewClass allocates and registers an empty class named name.
func (gc *GC) NewClass(name *ObjString) *ObjClass {
	c := &ObjClass{Name: name, Methods: NewTable()}
	c.kind = value.ObjKindClass
	gc.track(c)
	return c
}

// ObjInstance is a runtime instance of a class: its class pointer plus its
// own field table, created empty and populated lazily by assignment
// (`instance.field = value`), matching Lox's dynamically-typed, declaration-
// free fields.
type ObjInstance struct {
	header
	Class  *ObjClass
	Fields *Table
}

func (i *ObjInstance) String() string { return fmt.Sprintf("%s instance", i.Class.Name.Chars) }

// NewInstance allocates and registers an empty instance of class.
func (gc *GC) NewInstance(class *ObjClass) *ObjInstance {
	i := &ObjInstance{Class: class, Fields: NewTable()}
	i.kind = value.ObjKindInstance
	gc.track(i)
	return i
}

// ObjBoundMethod pairs a receiver with the closure that was looked up for
// it — the value `instance.method` evaluates to before it is called, so
// that `var m = instance.method; m();` still has the right `this`.
type ObjBoundMethod struct {
	header
	Receiver value.Value
	Method   *ObjClosure
}

func (b *ObjBoundMethod) String() string { return b.Method.String() }

// NewBoundMethod allocates and registers a bound method.
func (gc *GC) NewBoundMethod(receiver value.Value, method *ObjClosure) *ObjBoundMethod {
	b := &ObjBoundMethod{Receiver: receiver, Method: method}
	b.kind = value.ObjKindBoundMethod
	gc.track(b)
	return b
}
