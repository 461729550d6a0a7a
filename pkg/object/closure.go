package object

import "github.com/kristofer/clox/pkg/value"

// ObjUpvalue is a reference to a local variable captured by a closure.
// While open, Location points into the owning frame's slice of the VM's
// value stack; Next threads it onto the VM's open-upvalue list, kept sorted
// by descending stack slot so the VM can find-or-create in one pass and
// close every upvalue at or above a given slot in one pass. Closing an
// upvalue copies the value into Closed and repoints Location at it, so a
// closure keeps working after its defining frame returns.
type ObjUpvalue struct {
	header
	Location   *value.Value
	Closed     value.Value
	Next       *ObjUpvalue
	StackIndex int // absolute VM stack slot Location refers to while open
}

func (u *ObjUpvalue) String() string { return "<upvalue>" }

// NewUpvalue allocates and registers an open upvalue pointing at the given
// absolute stack slot.
func (gc *GC) NewUpvalue(slot *value.Value, stackIndex int) *ObjUpvalue {
	u := &ObjUpvalue{Location: slot, StackIndex: stackIndex}
	u.kind = value.ObjKindUpvalue
	gc.track(u)
	return u
}

// Close copies the current value out of the stack slot Location points at
// into Closed, then repoints Location at Closed so future reads/writes
// through this upvalue see the same storage regardless of the stack frame
// that originally owned it.
func (u *ObjUpvalue) Close() {
	u.Closed = *u.Location
	u.Location = &u.Closed
}

// ObjClosure pairs a compiled ObjFunction with the upvalues it captured at
// creation time. Every callable clox value the VM actually invokes — except
// bound methods and natives — is a closure, even a function with no free
// variables (it just has zero upvalues).
type ObjClosure struct {
	header
	Function *ObjFunction
	Upvalues []*ObjUpvalue
}

func (c *ObjClosure) String() string { return c.Function.String() }

// NewClosure allocates and registers a closure over fn with len(fn
// upvalues) empty upvalue slots ready to be filled in by OP_CLOSURE.
func (gc *GC) NewClosure(fn *ObjFunction) *ObjClosure {
	c := &ObjClosure{Function: fn, Upvalues: make([]*ObjUpvalue, fn.UpvalueCountField)}
	c.kind = value.ObjKindClosure
	gc.track(c)
	return c
}
