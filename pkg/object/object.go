// Package object implements clox's heap: every value.Obj variant (strings,
// functions, closures, upvalues, classes, instances, bound methods), the
// open-addressed Table used both for weak string interning and for
// globals/class-methods/instance-fields, and the tri-color mark-sweep
// collector that owns them all.
//
// Every heap type embeds header, which carries the intrusive mark bit and
// allocation-list link the collector walks during sweep. header's methods
// are unexported and only ever called through the gcObj interface below, so
// from outside this package a heap object is just a value.Obj — Kind() and
// nothing else.
package object

import "github.com/kristofer/clox/pkg/value"

type header struct {
	kind   value.ObjKind
	marked bool
	next   gcObj
}

func (h *header) Kind() value.ObjKind { return h.kind }
func (h *header) isMarked() bool      { return h.marked }
func (h *header) mark()               { h.marked = true }
func (h *header) unmark()             { h.marked = false }
func (h *header) nextObj() gcObj      { return h.next }
func (h *header) setNextObj(o gcObj)  { h.next = o }

// gcObj is the view of a heap object the collector needs: a value.Obj plus
// the mark bit and the intrusive singly-linked allocation list every object
// is threaded onto at creation. Every exported Obj* type in this package
// satisfies it by embedding header.
type gcObj interface {
	value.Obj
	isMarked() bool
	mark()
	unmark()
	nextObj() gcObj
	setNextObj(gcObj)
}
