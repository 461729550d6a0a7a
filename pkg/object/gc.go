package object

import "github.com/kristofer/clox/pkg/value"

// initialNextGC is the byte threshold the first collection cycle waits for
// before running, following the usual Lox-family default of triggering well
// after startup allocation (the intern table seed, the global "init" string)
// rather than on the very first object.
const initialNextGC = 1 << 20

// approxObjectSize is a per-kind size estimate used only to decide when to
// collect; clox never needs exact byte accounting, only a number that grows
// with live heap size so nextGC's doubling policy has something to double.
const approxObjectSize = 56

// GC owns every heap object clox allocates: it is the sole allocator (every
// New* constructor in this package hangs off *GC), the weak string-intern
// table, and the tri-color mark-sweep collector. There is exactly one GC
// per VM.
type GC struct {
	objects    gcObj
	grayStack  []gcObj
	strings    *Table
	initString *ObjString

	bytesAllocated int64
	nextGC         int64

	temporaries []value.Value

	stressMode bool

	logf func(format string, args ...interface{})
}

// NewGC returns a GC with an empty heap and its string table primed with
// the "init" string every class-initializer lookup needs.
func NewGC() *GC {
	gc := &GC{strings: NewTable(), nextGC: initialNextGC}
	gc.initString = gc.InternString("init")
	return gc
}

// SetLogger installs a diagnostic sink (wired to internal/diag's logrus
// logger by engine.SetTraceLogger when --trace is set) that receives one line per
// collection cycle. A nil logger, the default, means collection stays
// silent — the GC never needs logging to function correctly.
func (gc *GC) SetLogger(logf func(format string, args ...interface{})) {
	gc.logf = logf
}

// InitString returns the interned "init" string, used by the VM to
// recognize a class's initializer method without a string comparison on
// every instantiation.
func (gc *GC) InitString() *ObjString { return gc.initString }

// track threads o onto the all-objects list and charges its estimated size
// against the allocation-pressure counter.
func (gc *GC) track(o gcObj) {
	o.setNextObj(gc.objects)
	gc.objects = o
	gc.bytesAllocated += approxObjectSize
}

// SetStressMode forces ShouldCollect to report true at every check: running a
// collection before every instruction the VM dispatches shakes out missed
// roots and use-after-sweep bugs far faster than waiting for real allocation
// pressure.
func (gc *GC) SetStressMode(enabled bool) { gc.stressMode = enabled }

// ShouldCollect reports whether accumulated allocation pressure has crossed
// the next collection threshold, or whether stress mode is forcing a
// collection regardless. The VM checks this before dispatching each
// instruction and calls CollectGarbage when it returns true; allocations
// themselves, including those made while compiling, never check it.
func (gc *GC) ShouldCollect() bool {
	return gc.stressMode || gc.bytesAllocated > gc.nextGC
}

// BytesAllocated reports the current allocation-pressure counter, exposed
// for --trace diagnostics.
func (gc *GC) BytesAllocated() int64 { return gc.bytesAllocated }

// pushTemporary protects v from collection across an allocation that
// doesn't yet have any other root holding it (e.g. the fresh ObjString
// being inserted into the intern table in InternString).
func (gc *GC) pushTemporary(v value.Value) {
	gc.temporaries = append(gc.temporaries, v)
}

func (gc *GC) popTemporary() {
	gc.temporaries = gc.temporaries[:len(gc.temporaries)-1]
}

// MarkValue marks v's underlying object, if it has one. Nil/Bool/Number
// values carry no heap reference and are no-ops.
func (gc *GC) MarkValue(v value.Value) {
	if v.IsObj() {
		gc.MarkObject(v.AsObj())
	}
}

// MarkObject marks o gray (if it was white) and pushes it onto the gray
// worklist for blackening. Marking an already-marked object is a no-op,
// which is what keeps cyclic object graphs (e.g. a class whose method
// closure captures an upvalue pointing back at an instance of the class)
// from looping forever.
func (gc *GC) MarkObject(o value.Obj) {
	if o == nil {
		return
	}
	g, ok := o.(gcObj)
	if !ok || g.isMarked() {
		return
	}
	g.mark()
	gc.grayStack = append(gc.grayStack, g)
}

// CollectGarbage runs one full mark-sweep cycle. markRoots is supplied by
// the caller (the VM) because only the VM knows what the current roots
// are — the stack, call frames, open upvalues, and globals table. The
// sequence is: mark roots, trace (blacken) until the gray stack is empty,
// sweep the weak string table of any string no longer reachable from
// anywhere else, then sweep the main object list.
func (gc *GC) CollectGarbage(markRoots func(*GC)) {
	before := gc.bytesAllocated

	markRoots(gc)
	gc.MarkObject(gc.initString)
	for _, v := range gc.temporaries {
		gc.MarkValue(v)
	}

	gc.traceReferences()
	gc.sweepStrings()
	gc.sweepObjects()

	gc.nextGC = gc.bytesAllocated * 2
	if gc.nextGC < initialNextGC {
		gc.nextGC = initialNextGC
	}

	if gc.logf != nil {
		gc.logf("gc: collected %d bytes (%d -> %d), next at %d",
			before-gc.bytesAllocated, before, gc.bytesAllocated, gc.nextGC)
	}
}

func (gc *GC) traceReferences() {
	for len(gc.grayStack) > 0 {
		n := len(gc.grayStack) - 1
		o := gc.grayStack[n]
		gc.grayStack = gc.grayStack[:n]
		gc.blacken(o)
	}
}

// blacken marks every object o refers to, turning o from gray to black.
func (gc *GC) blacken(o gcObj) {
	switch v := o.(type) {
	case *ObjString, *ObjNative:
		// leaf objects: no outgoing references
	case *ObjUpvalue:
		gc.MarkValue(v.Closed)
	case *ObjFunction:
		gc.MarkObject(v.Name)
		for _, c := range v.Chunk.Constants {
			gc.MarkValue(c)
		}
	case *ObjClosure:
		gc.MarkObject(v.Function)
		for _, u := range v.Upvalues {
			gc.MarkObject(u)
		}
	case *ObjClass:
		gc.MarkObject(v.Name)
		gc.markTable(v.Methods)
	case *ObjInstance:
		gc.MarkObject(v.Class)
		gc.markTable(v.Fields)
	case *ObjBoundMethod:
		gc.MarkValue(v.Receiver)
		gc.MarkObject(v.Method)
	}
}

func (gc *GC) markTable(t *Table) {
	for _, k := range t.Keys() {
		gc.MarkObject(k)
		if v, ok := t.Get(k); ok {
			gc.MarkValue(v)
		}
	}
}

// sweepStrings drops any interned string the mark phase never reached —
// the intern table holds every string weakly, so this is the one place a
// string actually dies.
func (gc *GC) sweepStrings() {
	for _, k := range gc.strings.Keys() {
		if !k.isMarked() {
			gc.strings.Delete(k)
		}
	}
}

// sweepObjects walks the intrusive all-objects list, unmarking survivors
// for the next cycle and unlinking (and thereby letting Go's own collector
// reclaim) everything still white.
func (gc *GC) sweepObjects() {
	var previous gcObj
	object := gc.objects
	for object != nil {
		if object.isMarked() {
			object.unmark()
			previous = object
			object = object.nextObj()
			continue
		}
		unreached := object
		object = object.nextObj()
		if previous != nil {
			previous.setNextObj(object)
		} else {
			gc.objects = object
		}
		gc.bytesAllocated -= approxObjectSize
		_ = unreached
	}
}
