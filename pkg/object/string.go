package object

import "github.com/kristofer/clox/pkg/value"

// ObjString is clox's only string representation. Every ObjString the
// runtime ever produces is interned: hashString + the GC's string table
// guarantee that two strings with identical contents are the same pointer,
// which is what lets Value.Equal compare strings by pointer identity alone.
type ObjString struct {
	header
	Chars string
	Hash  uint32
}

func (s *ObjString) String() string { return s.Chars }

// hashString computes the FNV-1a hash used for string interning.
func hashString(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

// InternString returns the canonical ObjString for s, allocating and
// registering a new one with the collector only if s has never been seen
// before. Callers never construct ObjString directly.
func (gc *GC) InternString(s string) *ObjString {
	hash := hashString(s)
	if existing := gc.strings.FindString(s, hash); existing != nil {
		return existing
	}
	obj := &ObjString{Chars: s, Hash: hash}
	obj.kind = value.ObjKindString
	gc.track(obj)
	// The intern table itself must not be the only reference keeping a
	// fresh string alive across the table-growth allocation below, so push
	// it as a temporary GC root before inserting.
	gc.pushTemporary(value.FromObj(obj))
	gc.strings.Set(obj, value.Bool(true))
	gc.popTemporary()
	return obj
}
