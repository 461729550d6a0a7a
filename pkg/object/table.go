package object

import "github.com/kristofer/clox/pkg/value"

const tableMaxLoad = 0.75

type entry struct {
	key   *ObjString // nil key + Bool(true) value marks a tombstone
	value value.Value
	used  bool
}

// Table is an open-addressed, linear-probing hash table keyed by interned
// strings. It backs the weak string-intern set, the globals table, every
// class's method set, and every instance's field set.
type Table struct {
	entries []entry
	count   int // live entries + tombstones, used against the load factor
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{}
}

func (t *Table) capacity() int { return len(t.entries) }

// findEntrySlot locates the slot key belongs in: either its live entry, the
// first tombstone seen along the probe sequence (so deletions don't break
// later lookups), or the first truly empty slot.
func findEntrySlot(entries []entry, key *ObjString) int {
	capacity := len(entries)
	index := int(key.Hash) % capacity
	var tombstone = -1
	for {
		e := &entries[index]
		if !e.used {
			if e.key == nil {
				if tombstone != -1 {
					return tombstone
				}
				return index
			}
		} else if e.key == key {
			return index
		} else if e.key == nil && tombstone == -1 {
			tombstone = index
		}
		index = (index + 1) % capacity
	}
}

func (t *Table) adjustCapacity(newCapacity int) {
	fresh := make([]entry, newCapacity)
	liveCount := 0
	for i := range t.entries {
		old := &t.entries[i]
		if !old.used || old.key == nil {
			continue
		}
		idx := findEntrySlot(fresh, old.key)
		fresh[idx] = entry{key: old.key, value: old.value, used: true}
		liveCount++
	}
	t.entries = fresh
	t.count = liveCount
}

// Get looks up key, reporting whether it was present.
func (t *Table) Get(key *ObjString) (value.Value, bool) {
	if t.capacity() == 0 {
		return value.Nil, false
	}
	idx := findEntrySlot(t.entries, key)
	e := &t.entries[idx]
	if !e.used || e.key == nil {
		return value.Nil, false
	}
	return e.value, true
}

// Set inserts or overwrites key -> v, growing the table first if that would
// exceed the 0.75 load factor. Reports whether this was a new key.
func (t *Table) Set(key *ObjString, v value.Value) bool {
	if float64(t.count+1) > float64(t.capacity())*tableMaxLoad {
		newCapacity := growCapacity(t.capacity())
		t.adjustCapacity(newCapacity)
	}
	idx := findEntrySlot(t.entries, key)
	e := &t.entries[idx]
	isNewKey := !e.used || e.key == nil
	if !e.used {
		t.count++
	}
	*e = entry{key: key, value: v, used: true}
	return isNewKey
}

// Delete removes key, leaving a tombstone ({nil, true}) in its place so
// later probes for other keys keep working.
func (t *Table) Delete(key *ObjString) bool {
	if t.capacity() == 0 {
		return false
	}
	idx := findEntrySlot(t.entries, key)
	e := &t.entries[idx]
	if !e.used || e.key == nil {
		return false
	}
	*e = entry{key: nil, value: value.Bool(true), used: true}
	return true
}

// AddAll copies every live entry of src into t, used to seed a subclass's
// method table from its superclass's.
func (t *Table) AddAll(src *Table) {
	for _, e := range src.entries {
		if e.used && e.key != nil {
			t.Set(e.key, e.value)
		}
	}
}

// FindString looks up a string by contents and hash without first having
// an ObjString to compare pointers against — the one operation the intern
// table needs that a normal Table.Get cannot do, since Get compares keys by
// pointer identity.
func (t *Table) FindString(s string, hash uint32) *ObjString {
	if t.capacity() == 0 {
		return nil
	}
	capacity := t.capacity()
	index := int(hash) % capacity
	for {
		e := &t.entries[index]
		if !e.used {
			if e.key == nil {
				return nil
			}
		} else if e.key != nil && e.key.Hash == hash && e.key.Chars == s {
			return e.key
		}
		index = (index + 1) % capacity
	}
}

// Keys returns every live key, used by the collector to sweep unmarked
// strings out of the weak intern table.
func (t *Table) Keys() []*ObjString {
	keys := make([]*ObjString, 0, t.count)
	for _, e := range t.entries {
		if e.used && e.key != nil {
			keys = append(keys, e.key)
		}
	}
	return keys
}

func growCapacity(capacity int) int {
	if capacity < 8 {
		return 8
	}
	return capacity * 2
}
