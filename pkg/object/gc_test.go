package object

import (
	"testing"

	"github.com/kristofer/clox/pkg/value"
	"github.com/stretchr/testify/assert"
)

func TestCollectGarbageFreesUnreachableInstance(t *testing.T) {
	gc := NewGC()
	class := gc.NewClass(gc.InternString("Widget"))
	instance := gc.NewInstance(class)
	instance.Fields.Set(gc.InternString("x"), value.Number(1))

	// No markRoots call references the instance, so it must not survive.
	gc.CollectGarbage(func(gc *GC) {})

	assert.False(t, instance.isMarked())
	for o := gc.objects; o != nil; o = o.nextObj() {
		assert.NotEqual(t, gcObj(instance), o, "unreachable instance is unlinked from the object list")
	}
}

func TestCollectGarbageKeepsRootedObjects(t *testing.T) {
	gc := NewGC()
	class := gc.NewClass(gc.InternString("Widget"))
	instance := gc.NewInstance(class)

	gc.CollectGarbage(func(gc *GC) {
		gc.MarkObject(instance)
	})

	// Sweep unmarks survivors after clearing them from the gray stack, so
	// by the time CollectGarbage returns, a rooted object is unmarked again
	// but still linked into the object list (i.e. not swept).
	found := false
	for o := gc.objects; o != nil; o = o.nextObj() {
		if o == gcObj(instance) {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCollectGarbageSweepsUnreferencedStrings(t *testing.T) {
	gc := NewGC()
	gc.InternString("ephemeral")
	gc.CollectGarbage(func(gc *GC) {})
	assert.Nil(t, gc.strings.FindString("ephemeral", hashString("ephemeral")))
}

func TestMarkObjectHandlesNil(t *testing.T) {
	gc := NewGC()
	assert.NotPanics(t, func() {
		gc.MarkObject(nil)
	})
}

func TestStressModeForcesShouldCollect(t *testing.T) {
	gc := NewGC()
	assert.False(t, gc.ShouldCollect(), "a fresh heap is well under nextGC")

	gc.SetStressMode(true)
	assert.True(t, gc.ShouldCollect())

	gc.SetStressMode(false)
	assert.False(t, gc.ShouldCollect())
}

func TestStressModeCollectionStillKeepsRootedObjects(t *testing.T) {
	gc := NewGC()
	gc.SetStressMode(true)

	class := gc.NewClass(gc.InternString("Widget"))
	instance := gc.NewInstance(class)

	// With stress mode switched on, an explicit collection still keeps a
	// rooted object linked into the object list.
	gc.CollectGarbage(func(gc *GC) {
		gc.MarkObject(instance)
	})

	found := false
	for o := gc.objects; o != nil; o = o.nextObj() {
		if o == gcObj(instance) {
			found = true
		}
	}
	assert.True(t, found)
}
