package object

import (
	"testing"

	"github.com/kristofer/clox/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableSetGetDelete(t *testing.T) {
	gc := NewGC()
	key := gc.InternString("greeting")
	tbl := NewTable()

	isNew := tbl.Set(key, value.Number(1))
	assert.True(t, isNew)

	v, ok := tbl.Get(key)
	require.True(t, ok)
	assert.True(t, v.Equal(value.Number(1)))

	isNew = tbl.Set(key, value.Number(2))
	assert.False(t, isNew)
	v, _ = tbl.Get(key)
	assert.True(t, v.Equal(value.Number(2)))

	assert.True(t, tbl.Delete(key))
	_, ok = tbl.Get(key)
	assert.False(t, ok)
}

func TestTableGrowsAndSurvivesRehash(t *testing.T) {
	gc := NewGC()
	tbl := NewTable()
	keys := make([]*ObjString, 0, 50)
	for i := 0; i < 50; i++ {
		k := gc.InternString(string(rune('a' + i%26)) + string(rune(i)))
		keys = append(keys, k)
		tbl.Set(k, value.Number(float64(i)))
	}
	for i, k := range keys {
		v, ok := tbl.Get(k)
		require.True(t, ok)
		assert.True(t, v.Equal(value.Number(float64(i))))
	}
}

func TestInternStringDeduplicates(t *testing.T) {
	gc := NewGC()
	a := gc.InternString("hello")
	b := gc.InternString("hello")
	assert.Same(t, a, b)
}

func TestFindString(t *testing.T) {
	gc := NewGC()
	s := gc.InternString("needle")
	found := gc.strings.FindString("needle", hashString("needle"))
	assert.Same(t, s, found)
	assert.Nil(t, gc.strings.FindString("missing", hashString("missing")))
}
