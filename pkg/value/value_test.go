package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFalsey(t *testing.T) {
	assert.True(t, Nil.IsFalsey())
	assert.True(t, Bool(false).IsFalsey())
	assert.False(t, Bool(true).IsFalsey())
	assert.False(t, Number(0).IsFalsey())
	assert.False(t, Number(1).IsFalsey())
}

func TestEqualAcrossTypes(t *testing.T) {
	assert.False(t, Nil.Equal(Bool(false)))
	assert.False(t, Number(0).Equal(Bool(false)))
	assert.True(t, Nil.Equal(Nil))
}

func TestEqualNumbers(t *testing.T) {
	assert.True(t, Number(1).Equal(Number(1)))
	assert.False(t, Number(1).Equal(Number(2)))
}

func TestNaNNeverEqual(t *testing.T) {
	nan := Number(math.NaN())
	assert.False(t, nan.Equal(nan))
}

func TestEqualBool(t *testing.T) {
	assert.True(t, Bool(true).Equal(Bool(true)))
	assert.False(t, Bool(true).Equal(Bool(false)))
}
