package compiler_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kristofer/clox/pkg/bytecode"
	"github.com/kristofer/clox/pkg/compiler"
	"github.com/kristofer/clox/pkg/object"
)

func compile(t *testing.T, source string) (*object.ObjFunction, string, bool) {
	t.Helper()
	gc := object.NewGC()
	var errOut bytes.Buffer
	fn, ok := compiler.Compile(source, gc, &errOut)
	return fn, errOut.String(), ok
}

func TestCompileSimpleExpressionStatement(t *testing.T) {
	fn, errOut, ok := compile(t, `1 + 2;`)
	require.True(t, ok)
	assert.Empty(t, errOut)
	assert.Nil(t, fn.Name, "the implicit top-level function is unnamed")
	assert.Contains(t, fn.Chunk.Code, byte(bytecode.OpAdd))
	assert.Contains(t, fn.Chunk.Code, byte(bytecode.OpPop))
}

func TestCompileReportsUnterminatedStringError(t *testing.T) {
	_, errOut, ok := compile(t, `print "unterminated;`)
	assert.False(t, ok)
	assert.Contains(t, errOut, "[line 1] Error")
}

func TestCompileReportsMissingSemicolon(t *testing.T) {
	_, errOut, ok := compile(t, `var a = 1`)
	assert.False(t, ok)
	assert.Contains(t, errOut, "Expect ';'")
}

func TestCompileBreakOutsideLoopIsAnError(t *testing.T) {
	_, errOut, ok := compile(t, `break;`)
	assert.False(t, ok)
	assert.Contains(t, errOut, "'break' outside of a loop")
}

func TestCompileContinueOutsideLoopIsAnError(t *testing.T) {
	_, errOut, ok := compile(t, `continue;`)
	assert.False(t, ok)
	assert.Contains(t, errOut, "'continue' outside of a loop")
}

func TestCompileReturnOutsideFunctionIsAnError(t *testing.T) {
	_, errOut, ok := compile(t, `return 1;`)
	assert.False(t, ok)
	assert.Contains(t, errOut, "Can't return from top-level code")
}

func TestCompileReturnValueFromInitializerIsAnError(t *testing.T) {
	src := `
class Foo {
  init() {
    return 1;
  }
}
`
	_, errOut, ok := compile(t, src)
	assert.False(t, ok)
	assert.Contains(t, errOut, "Can't return a value from an initializer")
}

func TestCompileThisOutsideClassIsAnError(t *testing.T) {
	_, errOut, ok := compile(t, `print this;`)
	assert.False(t, ok)
	assert.Contains(t, errOut, "Can't use 'this' outside of a class")
}

func TestCompileSuperOutsideClassIsAnError(t *testing.T) {
	_, errOut, ok := compile(t, `print super.foo;`)
	assert.False(t, ok)
	assert.Contains(t, errOut, "Can't use 'super' outside of a class")
}

func TestCompileClassInheritingFromItselfIsAnError(t *testing.T) {
	_, errOut, ok := compile(t, `class Oops < Oops {}`)
	assert.False(t, ok)
	assert.Contains(t, errOut, "A class can't inherit from itself")
}

func TestCompileTooManyParametersIsAnError(t *testing.T) {
	var params []string
	for i := 0; i < 256; i++ {
		params = append(params, fmt.Sprintf("p%d", i))
	}
	src := "fun f(" + strings.Join(params, ", ") + ") {}"
	_, errOut, ok := compile(t, src)
	assert.False(t, ok)
	assert.Contains(t, errOut, "Can't have more than 255 parameters")
}

func TestCompileTooManyArgumentsIsAnError(t *testing.T) {
	var args []string
	for i := 0; i < 256; i++ {
		args = append(args, "1")
	}
	src := "f(" + strings.Join(args, ", ") + ");"
	_, errOut, ok := compile(t, src)
	assert.False(t, ok)
	assert.Contains(t, errOut, "Can't have more than 255 arguments")
}

func TestCompileClosureCapturesUpvalue(t *testing.T) {
	src := `
fun outer() {
  var x = 1;
  fun inner() {
    return x;
  }
  return inner;
}
`
	fn, errOut, ok := compile(t, src)
	require.True(t, ok)
	assert.Empty(t, errOut)
	assert.Contains(t, fn.Chunk.Code, byte(bytecode.OpClosure))

	var inner *object.ObjFunction
	for _, c := range fn.Chunk.Constants {
		if outer, ok := c.AsObj().(*object.ObjFunction); ok {
			for _, oc := range outer.Chunk.Constants {
				if f, ok := oc.AsObj().(*object.ObjFunction); ok {
					inner = f
				}
			}
		}
	}
	require.NotNil(t, inner)
	assert.Equal(t, 1, inner.UpvalueCount(), "inner captures outer's local x")
}

func TestCompileOneSyntaxErrorDoesNotCascade(t *testing.T) {
	src := `
var a = ;
var b = 2;
var c = ;
`
	_, errOut, ok := compile(t, src)
	assert.False(t, ok)
	lines := strings.Count(errOut, "[line")
	assert.Equal(t, 2, lines, "synchronize should recover after each bad declaration: %q", errOut)
}
