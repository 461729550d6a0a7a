package engine_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kristofer/clox/pkg/engine"
)

func run(t *testing.T, source string) (stdout, stderr string, result engine.Result) {
	t.Helper()
	var out, errBuf bytes.Buffer
	eng := engine.New(&out, &errBuf, strings.NewReader(""))
	result = eng.Run(source, &errBuf)
	return out.String(), errBuf.String(), result
}

func TestRunPrintsArithmetic(t *testing.T) {
	out, errOut, result := run(t, `print 1 + 2 * 3;`)
	assert.Equal(t, engine.ResultOK, result)
	assert.Equal(t, "7\n", out)
	assert.Empty(t, errOut)
}

func TestRunClosureCountersAreIndependent(t *testing.T) {
	src := `
fun makeCounter() {
  var i = 0;
  fun count() {
    i = i + 1;
    return i;
  }
  return count;
}
var a = makeCounter();
var b = makeCounter();
print a();
print a();
print b();
`
	out, errOut, result := run(t, src)
	assert.Equal(t, engine.ResultOK, result)
	assert.Equal(t, "1\n2\n1\n", out)
	assert.Empty(t, errOut)
}

func TestRunClassesInheritanceAndSuper(t *testing.T) {
	src := `
class Animal {
  speak() {
    return "...";
  }
}
class Dog < Animal {
  speak() {
    return "Woof says " + super.speak();
  }
}
var d = Dog();
print d.speak();
`
	out, errOut, result := run(t, src)
	assert.Equal(t, engine.ResultOK, result)
	assert.Equal(t, "Woof says ...\n", out)
	assert.Empty(t, errOut)
}

func TestRunReportsCompileError(t *testing.T) {
	_, errOut, result := run(t, `print ;`)
	assert.Equal(t, engine.ResultCompileError, result)
	assert.Contains(t, errOut, "[line 1] Error")
}

func TestRunReportsRuntimeError(t *testing.T) {
	_, errOut, result := run(t, `print undefinedThing;`)
	assert.Equal(t, engine.ResultRuntimeError, result)
	assert.Contains(t, errOut, "Undefined variable")
}

func TestRunPersistsGlobalsAcrossCallsOnSameEngine(t *testing.T) {
	var out, errBuf bytes.Buffer
	eng := engine.New(&out, &errBuf, strings.NewReader(""))

	assert.Equal(t, engine.ResultOK, eng.Run(`var counter = 0;`, &errBuf))
	assert.Equal(t, engine.ResultOK, eng.Run(`counter = counter + 1;`, &errBuf))
	assert.Equal(t, engine.ResultOK, eng.Run(`print counter;`, &errBuf))
	assert.Equal(t, "1\n", out.String())
}

func TestDisassembleWithoutRunning(t *testing.T) {
	var out, errBuf bytes.Buffer
	eng := engine.New(&out, &errBuf, strings.NewReader(""))

	ok := eng.Disassemble(`print 1 + 2;`, &errBuf, &out)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "OP_ADD")
	assert.Contains(t, out.String(), "<script>")
}

func TestDisassembleReportsCompileError(t *testing.T) {
	var out, errBuf bytes.Buffer
	eng := engine.New(&out, &errBuf, strings.NewReader(""))

	ok := eng.Disassemble(`fun () {}`, &errBuf, &out)
	assert.False(t, ok)
	assert.NotEmpty(t, errBuf.String())
}
