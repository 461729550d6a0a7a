package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kristofer/clox/pkg/compiler"
	"github.com/kristofer/clox/pkg/object"
	"github.com/kristofer/clox/pkg/vm"
)

// interpret compiles and runs source against a fresh VM/heap, returning
// stdout, stderr, and the interpretation result.
func interpret(t *testing.T, source string) (stdout, stderr string, result vm.InterpretResult) {
	t.Helper()
	gc := object.NewGC()
	var compileErr bytes.Buffer
	fn, ok := compiler.Compile(source, gc, &compileErr)
	require.True(t, ok, "compile error: %s", compileErr.String())

	var out, errBuf bytes.Buffer
	machine := vm.New(gc, &out, &errBuf, strings.NewReader(""))
	res, _ := machine.Interpret(fn)
	return out.String(), errBuf.String(), res
}

func TestArithmeticPrecedence(t *testing.T) {
	out, _, res := interpret(t, `print 2 + 3 * 4;`)
	assert.Equal(t, vm.InterpretOK, res)
	assert.Equal(t, "14\n", out)
}

func TestArithmeticPrecedenceWithGrouping(t *testing.T) {
	out, _, res := interpret(t, `print (2 + 3) * 4;`)
	assert.Equal(t, vm.InterpretOK, res)
	assert.Equal(t, "20\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out, _, res := interpret(t, `print "foo" + "bar";`)
	assert.Equal(t, vm.InterpretOK, res)
	assert.Equal(t, "foobar\n", out)
}

func TestIfElseBranching(t *testing.T) {
	out, _, res := interpret(t, `
if (1 < 2) { print "yes"; } else { print "no"; }
`)
	assert.Equal(t, vm.InterpretOK, res)
	assert.Equal(t, "yes\n", out)
}

func TestWhileLoop(t *testing.T) {
	out, _, res := interpret(t, `
var i = 0;
var sum = 0;
while (i < 5) {
  sum = sum + i;
  i = i + 1;
}
print sum;
`)
	assert.Equal(t, vm.InterpretOK, res)
	assert.Equal(t, "10\n", out)
}

func TestForLoopWithBreakAndContinue(t *testing.T) {
	out, _, res := interpret(t, `
var sum = 0;
for (var i = 0; i < 10; i = i + 1) {
  if (i == 5) break;
  if (i == 2) continue;
  sum = sum + i;
}
print sum;
`)
	assert.Equal(t, vm.InterpretOK, res)
	assert.Equal(t, "8\n", out) // 0+1+3+4
}

func TestFunctionCallAndReturn(t *testing.T) {
	out, _, res := interpret(t, `
fun add(a, b) {
  return a + b;
}
print add(3, 4);
`)
	assert.Equal(t, vm.InterpretOK, res)
	assert.Equal(t, "7\n", out)
}

func TestRecursiveFibonacci(t *testing.T) {
	out, _, res := interpret(t, `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(10);
`)
	assert.Equal(t, vm.InterpretOK, res)
	assert.Equal(t, "55\n", out)
}

func TestClosureCapturesByReference(t *testing.T) {
	out, _, res := interpret(t, `
fun makeAdder(x) {
  fun adder(y) {
    return x + y;
  }
  return adder;
}
var add5 = makeAdder(5);
print add5(3);
print add5(10);
`)
	assert.Equal(t, vm.InterpretOK, res)
	assert.Equal(t, "8\n15\n", out)
}

func TestClassFieldsAndMethods(t *testing.T) {
	out, _, res := interpret(t, `
class Counter {
  init() {
    this.count = 0;
  }
  increment() {
    this.count = this.count + 1;
    return this.count;
  }
}
var c = Counter();
print c.increment();
print c.increment();
`)
	assert.Equal(t, vm.InterpretOK, res)
	assert.Equal(t, "1\n2\n", out)
}

func TestInheritanceAndSuperInvoke(t *testing.T) {
	out, _, res := interpret(t, `
class Base {
  greet() {
    return "base";
  }
}
class Derived < Base {
  greet() {
    return super.greet() + "+derived";
  }
}
print Derived().greet();
`)
	assert.Equal(t, vm.InterpretOK, res)
	assert.Equal(t, "base+derived\n", out)
}

func TestRuntimeErrorOnUndefinedGlobal(t *testing.T) {
	_, errOut, res := interpret(t, `print nope;`)
	assert.Equal(t, vm.InterpretRuntimeError, res)
	assert.Contains(t, errOut, "Undefined variable 'nope'")
}

func TestRuntimeErrorOnTypeMismatch(t *testing.T) {
	_, errOut, res := interpret(t, `print "a" - 1;`)
	assert.Equal(t, vm.InterpretRuntimeError, res)
	assert.Contains(t, errOut, "Operands must be numbers")
}

func TestRuntimeErrorIncludesCallStackTrace(t *testing.T) {
	_, errOut, res := interpret(t, `
fun a() { b(); }
fun b() { c(); }
fun c() { return 1 + "x"; }
a();
`)
	assert.Equal(t, vm.InterpretRuntimeError, res)
	assert.Contains(t, errOut, "[line")
	assert.Contains(t, errOut, "a()")
	assert.Contains(t, errOut, "b()")
	assert.Contains(t, errOut, "c()")
}

func TestStackOverflowOnUnboundedRecursion(t *testing.T) {
	_, errOut, res := interpret(t, `
fun recurse() {
  return recurse();
}
recurse();
`)
	assert.Equal(t, vm.InterpretRuntimeError, res)
	assert.Contains(t, errOut, "Stack overflow")
}

func TestCallingNonCallableIsRuntimeError(t *testing.T) {
	_, errOut, res := interpret(t, `
var x = 1;
x();
`)
	assert.Equal(t, vm.InterpretRuntimeError, res)
	assert.Contains(t, errOut, "Can only call functions and classes")
}

func TestWrongArityIsRuntimeError(t *testing.T) {
	_, errOut, res := interpret(t, `
fun f(a, b) { return a + b; }
f(1);
`)
	assert.Equal(t, vm.InterpretRuntimeError, res)
	assert.Contains(t, errOut, "Expected 2 arguments but got 1")
}

func TestNativeClockReturnsNumber(t *testing.T) {
	out, _, res := interpret(t, `
var t = clock();
print t >= 0;
`)
	assert.Equal(t, vm.InterpretOK, res)
	assert.Equal(t, "true\n", out)
}
