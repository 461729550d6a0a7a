package vm

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/kristofer/clox/pkg/value"
)

// defineNatives registers the closed native-function surface: clock, exit,
// getc, chr, ord, print_error, plus a predeclared empty Object class every
// script can see globally from its first line, registered once at VM
// startup rather than requiring a script to declare it.
func (vm *VM) defineNatives() {
	vm.defineNative("clock", vm.nativeClock)
	vm.defineNative("exit", vm.nativeExit)
	vm.defineNative("getc", vm.nativeGetc)
	vm.defineNative("chr", vm.nativeChr)
	vm.defineNative("ord", vm.nativeOrd)
	vm.defineNative("print_error", vm.nativePrintError)
	vm.defineObjectClass()
}

func (vm *VM) defineObjectClass() {
	name := vm.gc.InternString("Object")
	class := vm.gc.NewClass(name)
	vm.globals.Set(name, value.FromObj(class))
}

func (vm *VM) defineNative(name string, fn func(args []value.Value) (value.Value, error)) {
	nameObj := vm.gc.InternString(name)
	native := vm.gc.NewNative(name, fn)
	vm.globals.Set(nameObj, value.FromObj(native))
}

// clock() -> seconds elapsed since this VM started, for benchmarking
// scripts, matching the original tree-walker's clock()/CLOCKS_PER_SEC
// (elapsed-since-start, not an epoch timestamp).
func (vm *VM) nativeClock(args []value.Value) (value.Value, error) {
	return value.Number(time.Since(vm.startTime).Seconds()), nil
}

// exit(code) terminates the host process immediately — the one native
// that can end execution short of falling off the end of the script.
func (vm *VM) nativeExit(args []value.Value) (value.Value, error) {
	code := 0
	if len(args) == 1 && args[0].IsNumber() {
		code = int(args[0].AsNumber())
	}
	os.Exit(code)
	return value.Nil, nil
}

// getc() reads one byte from the VM's stdin, returning its numeric value,
// or -1 at end of input.
func (vm *VM) nativeGetc(args []value.Value) (value.Value, error) {
	reader, ok := vm.stdin.(interface{ ReadByte() (byte, error) })
	var b byte
	var err error
	if ok {
		b, err = reader.ReadByte()
	} else {
		b, err = bufio.NewReader(vm.stdin).ReadByte()
	}
	if err != nil {
		return value.Number(-1), nil
	}
	return value.Number(float64(b)), nil
}

// chr(code) converts a numeric character code to a one-character string.
func (vm *VM) nativeChr(args []value.Value) (value.Value, error) {
	if len(args) != 1 || !args[0].IsNumber() {
		return value.Nil, fmt.Errorf("chr() expects a single number argument")
	}
	r := rune(int(args[0].AsNumber()))
	return value.FromObj(vm.gc.InternString(string(r))), nil
}

// ord(s) converts a single-character string to its numeric character code.
func (vm *VM) nativeOrd(args []value.Value) (value.Value, error) {
	if len(args) != 1 || !isString(args[0]) {
		return value.Nil, fmt.Errorf("ord() expects a single string argument")
	}
	s := args[0].String()
	runes := []rune(s)
	if len(runes) != 1 {
		return value.Nil, fmt.Errorf("ord() expects a single-character string")
	}
	return value.Number(float64(runes[0])), nil
}

// print_error(message) writes message to the VM's stderr sink, for scripts
// that want to report a problem without it being mistaken for ordinary
// `print` output.
func (vm *VM) nativePrintError(args []value.Value) (value.Value, error) {
	for _, a := range args {
		fmt.Fprint(vm.stderr, a.String())
	}
	fmt.Fprintln(vm.stderr)
	return value.Nil, nil
}
