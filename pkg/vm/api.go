package vm

import "github.com/kristofer/clox/pkg/value"

// StackTop returns the value on top of the operand stack, mainly useful
// from tests that run a short script and check the value it left behind.
func (vm *VM) StackTop() value.Value {
	if vm.stackTop == 0 {
		return value.Nil
	}
	return vm.stack[vm.stackTop-1]
}

// GetGlobal looks up a global variable by name, for tests asserting on
// top-level state after a script runs.
func (vm *VM) GetGlobal(name string) (value.Value, bool) {
	return vm.globals.Get(vm.gc.InternString(name))
}
