package vm

import "github.com/kristofer/clox/pkg/object"
import "github.com/kristofer/clox/pkg/value"

// call checks argCount against closure's arity and then pushes a new
// CallFrame for it. Returns false (after recording a runtime error) on
// arity mismatch or call-frame overflow.
func (vm *VM) call(closure *object.ObjClosure, argCount int) bool {
	if argCount != closure.Function.Arity {
		vm.runtimeError("Expected %d arguments but got %d.", closure.Function.Arity, argCount)
		return false
	}
	if vm.frameCount == FramesMax {
		vm.runtimeError("Stack overflow.")
		return false
	}

	frame := &vm.frames[vm.frameCount]
	vm.frameCount++
	frame.closure = closure
	frame.ip = 0
	frame.slots = vm.stackTop - argCount - 1
	return true
}

// callValue dispatches OP_CALL's callee, which may be a closure, a class
// (instantiation), a bound method, or a native — every other value kind is
// a runtime type error.
func (vm *VM) callValue(callee value.Value, argCount int) bool {
	if callee.IsObj() {
		switch o := callee.AsObj().(type) {
		case *object.ObjBoundMethod:
			vm.stack[vm.stackTop-argCount-1] = o.Receiver
			return vm.call(o.Method, argCount)
		case *object.ObjClass:
			instance := vm.gc.NewInstance(o)
			vm.stack[vm.stackTop-argCount-1] = value.FromObj(instance)
			if initializer, ok := o.Methods.Get(vm.gc.InitString()); ok {
				return vm.call(initializer.AsObj().(*object.ObjClosure), argCount)
			} else if argCount != 0 {
				vm.runtimeError("Expected 0 arguments but got %d.", argCount)
				return false
			}
			return true
		case *object.ObjClosure:
			return vm.call(o, argCount)
		case *object.ObjNative:
			args := make([]value.Value, argCount)
			copy(args, vm.stack[vm.stackTop-argCount:vm.stackTop])
			result, err := o.Function(args)
			if err != nil {
				vm.runtimeError("%s", err.Error())
				return false
			}
			vm.stackTop -= argCount + 1
			vm.push(result)
			return true
		}
	}
	vm.runtimeError("Can only call functions and classes.")
	return false
}

// invoke compiles OP_INVOKE's fast path: `receiver.name(args)` without
// first materializing a bound method, skipping straight to the class's
// method table unless a same-named field shadows it (a field holding a
// closure is itself callable, matching Lox's "fields shadow methods" rule).
func (vm *VM) invoke(name *object.ObjString, argCount int) bool {
	receiver := vm.peek(argCount)
	if !receiver.IsObj() {
		vm.runtimeError("Only instances have methods.")
		return false
	}
	instance, ok := receiver.AsObj().(*object.ObjInstance)
	if !ok {
		vm.runtimeError("Only instances have methods.")
		return false
	}

	if field, ok := instance.Fields.Get(name); ok {
		vm.stack[vm.stackTop-argCount-1] = field
		return vm.callValue(field, argCount)
	}

	return vm.invokeFromClass(instance.Class, name, argCount)
}

func (vm *VM) invokeFromClass(class *object.ObjClass, name *object.ObjString, argCount int) bool {
	method, ok := class.Methods.Get(name)
	if !ok {
		vm.runtimeError("Undefined property '%s'.", name.Chars)
		return false
	}
	return vm.call(method.AsObj().(*object.ObjClosure), argCount)
}

// bindMethod looks up name on class, wraps it with the value on top of the
// stack as receiver, and replaces that value with the bound method.
func (vm *VM) bindMethod(class *object.ObjClass, name *object.ObjString) bool {
	method, ok := class.Methods.Get(name)
	if !ok {
		vm.runtimeError("Undefined property '%s'.", name.Chars)
		return false
	}
	bound := vm.gc.NewBoundMethod(vm.peek(0), method.AsObj().(*object.ObjClosure))
	vm.pop()
	vm.push(value.FromObj(bound))
	return true
}

// captureUpvalue returns the existing open upvalue for the absolute stack
// slot index, or creates one, keeping the VM's open-upvalue list sorted by
// descending slot so closeUpvalues can stop at the first index below its
// threshold.
func (vm *VM) captureUpvalue(index int) *object.ObjUpvalue {
	var prev *object.ObjUpvalue
	cur := vm.openUpvalues
	for cur != nil && cur.StackIndex > index {
		prev = cur
		cur = cur.Next
	}
	if cur != nil && cur.StackIndex == index {
		return cur
	}

	created := vm.gc.NewUpvalue(&vm.stack[index], index)
	created.Next = cur
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}
	return created
}

// closeUpvalues closes every open upvalue at or above the absolute stack
// slot `from`, copying each captured value into the upvalue itself before
// the stack slots it pointed at are reused or discarded.
func (vm *VM) closeUpvalues(from int) {
	for vm.openUpvalues != nil && vm.openUpvalues.StackIndex >= from {
		u := vm.openUpvalues
		u.Close()
		vm.openUpvalues = u.Next
	}
}
