package vm

import (
	"github.com/kristofer/clox/pkg/bytecode"
	"github.com/kristofer/clox/pkg/object"
	"github.com/kristofer/clox/pkg/value"
)

func (vm *VM) readByte(frame *CallFrame) byte {
	b := frame.closure.Function.Chunk.Code[frame.ip]
	frame.ip++
	return b
}

func (vm *VM) readUint16(frame *CallFrame) uint16 {
	hi := vm.readByte(frame)
	lo := vm.readByte(frame)
	return uint16(hi)<<8 | uint16(lo)
}

func (vm *VM) readConstant(frame *CallFrame) value.Value {
	idx := vm.readUint16(frame)
	return frame.closure.Function.Chunk.Constants[idx]
}

func (vm *VM) readString(frame *CallFrame) *object.ObjString {
	return vm.readConstant(frame).AsObj().(*object.ObjString)
}

// run is the fetch-decode-execute loop: it fetches the current frame's next
// opcode, dispatches on it, and repeats until an OP_RETURN unwinds the
// outermost frame or a runtime error resets the stack.
func (vm *VM) run() (InterpretResult, error) {
	frame := vm.currentFrame()

	for {
		if vm.gc.ShouldCollect() {
			vm.collectGarbage()
		}

		if vm.traceLog != nil {
			vm.traceLog("%s", vm.traceInstruction(frame))
		}

		op := bytecode.OpCode(vm.readByte(frame))
		switch op {
		case bytecode.OpConstant:
			vm.push(vm.readConstant(frame))

		case bytecode.OpNil:
			vm.push(value.Nil)
		case bytecode.OpTrue:
			vm.push(value.Bool(true))
		case bytecode.OpFalse:
			vm.push(value.Bool(false))

		case bytecode.OpPop:
			vm.pop()

		case bytecode.OpGetLocal:
			slot := vm.readByte(frame)
			vm.push(vm.stack[frame.slots+int(slot)])
		case bytecode.OpSetLocal:
			slot := vm.readByte(frame)
			vm.stack[frame.slots+int(slot)] = vm.peek(0)

		case bytecode.OpGetGlobal:
			name := vm.readString(frame)
			v, ok := vm.globals.Get(name)
			if !ok {
				vm.runtimeError("Undefined variable '%s'.", name.Chars)
				return InterpretRuntimeError, vm.lastErr
			}
			vm.push(v)
		case bytecode.OpDefineGlobal:
			name := vm.readString(frame)
			vm.globals.Set(name, vm.peek(0))
			vm.pop()
		case bytecode.OpSetGlobal:
			name := vm.readString(frame)
			if vm.globals.Set(name, vm.peek(0)) {
				vm.globals.Delete(name)
				vm.runtimeError("Undefined variable '%s'.", name.Chars)
				return InterpretRuntimeError, vm.lastErr
			}

		case bytecode.OpGetUpvalue:
			slot := vm.readByte(frame)
			vm.push(*frame.closure.Upvalues[slot].Location)
		case bytecode.OpSetUpvalue:
			slot := vm.readByte(frame)
			*frame.closure.Upvalues[slot].Location = vm.peek(0)

		case bytecode.OpGetProperty:
			if !vm.peek(0).IsObj() {
				vm.runtimeError("Only instances have properties.")
				return InterpretRuntimeError, vm.lastErr
			}
			instance, ok := vm.peek(0).AsObj().(*object.ObjInstance)
			if !ok {
				vm.runtimeError("Only instances have properties.")
				return InterpretRuntimeError, vm.lastErr
			}
			name := vm.readString(frame)
			if v, ok := instance.Fields.Get(name); ok {
				vm.pop()
				vm.push(v)
				break
			}
			if !vm.bindMethod(instance.Class, name) {
				return InterpretRuntimeError, vm.lastErr
			}
		case bytecode.OpSetProperty:
			if !vm.peek(1).IsObj() {
				vm.runtimeError("Only instances have fields.")
				return InterpretRuntimeError, vm.lastErr
			}
			instance, ok := vm.peek(1).AsObj().(*object.ObjInstance)
			if !ok {
				vm.runtimeError("Only instances have fields.")
				return InterpretRuntimeError, vm.lastErr
			}
			name := vm.readString(frame)
			instance.Fields.Set(name, vm.peek(0))
			v := vm.pop()
			vm.pop()
			vm.push(v)
		case bytecode.OpGetSuper:
			name := vm.readString(frame)
			superclass := vm.pop().AsObj().(*object.ObjClass)
			if !vm.bindMethod(superclass, name) {
				return InterpretRuntimeError, vm.lastErr
			}

		case bytecode.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(a.Equal(b)))
		case bytecode.OpGreater:
			if !vm.binaryNumberOp(func(a, b float64) value.Value { return value.Bool(a > b) }) {
				return InterpretRuntimeError, vm.lastErr
			}
		case bytecode.OpLess:
			if !vm.binaryNumberOp(func(a, b float64) value.Value { return value.Bool(a < b) }) {
				return InterpretRuntimeError, vm.lastErr
			}

		case bytecode.OpAdd:
			if !vm.add() {
				return InterpretRuntimeError, vm.lastErr
			}
		case bytecode.OpSubtract:
			if !vm.binaryNumberOp(func(a, b float64) value.Value { return value.Number(a - b) }) {
				return InterpretRuntimeError, vm.lastErr
			}
		case bytecode.OpMultiply:
			if !vm.binaryNumberOp(func(a, b float64) value.Value { return value.Number(a * b) }) {
				return InterpretRuntimeError, vm.lastErr
			}
		case bytecode.OpDivide:
			if !vm.binaryNumberOp(func(a, b float64) value.Value { return value.Number(a / b) }) {
				return InterpretRuntimeError, vm.lastErr
			}

		case bytecode.OpNot:
			vm.push(value.Bool(vm.pop().IsFalsey()))
		case bytecode.OpNegate:
			if !vm.peek(0).IsNumber() {
				vm.runtimeError("Operand must be a number.")
				return InterpretRuntimeError, vm.lastErr
			}
			vm.push(value.Number(-vm.pop().AsNumber()))

		case bytecode.OpPrint:
			v := vm.pop()
			vm.stdout.Write([]byte(v.String()))
			vm.stdout.Write([]byte("\n"))

		case bytecode.OpJump:
			offset := vm.readUint16(frame)
			frame.ip += int(offset)
		case bytecode.OpJumpIfFalse:
			offset := vm.readUint16(frame)
			if vm.peek(0).IsFalsey() {
				frame.ip += int(offset)
			}
		case bytecode.OpLoop:
			offset := vm.readUint16(frame)
			frame.ip -= int(offset)

		case bytecode.OpCall:
			argCount := int(vm.readByte(frame))
			if !vm.callValue(vm.peek(argCount), argCount) {
				return InterpretRuntimeError, vm.lastErr
			}
			frame = vm.currentFrame()
		case bytecode.OpInvoke:
			method := vm.readString(frame)
			argCount := int(vm.readByte(frame))
			if !vm.invoke(method, argCount) {
				return InterpretRuntimeError, vm.lastErr
			}
			frame = vm.currentFrame()
		case bytecode.OpSuperInvoke:
			method := vm.readString(frame)
			argCount := int(vm.readByte(frame))
			superclass := vm.pop().AsObj().(*object.ObjClass)
			if !vm.invokeFromClass(superclass, method, argCount) {
				return InterpretRuntimeError, vm.lastErr
			}
			frame = vm.currentFrame()

		case bytecode.OpClosure:
			fn := vm.readConstant(frame).AsObj().(*object.ObjFunction)
			closure := vm.gc.NewClosure(fn)
			vm.push(value.FromObj(closure))
			for i := range closure.Upvalues {
				isLocal := vm.readByte(frame)
				index := vm.readByte(frame)
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(frame.slots + int(index))
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}
		case bytecode.OpCloseUpvalue:
			vm.closeUpvalues(vm.stackTop - 1)
			vm.pop()

		case bytecode.OpReturn:
			result := vm.pop()
			vm.closeUpvalues(frame.slots)
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop()
				return InterpretOK, nil
			}
			vm.stackTop = frame.slots
			vm.push(result)
			frame = vm.currentFrame()

		case bytecode.OpClass:
			name := vm.readString(frame)
			vm.push(value.FromObj(vm.gc.NewClass(name)))
		case bytecode.OpInherit:
			superVal := vm.peek(1)
			superclass, ok := superVal.AsObj().(*object.ObjClass)
			if !ok {
				vm.runtimeError("Superclass must be a class.")
				return InterpretRuntimeError, vm.lastErr
			}
			subclass := vm.peek(0).AsObj().(*object.ObjClass)
			subclass.Methods.AddAll(superclass.Methods)
			vm.pop() // the subclass; the superclass stays for the enclosing scope/local
		case bytecode.OpMethod:
			name := vm.readString(frame)
			vm.defineMethod(name)

		default:
			vm.runtimeError("Unknown opcode %d.", op)
			return InterpretRuntimeError, vm.lastErr
		}
	}
}

func (vm *VM) binaryNumberOp(op func(a, b float64) value.Value) bool {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		vm.runtimeError("Operands must be numbers.")
		return false
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	vm.push(op(a, b))
	return true
}

// add implements `+`, which overloads number addition and string
// concatenation — the one binary operator in clox with more than one valid
// operand-type pairing.
func (vm *VM) add() bool {
	switch {
	case vm.peek(0).IsNumber() && vm.peek(1).IsNumber():
		b := vm.pop().AsNumber()
		a := vm.pop().AsNumber()
		vm.push(value.Number(a + b))
		return true
	case isString(vm.peek(0)) && isString(vm.peek(1)):
		b := vm.pop().AsObj().(*object.ObjString)
		a := vm.pop().AsObj().(*object.ObjString)
		vm.push(value.FromObj(vm.gc.InternString(a.Chars + b.Chars)))
		return true
	default:
		vm.runtimeError("Operands must be two numbers or two strings.")
		return false
	}
}

func isString(v value.Value) bool {
	if !v.IsObj() {
		return false
	}
	_, ok := v.AsObj().(*object.ObjString)
	return ok
}

func (vm *VM) defineMethod(name *object.ObjString) {
	method := vm.peek(0)
	class := vm.peek(1).AsObj().(*object.ObjClass)
	class.Methods.Set(name, method)
	vm.pop()
}

// collectGarbage runs a GC cycle rooted in everything this VM could still
// reach: every live stack slot, every call frame's closure, every open
// upvalue, and the globals table.
func (vm *VM) collectGarbage() {
	vm.gc.CollectGarbage(func(gc *object.GC) {
		for i := 0; i < vm.stackTop; i++ {
			gc.MarkValue(vm.stack[i])
		}
		for i := 0; i < vm.frameCount; i++ {
			gc.MarkObject(vm.frames[i].closure)
		}
		for u := vm.openUpvalues; u != nil; u = u.Next {
			gc.MarkObject(u)
		}
		for _, k := range vm.globals.Keys() {
			gc.MarkObject(k)
			if v, ok := vm.globals.Get(k); ok {
				gc.MarkValue(v)
			}
		}
	})
}
