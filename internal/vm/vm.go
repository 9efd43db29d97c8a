// Package vm is the bytecode interpreter (spec.md §4.9): a
// single-threaded stack machine that executes a bytecode.Program and
// returns its terminal value. Grounded structurally on
// funvibe-funxy's internal/vm (stack-growth constants, CallFrame
// shape, sentinel runtime errors), narrowed to this spec's
// single-entry-function program model — there is no call opcode, so
// the VM only ever runs one frame.
package vm

import (
	"errors"
	"fmt"

	"github.com/oaflang/oaf/internal/bytecode"
	"github.com/oaflang/oaf/internal/ir"
)

var errStackOverflow = errors.New("stack overflow")

const (
	InitialStackSize     = 256
	StackGrowthIncrement = 256
	MaxStackSize         = 1024 * 1024
)

// frame is the single call frame this VM ever runs (spec.md §4.9
// describes "a frame stack" for generality; this release's bytecode
// has no call opcode, so there is exactly one).
type frame struct {
	chunk  *bytecode.Program
	ip     int
	locals []Value
}

// VM executes a single bytecode.Program to completion.
type VM struct {
	stack []Value
	sp    int
	frame *frame
}

// New returns a VM with a freshly allocated operand stack.
func New() *VM {
	return &VM{stack: make([]Value, InitialStackSize)}
}

// Run executes prog from its entry point and returns the program's
// terminal value (spec.md §4.9): the value passed to OpReturnValue,
// or the unit value if execution halts via OpReturn. A runtime error
// (division by zero, modulo by zero) aborts execution and is returned
// as err with no usable value.
func (vm *VM) Run(prog *bytecode.Program) (result Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.Is(e, errStackOverflow) {
				err = e
				return
			}
			panic(r)
		}
	}()

	vm.sp = 0
	vm.frame = &frame{
		chunk:  prog,
		locals: make([]Value, prog.NumLocals),
	}

	return vm.run()
}

func (vm *VM) push(v Value) {
	if vm.sp >= len(vm.stack) {
		if vm.sp >= MaxStackSize {
			panic(errStackOverflow)
		}
		grown := make([]Value, len(vm.stack)+StackGrowthIncrement)
		copy(grown, vm.stack)
		vm.stack = grown
	}
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() Value {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) run() (Value, error) {
	f := vm.frame
	code := f.chunk.Code

	for f.ip < len(code) {
		op := bytecode.Opcode(code[f.ip])
		f.ip++

		switch op {
		case bytecode.OpConst:
			idx := vm.readU16()
			vm.push(constantValue(f.chunk.Constants[idx]))

		case bytecode.OpLoadLocal:
			slot := vm.readU16()
			vm.push(f.locals[slot])

		case bytecode.OpStoreLocal:
			slot := vm.readU16()
			f.locals[slot] = vm.pop()

		case bytecode.OpNeg, bytecode.OpNot, bytecode.OpBitNot:
			if err := vm.unaryOp(op); err != nil {
				return Value{}, err
			}

		case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod,
			bytecode.OpBitAnd, bytecode.OpBitOr, bytecode.OpBitXor,
			bytecode.OpNand, bytecode.OpNor, bytecode.OpXnor,
			bytecode.OpShl, bytecode.OpShr, bytecode.OpUshl, bytecode.OpUshr,
			bytecode.OpEq, bytecode.OpNeq, bytecode.OpLt, bytecode.OpGt, bytecode.OpLte, bytecode.OpGte,
			bytecode.OpAnd, bytecode.OpOr:
			if err := vm.binaryOp(op); err != nil {
				return Value{}, err
			}

		case bytecode.OpCastIntToFloat, bytecode.OpCastFloatToInt, bytecode.OpCastIntToChar,
			bytecode.OpCastCharToInt, bytecode.OpCastFloatToChar, bytecode.OpCastCharToFloat:
			vm.castOp(op)

		case bytecode.OpJump:
			target := vm.readI32()
			f.ip = int(target)

		case bytecode.OpJumpIfFalse:
			target := vm.readI32()
			if !vm.pop().AsBool() {
				f.ip = int(target)
			}

		case bytecode.OpReturn:
			return UnitVal(), nil

		case bytecode.OpReturnValue:
			return vm.pop(), nil

		default:
			return Value{}, fmt.Errorf("unknown opcode %d at offset %d", op, f.ip-1)
		}
	}

	return UnitVal(), nil
}

func (vm *VM) readU16() int {
	f := vm.frame
	v := int(f.chunk.Code[f.ip])<<8 | int(f.chunk.Code[f.ip+1])
	f.ip += 2
	return v
}

func (vm *VM) readI32() int32 {
	f := vm.frame
	c := f.chunk.Code
	v := int32(c[f.ip])<<24 | int32(c[f.ip+1])<<16 | int32(c[f.ip+2])<<8 | int32(c[f.ip+3])
	f.ip += 4
	return v
}

func constantValue(c bytecode.Constant) Value {
	switch c.Kind {
	case ir.KInt:
		return IntVal(c.Int)
	case ir.KFloat:
		return FloatVal(c.Flt)
	case ir.KBool:
		return BoolVal(c.Bool)
	case ir.KChar:
		return CharVal(c.Chr)
	case ir.KString:
		return StringVal(c.Str)
	default:
		return UnitVal()
	}
}
