package vm

import (
	"fmt"

	"github.com/hydorlang/hydor/internal/config"
	"github.com/hydorlang/hydor/internal/token"
)

// stackValue is one operand stack slot: the value plus the source span
// it is blamed on in diagnostics.
type stackValue struct {
	value Value
	span  token.Span
}

// VM executes one bytecode chunk to completion. It owns the chunk for
// the duration of the run; the string table may grow from concatenation
// but Code and Constants are never mutated.
type VM struct {
	stack []stackValue
	sp    int // Stack pointer (points to next free slot)

	chunk *Chunk
	ip    int // Instruction pointer into chunk.Code

	maxStack int

	lastPop    Value
	hasLastPop bool
}

// New creates a VM for chunk with the default stack capacity.
func New(chunk *Chunk) *VM {
	return NewWithStackSize(chunk, config.MaxStack)
}

// NewWithStackSize creates a VM with an explicit stack capacity.
func NewWithStackSize(chunk *Chunk, maxStack int) *VM {
	if maxStack <= 0 {
		maxStack = config.MaxStack
	}
	return &VM{
		stack:    make([]stackValue, maxStack),
		chunk:    chunk,
		maxStack: maxStack,
	}
}

// Run executes the chunk until OP_HALT. The first runtime fault aborts
// execution immediately; there is no handler construct in this
// instruction set. A stream that ends without OP_HALT is a malformed
// artifact and reports an internal fault.
func (vm *VM) Run() error {
	code := vm.chunk.Code

	for vm.ip < len(code) {
		op := Opcode(code[vm.ip])
		span := vm.chunk.SpanAt(vm.ip)

		switch op {
		case OP_HALT:
			return nil

		case OP_POP:
			value, err := vm.pop()
			if err != nil {
				return err
			}
			vm.lastPop = value
			vm.hasLastPop = true

		case OP_CONST:
			if err := vm.loadConstant(span); err != nil {
				return err
			}

		case OP_STRING:
			if err := vm.loadString(span); err != nil {
				return err
			}

		case OP_NIL:
			if err := vm.push(NilVal(), span); err != nil {
				return err
			}

		case OP_TRUE:
			if err := vm.push(BoolVal(true), span); err != nil {
				return err
			}

		case OP_FALSE:
			if err := vm.push(BoolVal(false), span); err != nil {
				return err
			}

		case OP_ADD:
			if err := vm.binaryOpAdd(); err != nil {
				return err
			}

		case OP_SUB:
			if err := vm.binaryOpNumeric("subtraction", func(a, b float64) float64 { return a - b }); err != nil {
				return err
			}

		case OP_MUL:
			if err := vm.binaryOpNumeric("multiplication", func(a, b float64) float64 { return a * b }); err != nil {
				return err
			}

		case OP_DIV:
			if err := vm.binaryOpNumeric("division", func(a, b float64) float64 { return a / b }); err != nil {
				return err
			}

		case OP_POW:
			if err := vm.binaryOpNumeric("exponentiation", pow); err != nil {
				return err
			}

		case OP_NEG, OP_NOT:
			if err := vm.unaryOperation(op, span); err != nil {
				return err
			}

		case OP_LT, OP_LE, OP_GT, OP_GE, OP_EQ, OP_NE:
			if err := vm.compareOperation(op, span); err != nil {
				return err
			}

		default:
			return fmt.Errorf("unknown opcode %d at offset %d", byte(op), vm.ip)
		}

		vm.ip++ // Advance past the opcode tag
	}

	return errMissingHalt
}

// readUint16Operand reads the two operand bytes following the opcode at
// vm.ip and advances vm.ip past them.
func (vm *VM) readUint16Operand() (int, error) {
	if vm.ip+2 >= len(vm.chunk.Code) {
		return 0, errTruncatedBytecode
	}
	operand := int(ReadUint16(vm.chunk.Code, vm.ip+1))
	vm.ip += 2
	return operand, nil
}

func (vm *VM) loadConstant(span token.Span) error {
	index, err := vm.readUint16Operand()
	if err != nil {
		return err
	}
	if index >= len(vm.chunk.Constants) {
		return fmt.Errorf("%w: %d", errInvalidConstantIndex, index)
	}
	return vm.push(vm.chunk.Constants[index], span)
}

func (vm *VM) loadString(span token.Span) error {
	index, err := vm.readUint16Operand()
	if err != nil {
		return err
	}
	if index >= len(vm.chunk.Strings) {
		return fmt.Errorf("%w: %d", errInvalidStringIndex, index)
	}
	return vm.push(StringVal(index), span)
}

// Stack discipline

func (vm *VM) push(value Value, span token.Span) error {
	if vm.sp >= vm.maxStack {
		return &StackOverflowError{StackLength: vm.sp, Span: span}
	}
	vm.stack[vm.sp] = stackValue{value: value, span: span}
	vm.sp++
	return nil
}

func (vm *VM) pop() (Value, error) {
	if vm.sp == 0 {
		return NilVal(), &StackUnderflowError{StackLength: 0}
	}
	vm.sp--
	return vm.stack[vm.sp].value, nil
}

func (vm *VM) popWithSpan() (Value, token.Span, error) {
	if vm.sp == 0 {
		return NilVal(), token.Span{}, &StackUnderflowError{StackLength: 0}
	}
	vm.sp--
	sv := vm.stack[vm.sp]
	return sv.value, sv.span, nil
}

func (vm *VM) peekOffset(n int) (Value, error) {
	if n >= vm.sp {
		return NilVal(), &StackUnderflowError{StackLength: vm.sp}
	}
	return vm.stack[vm.sp-1-n].value, nil
}

func (vm *VM) peekSpan(n int) (token.Span, error) {
	if n >= vm.sp {
		return token.Span{}, &StackUnderflowError{StackLength: vm.sp}
	}
	return vm.stack[vm.sp-1-n].span, nil
}

func (vm *VM) setOffsetValue(n int, value Value) error {
	if n >= vm.sp {
		return &StackUnderflowError{StackLength: vm.sp}
	}
	vm.stack[vm.sp-1-n].value = value
	return nil
}

// Observable state

// LastPopped returns the value most recently removed by OP_POP. The
// second result is false when nothing has been popped yet; this is how
// a REPL observes the result of a bare expression statement.
func (vm *VM) LastPopped() (Value, bool) {
	return vm.lastPop, vm.hasLastPop
}

// ResolveString returns the text at a string table index.
func (vm *VM) ResolveString(index int) string {
	return vm.chunk.Strings[index]
}

// StackDepth reports the current number of live stack slots.
func (vm *VM) StackDepth() int {
	return vm.sp
}

// InspectValue renders a value for display, resolving string indices
// against the table.
func (vm *VM) InspectValue(v Value) string {
	if v.IsString() {
		return vm.ResolveString(v.StringIndex())
	}
	return v.Inspect()
}
