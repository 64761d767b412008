package vm

import (
	"math"

	"github.com/hydorlang/hydor/internal/token"
)

func pow(a, b float64) float64 {
	return math.Pow(a, b)
}

// binaryOpAdd handles OP_ADD: string concatenation when both operands
// are strings, numeric addition otherwise. Operands were pushed left
// first, so right is on top.
func (vm *VM) binaryOpAdd() error {
	right, rightSpan, err := vm.popWithSpan()
	if err != nil {
		return err
	}
	left, leftSpan, err := vm.popWithSpan()
	if err != nil {
		return err
	}

	if left.IsString() && right.IsString() {
		return vm.stringConcat(left, leftSpan, right, rightSpan)
	}

	if !left.IsNumber() {
		return &ArithmeticError{
			Operation: "addition",
			LeftType:  left.TypeOf(),
			RightType: right.TypeOf(),
			Span:      leftSpan,
		}
	}
	if !right.IsNumber() {
		return &ArithmeticError{
			Operation: "addition",
			LeftType:  left.TypeOf(),
			RightType: right.TypeOf(),
			Span:      rightSpan,
		}
	}

	result := computeNumeric(left, right, func(a, b float64) float64 { return a + b })
	return vm.push(result, token.MergeSpans(leftSpan, rightSpan))
}

// binaryOpNumeric handles OP_SUB, OP_MUL, OP_DIV and OP_POW, which
// always require numeric operands.
func (vm *VM) binaryOpNumeric(opName string, f func(a, b float64) float64) error {
	right, rightSpan, err := vm.popWithSpan()
	if err != nil {
		return err
	}
	left, leftSpan, err := vm.popWithSpan()
	if err != nil {
		return err
	}

	if !left.IsNumber() {
		return &ArithmeticError{
			Operation: opName,
			LeftType:  left.TypeOf(),
			RightType: right.TypeOf(),
			Span:      leftSpan,
		}
	}
	if !right.IsNumber() {
		return &ArithmeticError{
			Operation: opName,
			LeftType:  left.TypeOf(),
			RightType: right.TypeOf(),
			Span:      rightSpan,
		}
	}

	result := computeNumeric(left, right, f)
	return vm.push(result, token.MergeSpans(leftSpan, rightSpan))
}

// computeNumeric widens both operands to float64, applies the operator
// and re-narrows: when neither original operand was a float and the
// result is whole, the result is an Integer, otherwise a Float. The
// result representation is value-dependent: 6/3 is an int, 1/3 a float.
// A whole result outside the int32 range stays a Float rather than
// wrapping.
func computeNumeric(left, right Value, f func(a, b float64) float64) Value {
	result := f(left.AsNumber(), right.AsNumber())

	if !left.IsFloat() && !right.IsFloat() &&
		result == math.Trunc(result) &&
		result >= math.MinInt32 && result <= math.MaxInt32 {
		return IntVal(int32(result))
	}
	return FloatVal(result)
}

// stringConcat resolves both operands against the string table,
// concatenates and interns the result. The pushed value may reference
// an existing table slot when the text was already interned.
func (vm *VM) stringConcat(left Value, leftSpan token.Span, right Value, rightSpan token.Span) error {
	leftStr := vm.ResolveString(left.StringIndex())
	rightStr := vm.ResolveString(right.StringIndex())

	index := vm.chunk.InternString(leftStr + rightStr)

	return vm.push(StringVal(index), token.MergeSpans(leftSpan, rightSpan))
}

// Unary operations mutate the top of stack in place instead of a
// pop+push round trip. The slot's original span is preserved.

func (vm *VM) unaryOperation(op Opcode, span token.Span) error {
	switch op {
	case OP_NEG:
		return vm.unaryNegate(span)
	default:
		return vm.unaryNot()
	}
}

func (vm *VM) unaryNegate(span token.Span) error {
	target, err := vm.peekOffset(0)
	if err != nil {
		return err
	}
	targetSpan, err := vm.peekSpan(0)
	if err != nil {
		return err
	}

	if !target.IsNumber() {
		// Blame from the operator through the end of the operand.
		return &UnaryOperationError{
			Operation:   "negation",
			OperandType: target.TypeOf(),
			Span:        token.MergeSpans(span, targetSpan),
		}
	}

	if target.IsFloat() {
		return vm.setOffsetValue(0, FloatVal(-target.AsFloat()))
	}
	return vm.setOffsetValue(0, IntVal(-target.AsInt()))
}

// unaryNot flips the truthiness of the top of stack. It always
// succeeds: every value has a truthiness.
func (vm *VM) unaryNot() error {
	target, err := vm.peekOffset(0)
	if err != nil {
		return err
	}
	return vm.setOffsetValue(0, BoolVal(!isTruthy(target)))
}

// isTruthy: false and nil are falsy; everything else, including zero
// and the empty string, is truthy.
func isTruthy(v Value) bool {
	switch v.Type {
	case ValBool:
		return v.AsBool()
	case ValNil:
		return false
	default:
		return true
	}
}

// compareOperation handles the six comparison opcodes. Numeric operands
// take the widened-float path for all six operators; non-numeric
// operands only permit equality.
func (vm *VM) compareOperation(op Opcode, span token.Span) error {
	right, _, err := vm.popWithSpan()
	if err != nil {
		return err
	}
	left, _, err := vm.popWithSpan()
	if err != nil {
		return err
	}

	if left.IsNumber() && right.IsNumber() {
		return vm.compareNumbers(op, left, right, span)
	}

	switch op {
	case OP_EQ:
		return vm.push(BoolVal(vm.valuesEqual(left, right)), span)
	case OP_NE:
		return vm.push(BoolVal(!vm.valuesEqual(left, right)), span)
	default:
		blameType := left.TypeOf()
		if left.IsNumber() {
			blameType = right.TypeOf()
		}
		return &ComparisonOperationError{
			Operation: comparisonOperator(op),
			BlameType: blameType,
			Span:      span,
		}
	}
}

func (vm *VM) compareNumbers(op Opcode, left, right Value, span token.Span) error {
	a, b := left.AsNumber(), right.AsNumber()

	var result bool
	switch op {
	case OP_LT:
		result = a < b
	case OP_LE:
		result = a <= b
	case OP_GT:
		result = a > b
	case OP_GE:
		result = a >= b
	case OP_EQ:
		result = a == b
	case OP_NE:
		result = a != b
	}

	return vm.push(BoolVal(result), span)
}

// valuesEqual is the structural equality rule. Strings compare by
// resolved text, not by index: a freshly concatenated string may not
// share a slot with pool contents even after interning keeps the table
// duplicate-free.
func (vm *VM) valuesEqual(left, right Value) bool {
	if left.IsString() && right.IsString() {
		return vm.ResolveString(left.StringIndex()) == vm.ResolveString(right.StringIndex())
	}
	return left.Equals(right)
}

func comparisonOperator(op Opcode) string {
	switch op {
	case OP_LT:
		return "<"
	case OP_LE:
		return "<="
	case OP_GT:
		return ">"
	case OP_GE:
		return ">="
	case OP_EQ:
		return "=="
	case OP_NE:
		return "!="
	default:
		return "?"
	}
}
