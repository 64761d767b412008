package vm

import (
	"errors"
	"fmt"

	"github.com/hydorlang/hydor/internal/token"
	"github.com/hydorlang/hydor/internal/typesystem"
)

// Internal faults: only reachable from a malformed artifact, never from
// valid compiled output.
var (
	errTruncatedBytecode    = errors.New("truncated bytecode")
	errMissingHalt          = errors.New("instruction stream exhausted without halt")
	errInvalidConstantIndex = errors.New("constant index out of range")
	errInvalidStringIndex   = errors.New("string index out of range")
)

// StackOverflowError reports a push past the configured stack capacity.
type StackOverflowError struct {
	StackLength int
	Span        token.Span
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("stack overflow: stack length %d", e.StackLength)
}

func (e *StackOverflowError) ErrorSpan() token.Span { return e.Span }

// StackUnderflowError reports a pop or peek on too few stack slots.
type StackUnderflowError struct {
	StackLength int
	Span        token.Span
}

func (e *StackUnderflowError) Error() string {
	return fmt.Sprintf("stack underflow: stack length %d", e.StackLength)
}

func (e *StackUnderflowError) ErrorSpan() token.Span { return e.Span }

// ArithmeticError reports a binary arithmetic operand-type mismatch.
// Span blames the offending operand: left if the left operand is
// non-numeric, else right.
type ArithmeticError struct {
	Operation string
	LeftType  typesystem.Type
	RightType typesystem.Type
	Span      token.Span
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("invalid %s: %s and %s", e.Operation, e.LeftType, e.RightType)
}

func (e *ArithmeticError) ErrorSpan() token.Span { return e.Span }

// UnaryOperationError reports a unary operand-type mismatch. Span runs
// from the operator through the end of the operand.
type UnaryOperationError struct {
	Operation   string
	OperandType typesystem.Type
	Span        token.Span
}

func (e *UnaryOperationError) Error() string {
	return fmt.Sprintf("invalid %s of %s", e.Operation, e.OperandType)
}

func (e *UnaryOperationError) ErrorSpan() token.Span { return e.Span }

// ComparisonOperationError reports an ordering comparison on a
// non-numeric operand. BlameType is the type of whichever operand is
// non-numeric, left checked first.
type ComparisonOperationError struct {
	Operation string
	BlameType typesystem.Type
	Span      token.Span
}

func (e *ComparisonOperationError) Error() string {
	return fmt.Sprintf("cannot order %s with %q", e.BlameType, e.Operation)
}

func (e *ComparisonOperationError) ErrorSpan() token.Span { return e.Span }
