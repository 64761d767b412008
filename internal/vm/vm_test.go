package vm

import (
	"errors"
	"math"
	"testing"

	"github.com/hydorlang/hydor/internal/ast"
	"github.com/hydorlang/hydor/internal/lexer"
	"github.com/hydorlang/hydor/internal/parser"
	"github.com/hydorlang/hydor/internal/pipeline"
	"github.com/hydorlang/hydor/internal/token"
	"github.com/hydorlang/hydor/internal/typesystem"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	ctx := pipeline.NewPipelineContext(input)
	tokens := lexer.New(input).Tokenize()
	p := parser.New(tokens, ctx)
	program := p.ParseProgram()
	if ctx.HasErrors() {
		t.Fatalf("parser error: %s", ctx.Errors[0].Error())
	}
	return program
}

func compile(t *testing.T, input string) *Chunk {
	t.Helper()
	program := parse(t, input)
	compiler := NewCompiler()
	chunk := compiler.Compile(program)
	if errs := compiler.Errors(); len(errs) > 0 {
		t.Fatalf("compilation error: %s", errs[0].Error())
	}
	return chunk
}

// runVM compiles and executes source without the static checker, so
// runtime paths the checker would reject stay reachable.
func runVM(t *testing.T, input string) *VM {
	t.Helper()
	machine := New(compile(t, input))
	if err := machine.Run(); err != nil {
		t.Fatalf("runtime error: %s", err)
	}
	return machine
}

// runVMError compiles and executes source, expecting a runtime fault.
func runVMError(t *testing.T, input string) error {
	t.Helper()
	machine := New(compile(t, input))
	err := machine.Run()
	if err == nil {
		t.Fatalf("input %q: expected a runtime error", input)
	}
	return err
}

func lastPopped(t *testing.T, machine *VM) Value {
	t.Helper()
	value, ok := machine.LastPopped()
	if !ok {
		t.Fatal("no value was popped")
	}
	return value
}

func testIntegerValue(t *testing.T, v Value, expected int32) {
	t.Helper()
	if !v.IsInt() {
		t.Fatalf("value is not int. got=%s (%s)", v.TypeOf(), v.Inspect())
	}
	if v.AsInt() != expected {
		t.Errorf("wrong value. want=%d, got=%d", expected, v.AsInt())
	}
}

func testFloatValue(t *testing.T, v Value, expected float64) {
	t.Helper()
	if !v.IsFloat() {
		t.Fatalf("value is not float. got=%s (%s)", v.TypeOf(), v.Inspect())
	}
	if math.Abs(v.AsFloat()-expected) > 1e-9 {
		t.Errorf("wrong value. want=%g, got=%g", expected, v.AsFloat())
	}
}

func testBooleanValue(t *testing.T, v Value, expected bool) {
	t.Helper()
	if !v.IsBool() {
		t.Fatalf("value is not bool. got=%s (%s)", v.TypeOf(), v.Inspect())
	}
	if v.AsBool() != expected {
		t.Errorf("wrong value. want=%t, got=%t", expected, v.AsBool())
	}
}

func TestIntegerArithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected int32
	}{
		{"1 + 2", 3},
		{"10 - 4", 6},
		{"3 * 4", 12},
		{"6 / 3", 2},
		{"2 ^ 3", 8},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"-5 + 10", 5},
		{"2 ^ 3 ^ 2", 512},
	}

	for _, tt := range tests {
		machine := runVM(t, tt.input)
		testIntegerValue(t, lastPopped(t, machine), tt.expected)
	}
}

func TestFloatArithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"1.5 + 2.5", 4.0},
		{"1.0 / 4.0", 0.25},
		{"2.0 ^ 0.5", math.Sqrt2},
		{"-1.5 * 2.0", -3.0},
	}

	for _, tt := range tests {
		machine := runVM(t, tt.input)
		testFloatValue(t, lastPopped(t, machine), tt.expected)
	}
}

// Result representation is value-dependent, not operand-type-dependent:
// whole results of all-int operands re-narrow to int, fractional
// results stay float.
func TestNumericReNarrowing(t *testing.T) {
	machine := runVM(t, "6 / 3")
	testIntegerValue(t, lastPopped(t, machine), 2)

	machine = runVM(t, "1 / 3")
	testFloatValue(t, lastPopped(t, machine), 1.0/3.0)

	machine = runVM(t, "2 ^ 3")
	testIntegerValue(t, lastPopped(t, machine), 8)

	// Float operands never re-narrow, even for whole results.
	machine = runVM(t, "6.0 / 3.0")
	testFloatValue(t, lastPopped(t, machine), 2.0)
}

// A whole result outside the int32 range stays a float instead of
// wrapping.
func TestReNarrowingOverflowStaysFloat(t *testing.T) {
	machine := runVM(t, "2 ^ 31")
	testFloatValue(t, lastPopped(t, machine), 2147483648.0)
}

func TestDivisionByZeroYieldsInfinity(t *testing.T) {
	machine := runVM(t, "1 / 0")
	value := lastPopped(t, machine)
	if !value.IsFloat() || !math.IsInf(value.AsFloat(), 1) {
		t.Errorf("want +Inf float, got=%s (%s)", value.TypeOf(), value.Inspect())
	}
}

func TestComparisons(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1 < 2", true},
		{"2 < 1", false},
		{"2 <= 2", true},
		{"3 > 2", true},
		{"2 >= 3", false},
		{"1 == 1", true},
		{"1 != 1", false},
		{"1.5 > 1", true},
		{"true == true", true},
		{"true != false", true},
		{"nil == nil", true},
		{`"a" == "a"`, true},
		{`"a" != "b"`, true},
		{`"a" == "b"`, false},
		{"1 == true", false},
		{"nil != 0", true},
	}

	for _, tt := range tests {
		machine := runVM(t, tt.input)
		v := lastPopped(t, machine)
		if !v.IsBool() || v.AsBool() != tt.expected {
			t.Errorf("input %q: want=%t, got=%s", tt.input, tt.expected, v.Inspect())
		}
	}
}

// The VM permits int/float cross-comparison even though the static
// checker rejects it; the asymmetry is deliberate.
func TestCrossTypeNumericEquality(t *testing.T) {
	machine := runVM(t, "2 == 2.0")
	testBooleanValue(t, lastPopped(t, machine), true)

	machine = runVM(t, "2 != 2.5")
	testBooleanValue(t, lastPopped(t, machine), true)

	machine = runVM(t, "2 < 2.5")
	testBooleanValue(t, lastPopped(t, machine), true)
}

func TestTruthiness(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"!false", true},
		{"!true", false},
		{"!nil", true},
		{"!0", false},   // zero is truthy
		{`!""`, false},  // the empty string is truthy
		{"!1", false},
		{"!!nil", false},
	}

	for _, tt := range tests {
		machine := runVM(t, tt.input)
		testBooleanValue(t, lastPopped(t, machine), tt.expected)
	}
}

func TestUnaryNegation(t *testing.T) {
	machine := runVM(t, "-5")
	testIntegerValue(t, lastPopped(t, machine), -5)

	machine = runVM(t, "-2.5")
	testFloatValue(t, lastPopped(t, machine), -2.5)

	machine = runVM(t, "--7")
	testIntegerValue(t, lastPopped(t, machine), 7)
}

func TestStringConcatenation(t *testing.T) {
	machine := runVM(t, `"ab" + "cd"`)
	value := lastPopped(t, machine)
	if !value.IsString() {
		t.Fatalf("value is not string. got=%s", value.TypeOf())
	}
	if got := machine.ResolveString(value.StringIndex()); got != "abcd" {
		t.Errorf("wrong text. want=%q, got=%q", "abcd", got)
	}
}

// Repeating the same concatenation reuses the interned table index.
func TestConcatenationInterning(t *testing.T) {
	chunk := compile(t, "\"ab\" + \"cd\"\n\"ab\" + \"cd\"")
	machine := New(chunk)
	if err := machine.Run(); err != nil {
		t.Fatalf("runtime error: %s", err)
	}

	// Table: "ab", "cd" from the pool plus exactly one "abcd".
	if len(chunk.Strings) != 3 {
		t.Fatalf("table has %d entries, want 3: %v", len(chunk.Strings), chunk.Strings)
	}

	value := lastPopped(t, machine)
	if got := machine.ResolveString(value.StringIndex()); got != "abcd" {
		t.Errorf("wrong text. want=%q, got=%q", "abcd", got)
	}
}

// Concatenated strings compare equal to pool strings by text even when
// produced in different ways.
func TestConcatenatedStringEquality(t *testing.T) {
	machine := runVM(t, `"ab" + "cd" == "abcd"`)
	testBooleanValue(t, lastPopped(t, machine), true)
}

func TestMultipleStatementsLastPop(t *testing.T) {
	machine := runVM(t, "1 + 1\n2 + 2\n3 + 3")
	testIntegerValue(t, lastPopped(t, machine), 6)
}

func TestArithmeticErrors(t *testing.T) {
	tests := []struct {
		input     string
		operation string
		leftType  typesystem.Type
		rightType typesystem.Type
	}{
		{"true + 1", "addition", typesystem.Boolean, typesystem.Integer},
		{"1 + true", "addition", typesystem.Integer, typesystem.Boolean},
		{`1 + "a"`, "addition", typesystem.Integer, typesystem.String},
		{`"a" + 1`, "addition", typesystem.String, typesystem.Integer},
		{"nil - 1", "subtraction", typesystem.Nil, typesystem.Integer},
		{"1 * nil", "multiplication", typesystem.Integer, typesystem.Nil},
		{"true / 2", "division", typesystem.Boolean, typesystem.Integer},
		{"2 ^ nil", "exponentiation", typesystem.Integer, typesystem.Nil},
	}

	for _, tt := range tests {
		err := runVMError(t, tt.input)
		var arithErr *ArithmeticError
		if !errors.As(err, &arithErr) {
			t.Errorf("input %q: want ArithmeticError, got %T (%s)", tt.input, err, err)
			continue
		}
		if arithErr.Operation != tt.operation {
			t.Errorf("input %q: wrong operation. want=%q, got=%q", tt.input, tt.operation, arithErr.Operation)
		}
		if arithErr.LeftType != tt.leftType || arithErr.RightType != tt.rightType {
			t.Errorf("input %q: wrong types. want=%s/%s, got=%s/%s",
				tt.input, tt.leftType, tt.rightType, arithErr.LeftType, arithErr.RightType)
		}
	}
}

// The error blames the offending operand's span: the left operand when
// it is non-numeric, else the right.
func TestArithmeticErrorBlameSpan(t *testing.T) {
	err := runVMError(t, "1 + true")
	var arithErr *ArithmeticError
	if !errors.As(err, &arithErr) {
		t.Fatalf("want ArithmeticError, got %T", err)
	}
	// "1 + true": the right operand at columns 5..8 is blamed.
	want := token.Span{Line: 1, StartColumn: 5, EndColumn: 8}
	if arithErr.Span != want {
		t.Errorf("wrong span. want=%+v, got=%+v", want, arithErr.Span)
	}

	err = runVMError(t, "true + 1")
	if !errors.As(err, &arithErr) {
		t.Fatalf("want ArithmeticError, got %T", err)
	}
	// "true + 1": the left operand at columns 1..4 is blamed.
	want = token.Span{Line: 1, StartColumn: 1, EndColumn: 4}
	if arithErr.Span != want {
		t.Errorf("wrong span. want=%+v, got=%+v", want, arithErr.Span)
	}
}

func TestUnaryNegationError(t *testing.T) {
	err := runVMError(t, "-true")
	var unaryErr *UnaryOperationError
	if !errors.As(err, &unaryErr) {
		t.Fatalf("want UnaryOperationError, got %T (%s)", err, err)
	}
	if unaryErr.Operation != "negation" {
		t.Errorf("wrong operation. want=%q, got=%q", "negation", unaryErr.Operation)
	}
	if unaryErr.OperandType != typesystem.Boolean {
		t.Errorf("wrong operand type. want=bool, got=%s", unaryErr.OperandType)
	}
	// Span merges the operator with the operand: columns 1..5.
	want := token.Span{Line: 1, StartColumn: 1, EndColumn: 5}
	if unaryErr.Span != want {
		t.Errorf("wrong span. want=%+v, got=%+v", want, unaryErr.Span)
	}
}

func TestOrderingErrors(t *testing.T) {
	tests := []struct {
		input     string
		operation string
		blameType typesystem.Type
	}{
		{`"a" < "b"`, "<", typesystem.String},
		{"true <= false", "<=", typesystem.Boolean},
		{"nil > 1", ">", typesystem.Nil},
		{"1 >= nil", ">=", typesystem.Nil},
	}

	for _, tt := range tests {
		err := runVMError(t, tt.input)
		var cmpErr *ComparisonOperationError
		if !errors.As(err, &cmpErr) {
			t.Errorf("input %q: want ComparisonOperationError, got %T (%s)", tt.input, err, err)
			continue
		}
		if cmpErr.Operation != tt.operation {
			t.Errorf("input %q: wrong operation. want=%q, got=%q", tt.input, tt.operation, cmpErr.Operation)
		}
		if cmpErr.BlameType != tt.blameType {
			t.Errorf("input %q: wrong blame type. want=%s, got=%s", tt.input, tt.blameType, cmpErr.BlameType)
		}
	}
}

func TestStackOverflow(t *testing.T) {
	chunk := NewChunk()
	span := token.Span{Line: 1, StartColumn: 1, EndColumn: 1}
	for i := 0; i < 4; i++ {
		chunk.WriteInstruction(OP_NIL, span)
	}
	chunk.WriteInstruction(OP_HALT, span)

	machine := NewWithStackSize(chunk, 3)
	err := machine.Run()

	var overflowErr *StackOverflowError
	if !errors.As(err, &overflowErr) {
		t.Fatalf("want StackOverflowError, got %v", err)
	}
	if overflowErr.StackLength != 3 {
		t.Errorf("wrong stack length. want=3, got=%d", overflowErr.StackLength)
	}
}

func TestStackUnderflow(t *testing.T) {
	chunk := NewChunk()
	chunk.WriteInstruction(OP_POP, token.Span{})
	chunk.WriteInstruction(OP_HALT, token.Span{})

	machine := New(chunk)
	err := machine.Run()

	var underflowErr *StackUnderflowError
	if !errors.As(err, &underflowErr) {
		t.Fatalf("want StackUnderflowError, got %v", err)
	}
}

// Hand-assembled end-to-end scenario from raw instructions.
func TestHandAssembledProgram(t *testing.T) {
	chunk := NewChunk()
	span := token.Span{Line: 1, StartColumn: 1, EndColumn: 5}

	chunk.AddConstant(IntVal(2))
	chunk.AddConstant(IntVal(3))
	chunk.WriteInstruction(OP_CONST, span, 0)
	chunk.WriteInstruction(OP_CONST, span, 1)
	chunk.WriteInstruction(OP_ADD, span)
	chunk.WriteInstruction(OP_POP, span)
	chunk.WriteInstruction(OP_HALT, span)

	machine := New(chunk)
	if err := machine.Run(); err != nil {
		t.Fatalf("runtime error: %s", err)
	}

	testIntegerValue(t, lastPopped(t, machine), 5)
	if machine.StackDepth() != 0 {
		t.Errorf("stack not empty after run: depth=%d", machine.StackDepth())
	}
}

func TestHandAssembledErrorScenario(t *testing.T) {
	chunk := NewChunk()
	span := token.Span{Line: 1, StartColumn: 1, EndColumn: 1}

	chunk.AddConstant(IntVal(1))
	chunk.WriteInstruction(OP_TRUE, span)
	chunk.WriteInstruction(OP_CONST, span, 0)
	chunk.WriteInstruction(OP_ADD, span)
	chunk.WriteInstruction(OP_HALT, span)

	machine := New(chunk)
	err := machine.Run()

	var arithErr *ArithmeticError
	if !errors.As(err, &arithErr) {
		t.Fatalf("want ArithmeticError, got %v", err)
	}
	if arithErr.Operation != "addition" {
		t.Errorf("wrong operation. want=%q, got=%q", "addition", arithErr.Operation)
	}
	if arithErr.LeftType != typesystem.Boolean || arithErr.RightType != typesystem.Integer {
		t.Errorf("wrong types. want=bool/int, got=%s/%s", arithErr.LeftType, arithErr.RightType)
	}
}

// A stream without a trailing HALT is a malformed artifact.
func TestMissingHaltIsInternalFault(t *testing.T) {
	chunk := NewChunk()
	chunk.WriteInstruction(OP_NIL, token.Span{})

	machine := New(chunk)
	if err := machine.Run(); !errors.Is(err, errMissingHalt) {
		t.Fatalf("want missing-halt fault, got %v", err)
	}
}

func TestTruncatedOperandIsInternalFault(t *testing.T) {
	chunk := NewChunk()
	// OP_CONST declares a 2-byte operand; supply only the tag.
	chunk.Write(byte(OP_CONST), token.Span{})

	machine := New(chunk)
	if err := machine.Run(); !errors.Is(err, errTruncatedBytecode) {
		t.Fatalf("want truncated-bytecode fault, got %v", err)
	}
}

func TestConstantIndexOutOfRange(t *testing.T) {
	chunk := NewChunk()
	chunk.WriteInstruction(OP_CONST, token.Span{}, 7)
	chunk.WriteInstruction(OP_HALT, token.Span{})

	machine := New(chunk)
	if err := machine.Run(); !errors.Is(err, errInvalidConstantIndex) {
		t.Fatalf("want invalid-constant-index fault, got %v", err)
	}
}

func TestStringIndexOutOfRange(t *testing.T) {
	chunk := NewChunk()
	chunk.WriteInstruction(OP_STRING, token.Span{}, 7)
	chunk.WriteInstruction(OP_HALT, token.Span{})

	machine := New(chunk)
	if err := machine.Run(); !errors.Is(err, errInvalidStringIndex) {
		t.Fatalf("want invalid-string-index fault, got %v", err)
	}
}

func TestNoLastPoppedBeforePop(t *testing.T) {
	chunk := NewChunk()
	chunk.WriteInstruction(OP_HALT, token.Span{})

	machine := New(chunk)
	if err := machine.Run(); err != nil {
		t.Fatalf("runtime error: %s", err)
	}
	if _, ok := machine.LastPopped(); ok {
		t.Error("expected no last-popped value")
	}
}

func TestInspectValue(t *testing.T) {
	machine := runVM(t, `"hi" + " there"`)
	value := lastPopped(t, machine)
	if got := machine.InspectValue(value); got != "hi there" {
		t.Errorf("want=%q, got=%q", "hi there", got)
	}

	machine = runVM(t, "1 + 1")
	if got := machine.InspectValue(lastPopped(t, machine)); got != "2" {
		t.Errorf("want=%q, got=%q", "2", got)
	}
}
