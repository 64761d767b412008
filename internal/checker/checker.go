// Package checker implements the static type-checking pass. It walks
// expression trees, validates operator/operand compatibility and
// accumulates diagnostics without stopping at the first error, so one
// pass can report every type error in a program.
package checker

import (
	"github.com/hydorlang/hydor/internal/ast"
	"github.com/hydorlang/hydor/internal/diagnostics"
	"github.com/hydorlang/hydor/internal/typesystem"
)

// Checker validates a program against the hydor typing rules. It never
// mutates the AST.
type Checker struct {
	errors []*diagnostics.Error
}

func New() *Checker {
	return &Checker{}
}

// Errors returns the diagnostics accumulated so far, in source order.
func (c *Checker) Errors() []*diagnostics.Error {
	return c.errors
}

func (c *Checker) addError(err *diagnostics.Error) {
	c.errors = append(c.errors, err)
}

// CheckProgram checks every statement. Statements are independent:
// a failure in one does not stop checking of its siblings.
func (c *Checker) CheckProgram(program *ast.Program) {
	for _, stmt := range program.Statements {
		c.checkStatement(stmt)
	}
}

func (c *Checker) checkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		c.Check(s.Expression)
	case *ast.LetStatement:
		c.checkLetStatement(s)
	}
}

func (c *Checker) checkLetStatement(stmt *ast.LetStatement) {
	valueType, ok := c.Check(stmt.Value)
	if !ok {
		return
	}

	if stmt.Annotation == nil {
		return
	}

	declared, known := typesystem.FromAnnotation(stmt.Annotation.Value)
	if !known {
		c.addError(diagnostics.NewError(diagnostics.ErrT002, stmt.Annotation.Token,
			"unknown type annotation %q", stmt.Annotation.Value))
		return
	}

	if declared != valueType {
		c.addError(diagnostics.NewSpanError(diagnostics.ErrT003, stmt.Value.Span(),
			"cannot assign %s to variable declared as %s", valueType, declared))
	}
}

// Check returns the static type of expr. The second result is false
// when the expression cannot be typed; a diagnostic has already been
// recorded in that case.
func (c *Checker) Check(expr ast.Expression) (typesystem.Type, bool) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return typesystem.Integer, true
	case *ast.FloatLiteral:
		return typesystem.Float, true
	case *ast.BooleanLiteral:
		return typesystem.Boolean, true
	case *ast.StringLiteral:
		return typesystem.String, true
	case *ast.NilLiteral:
		return typesystem.Nil, true
	case *ast.PrefixExpression:
		return c.checkPrefixExpression(e)
	case *ast.InfixExpression:
		return c.checkInfixExpression(e)
	case *ast.Identifier:
		c.addError(diagnostics.NewError(diagnostics.ErrT001, e.Token,
			"unknown identifier %q", e.Value))
		return typesystem.Nil, false
	default:
		return typesystem.Nil, false
	}
}

func (c *Checker) checkPrefixExpression(expr *ast.PrefixExpression) (typesystem.Type, bool) {
	operandType, ok := c.Check(expr.Right)
	if !ok {
		return typesystem.Nil, false
	}

	switch expr.Operator {
	case "-":
		if !operandType.IsNumeric() {
			c.addError(diagnostics.NewSpanError(diagnostics.ErrT001, expr.Span(),
				"cannot negate %s", operandType))
			return typesystem.Nil, false
		}
		return operandType, true
	case "!":
		// `!` accepts any operand: every value has a truthiness.
		return typesystem.Boolean, true
	default:
		return typesystem.Nil, false
	}
}

// checkInfixExpression applies the per-operator-class rules. Operand
// subexpressions are checked first; if either fails, checking of the
// parent aborts without a second diagnostic.
func (c *Checker) checkInfixExpression(expr *ast.InfixExpression) (typesystem.Type, bool) {
	leftType, ok := c.Check(expr.Left)
	if !ok {
		return typesystem.Nil, false
	}
	rightType, ok := c.Check(expr.Right)
	if !ok {
		return typesystem.Nil, false
	}

	switch expr.Operator {
	case "+":
		if leftType != rightType {
			c.invalidBinaryOp(expr, leftType, rightType)
			return typesystem.Nil, false
		}
		// Numeric addition or string concatenation.
		if leftType.IsNumeric() || leftType == typesystem.String {
			return leftType, true
		}
		c.invalidBinaryOp(expr, leftType, rightType)
		return typesystem.Nil, false

	case "-", "*", "/", "^":
		if leftType != rightType {
			c.invalidBinaryOp(expr, leftType, rightType)
			return typesystem.Nil, false
		}
		if !leftType.IsNumeric() {
			c.invalidBinaryOp(expr, leftType, rightType)
			return typesystem.Nil, false
		}
		return leftType, true

	case "<", "<=", ">", ">=":
		if leftType != rightType {
			c.invalidBinaryOp(expr, leftType, rightType)
			return typesystem.Nil, false
		}
		if !leftType.IsNumeric() {
			c.invalidBinaryOp(expr, leftType, rightType)
			return typesystem.Nil, false
		}
		return typesystem.Boolean, true

	case "==", "!=":
		// Stricter than the VM: the runtime permits int/float
		// cross-comparison, the static rule does not.
		if leftType != rightType {
			c.invalidBinaryOp(expr, leftType, rightType)
			return typesystem.Nil, false
		}
		return typesystem.Boolean, true

	default:
		c.invalidBinaryOp(expr, leftType, rightType)
		return typesystem.Nil, false
	}
}

func (c *Checker) invalidBinaryOp(expr *ast.InfixExpression, left, right typesystem.Type) {
	c.addError(diagnostics.NewSpanError(diagnostics.ErrT001, expr.Span(),
		"invalid binary operation: %s %s %s", left, expr.Operator, right))
}
