package vm

import (
	"github.com/hydorlang/hydor/internal/ast"
	"github.com/hydorlang/hydor/internal/diagnostics"
	"github.com/hydorlang/hydor/internal/token"
)

// Compiler lowers a type-checked AST into a bytecode chunk. Operands
// compile left-to-right so the right operand ends up on top of the
// stack; each expression statement is terminated by OP_POP and the
// program by OP_HALT.
type Compiler struct {
	chunk  *Chunk
	errors []*diagnostics.Error
}

func NewCompiler() *Compiler {
	return &Compiler{chunk: NewChunk()}
}

// Errors returns diagnostics recorded during compilation.
func (c *Compiler) Errors() []*diagnostics.Error {
	return c.errors
}

func (c *Compiler) addError(err *diagnostics.Error) {
	c.errors = append(c.errors, err)
}

// Compile lowers the program. The returned chunk is only valid when no
// diagnostics were recorded.
func (c *Compiler) Compile(program *ast.Program) *Chunk {
	var lastSpan token.Span

	for _, stmt := range program.Statements {
		c.compileStatement(stmt)
		lastSpan = stmt.GetToken().Span()
	}

	c.chunk.WriteInstruction(OP_HALT, lastSpan)
	return c.chunk
}

func (c *Compiler) compileStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		if c.compileExpression(s.Expression) {
			c.chunk.WriteInstruction(OP_POP, s.Expression.Span())
		}
	case *ast.LetStatement:
		// No variable opcodes exist yet; the front end accepts let so
		// diagnostics stay precise, the backend rejects it.
		c.addError(diagnostics.NewError(diagnostics.ErrC001, s.Token,
			"variable declarations are not supported by the bytecode backend"))
	}
}

func (c *Compiler) compileExpression(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		index := c.chunk.AddConstant(IntVal(e.Value))
		c.chunk.WriteInstruction(OP_CONST, e.Span(), index)
		return true

	case *ast.FloatLiteral:
		index := c.chunk.AddConstant(FloatVal(e.Value))
		c.chunk.WriteInstruction(OP_CONST, e.Span(), index)
		return true

	case *ast.BooleanLiteral:
		if e.Value {
			c.chunk.WriteInstruction(OP_TRUE, e.Span())
		} else {
			c.chunk.WriteInstruction(OP_FALSE, e.Span())
		}
		return true

	case *ast.NilLiteral:
		c.chunk.WriteInstruction(OP_NIL, e.Span())
		return true

	case *ast.StringLiteral:
		index := c.chunk.InternString(e.Value)
		c.chunk.WriteInstruction(OP_STRING, e.Span(), index)
		return true

	case *ast.PrefixExpression:
		return c.compilePrefixExpression(e)

	case *ast.InfixExpression:
		return c.compileInfixExpression(e)

	case *ast.Identifier:
		c.addError(diagnostics.NewError(diagnostics.ErrC001, e.Token,
			"identifiers are not supported by the bytecode backend"))
		return false

	default:
		c.addError(diagnostics.NewError(diagnostics.ErrC001, expr.GetToken(),
			"cannot compile expression %T", expr))
		return false
	}
}

func (c *Compiler) compilePrefixExpression(expr *ast.PrefixExpression) bool {
	if !c.compileExpression(expr.Right) {
		return false
	}

	// The instruction span is the operator's own span: the VM merges it
	// with the operand slot's span for error blame.
	switch expr.Operator {
	case "-":
		c.chunk.WriteInstruction(OP_NEG, expr.Token.Span())
	case "!":
		c.chunk.WriteInstruction(OP_NOT, expr.Token.Span())
	default:
		c.addError(diagnostics.NewError(diagnostics.ErrC001, expr.Token,
			"unknown prefix operator %q", expr.Operator))
		return false
	}
	return true
}

var infixOpcodes = map[string]Opcode{
	"+":  OP_ADD,
	"-":  OP_SUB,
	"*":  OP_MUL,
	"/":  OP_DIV,
	"^":  OP_POW,
	"<":  OP_LT,
	"<=": OP_LE,
	">":  OP_GT,
	">=": OP_GE,
	"==": OP_EQ,
	"!=": OP_NE,
}

func (c *Compiler) compileInfixExpression(expr *ast.InfixExpression) bool {
	if !c.compileExpression(expr.Left) {
		return false
	}
	if !c.compileExpression(expr.Right) {
		return false
	}

	op, ok := infixOpcodes[expr.Operator]
	if !ok {
		c.addError(diagnostics.NewError(diagnostics.ErrC001, expr.Token,
			"unknown infix operator %q", expr.Operator))
		return false
	}

	c.chunk.WriteInstruction(op, expr.Span())
	return true
}
