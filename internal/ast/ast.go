// Package ast defines the syntax tree produced by the parser. Every
// node carries enough position information to reconstruct a source span
// for diagnostics.
package ast

import (
	"strings"

	"github.com/hydorlang/hydor/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression. Span covers the
// whole expression, including sub-expressions.
type Expression interface {
	Node
	expressionNode()
	Span() token.Span
}

// Program is the root node of every AST the parser produces.
type Program struct {
	File       string
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) GetToken() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].GetToken()
	}
	return token.Token{}
}

// ExpressionStatement is a bare expression used as a statement, e.g.
// `1 + 2`. Its value is left on the VM stack and recorded by Pop.
type ExpressionStatement struct {
	Token      token.Token // first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}

// LetStatement is a variable declaration with an optional annotation:
// let x: int = 5
type LetStatement struct {
	Token      token.Token // the 'let' token
	Name       *Identifier
	Annotation *Identifier // optional: int, float, bool, string
	Value      Expression
}

func (ls *LetStatement) statementNode()       {}
func (ls *LetStatement) TokenLiteral() string { return ls.Token.Lexeme }
func (ls *LetStatement) GetToken() token.Token {
	if ls == nil {
		return token.Token{}
	}
	return ls.Token
}

// Identifier is a name reference.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}
func (i *Identifier) Span() token.Span { return i.Token.Span() }

// IntegerLiteral holds a 32-bit integer literal.
type IntegerLiteral struct {
	Token token.Token
	Value int32
}

func (il *IntegerLiteral) expressionNode()       {}
func (il *IntegerLiteral) TokenLiteral() string  { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token { return il.Token }
func (il *IntegerLiteral) Span() token.Span      { return il.Token.Span() }

// FloatLiteral holds a 64-bit float literal.
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode()       {}
func (fl *FloatLiteral) TokenLiteral() string  { return fl.Token.Lexeme }
func (fl *FloatLiteral) GetToken() token.Token { return fl.Token }
func (fl *FloatLiteral) Span() token.Span      { return fl.Token.Span() }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()       {}
func (bl *BooleanLiteral) TokenLiteral() string  { return bl.Token.Lexeme }
func (bl *BooleanLiteral) GetToken() token.Token { return bl.Token }
func (bl *BooleanLiteral) Span() token.Span      { return bl.Token.Span() }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }
func (sl *StringLiteral) Span() token.Span      { return sl.Token.Span() }

type NilLiteral struct {
	Token token.Token
}

func (nl *NilLiteral) expressionNode()       {}
func (nl *NilLiteral) TokenLiteral() string  { return nl.Token.Lexeme }
func (nl *NilLiteral) GetToken() token.Token { return nl.Token }
func (nl *NilLiteral) Span() token.Span      { return nl.Token.Span() }

// PrefixExpression is a unary operation: -x or !x.
type PrefixExpression struct {
	Token    token.Token // the operator token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()       {}
func (pe *PrefixExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token { return pe.Token }

// Span runs from the operator through the end of the operand.
func (pe *PrefixExpression) Span() token.Span {
	return token.MergeSpans(pe.Token.Span(), pe.Right.Span())
}

func (pe *PrefixExpression) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(pe.Operator)
	if s, ok := pe.Right.(interface{ String() string }); ok {
		sb.WriteString(s.String())
	} else {
		sb.WriteString(pe.Right.TokenLiteral())
	}
	sb.WriteString(")")
	return sb.String()
}

// InfixExpression is a binary operation: left <op> right.
type InfixExpression struct {
	Token    token.Token // the operator token
	Operator string
	Left     Expression
	Right    Expression
}

func (ie *InfixExpression) expressionNode()       {}
func (ie *InfixExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token { return ie.Token }

// Span runs from the start of the left operand through the end of the
// right operand.
func (ie *InfixExpression) Span() token.Span {
	return token.MergeSpans(ie.Left.Span(), ie.Right.Span())
}

func (ie *InfixExpression) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	if s, ok := ie.Left.(interface{ String() string }); ok {
		sb.WriteString(s.String())
	} else {
		sb.WriteString(ie.Left.TokenLiteral())
	}
	sb.WriteString(" " + ie.Operator + " ")
	if s, ok := ie.Right.(interface{ String() string }); ok {
		sb.WriteString(s.String())
	} else {
		sb.WriteString(ie.Right.TokenLiteral())
	}
	sb.WriteString(")")
	return sb.String()
}
