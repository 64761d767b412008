package diagnostics

// Diagnostic codes, grouped by stage.
const (
	// Lexer
	ErrL001 = "L001" // illegal token

	// Parser
	ErrP001 = "P001" // no prefix parse function
	ErrP002 = "P002" // unexpected token
	ErrP003 = "P003" // invalid literal

	// Type checker
	ErrT001 = "T001" // invalid binary operation
	ErrT002 = "T002" // unknown type annotation
	ErrT003 = "T003" // annotation/value mismatch

	// Compiler
	ErrC001 = "C001" // construct not supported by the bytecode backend
)
