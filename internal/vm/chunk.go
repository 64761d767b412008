package vm

import "github.com/hydorlang/hydor/internal/token"

// Chunk is the finalized bytecode artifact handed from the compiler to
// the VM: instruction bytes, the constant pool, the string table and a
// per-byte span map for error attribution. The VM never mutates Code or
// Constants; Strings may grow when concatenation interns new text.
type Chunk struct {
	// Code is the bytecode instructions
	Code []byte

	// Constants pool - int, float literals
	Constants []Value

	// Strings is the interned string table. No two entries are equal.
	Strings []string

	// Spans maps each bytecode offset to its source span (for errors)
	Spans []token.Span
}

// NewChunk creates a new empty chunk
func NewChunk() *Chunk {
	return &Chunk{
		Code:  make([]byte, 0, 256),
		Spans: make([]token.Span, 0, 256),
	}
}

// Write adds a byte to the chunk with its span info
func (c *Chunk) Write(b byte, span token.Span) {
	c.Code = append(c.Code, b)
	c.Spans = append(c.Spans, span)
}

// WriteInstruction encodes one instruction via Make and appends it.
// Every byte of the instruction carries the same span.
func (c *Chunk) WriteInstruction(op Opcode, span token.Span, operands ...int) {
	for _, b := range Make(op, operands...) {
		c.Write(b, span)
	}
}

// AddConstant adds a constant to the pool and returns its index
func (c *Chunk) AddConstant(value Value) int {
	c.Constants = append(c.Constants, value)
	return len(c.Constants) - 1
}

// InternString inserts s into the string table, deduplicating: if the
// text is already present the existing index is returned.
func (c *Chunk) InternString(s string) int {
	for i, existing := range c.Strings {
		if existing == s {
			return i
		}
	}
	c.Strings = append(c.Strings, s)
	return len(c.Strings) - 1
}

// SpanAt returns the span recorded for the byte at offset.
func (c *Chunk) SpanAt(offset int) token.Span {
	if offset < 0 || offset >= len(c.Spans) {
		return token.Span{}
	}
	return c.Spans[offset]
}

// Len returns the number of bytes in the chunk
func (c *Chunk) Len() int {
	return len(c.Code)
}
