package token

// Span is a source range used to attribute diagnostics. It is carried
// through tokens, AST nodes, compiled instructions and VM stack slots.
type Span struct {
	Line        int
	StartColumn int
	EndColumn   int
}

// MergeSpans combines two spans into one covering both: the start of
// left through the end of right. Used for composite expressions and for
// unary-operator error blame.
func MergeSpans(left, right Span) Span {
	return Span{
		Line:        left.Line,
		StartColumn: left.StartColumn,
		EndColumn:   right.EndColumn,
	}
}
