// Package pipeline wires the compilation stages (lex, parse, check,
// compile) into a single driver that accumulates diagnostics.
package pipeline

import (
	"github.com/hydorlang/hydor/internal/diagnostics"
	"github.com/hydorlang/hydor/internal/token"
)

// PipelineContext carries the evolving state of one compilation run
// between processors. Stage outputs are stored untyped so leaf packages
// can define processors without importing each other.
type PipelineContext struct {
	Source   string
	FilePath string

	// TokenStream is set by the lexer stage.
	TokenStream []token.Token

	// AstRoot is set by the parser stage (*ast.Program).
	AstRoot any

	// Chunk is set by the compiler stage (*vm.Chunk).
	Chunk any

	// Errors accumulates diagnostics from every stage.
	Errors []*diagnostics.Error
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{Source: source}
}

// HasErrors reports whether any stage recorded a diagnostic.
func (ctx *PipelineContext) HasErrors() bool {
	return len(ctx.Errors) > 0
}

// Processor is one compilation stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Continue on errors to collect diagnostics from all stages.
	}
	return ctx
}
