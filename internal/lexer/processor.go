package lexer

import (
	"github.com/hydorlang/hydor/internal/diagnostics"
	"github.com/hydorlang/hydor/internal/pipeline"
	"github.com/hydorlang/hydor/internal/token"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	lexer := New(ctx.Source)
	tokens := lexer.Tokenize()

	for _, tok := range tokens {
		if tok.Type == token.ILLEGAL {
			err := diagnostics.NewError(diagnostics.ErrL001, tok, "illegal token %q", tok.Literal)
			err.File = ctx.FilePath
			ctx.Errors = append(ctx.Errors, err)
		}
	}

	ctx.TokenStream = tokens
	return ctx
}
