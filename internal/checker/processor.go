package checker

import (
	"github.com/hydorlang/hydor/internal/ast"
	"github.com/hydorlang/hydor/internal/pipeline"
)

type CheckerProcessor struct{}

func (cp *CheckerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	program, ok := ctx.AstRoot.(*ast.Program)
	if !ok || program == nil {
		return ctx
	}
	// Don't type-check a tree the parser already flagged: partial ASTs
	// produce misleading follow-on diagnostics.
	if ctx.HasErrors() {
		return ctx
	}

	c := New()
	c.CheckProgram(program)

	for _, err := range c.Errors() {
		if err.File == "" {
			err.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, err)
	}

	return ctx
}
