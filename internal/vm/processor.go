package vm

import (
	"github.com/hydorlang/hydor/internal/ast"
	"github.com/hydorlang/hydor/internal/pipeline"
)

type CompilerProcessor struct{}

func (cp *CompilerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	program, ok := ctx.AstRoot.(*ast.Program)
	if !ok || program == nil {
		return ctx
	}
	// Don't lower a program that earlier stages flagged.
	if ctx.HasErrors() {
		return ctx
	}

	compiler := NewCompiler()
	chunk := compiler.Compile(program)

	if errs := compiler.Errors(); len(errs) > 0 {
		for _, err := range errs {
			if err.File == "" {
				err.File = ctx.FilePath
			}
			ctx.Errors = append(ctx.Errors, err)
		}
		return ctx
	}

	ctx.Chunk = chunk
	return ctx
}
