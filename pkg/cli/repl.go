package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/hydorlang/hydor/internal/checker"
	"github.com/hydorlang/hydor/internal/config"
	"github.com/hydorlang/hydor/internal/diagnostics"
	"github.com/hydorlang/hydor/internal/lexer"
	"github.com/hydorlang/hydor/internal/parser"
	"github.com/hydorlang/hydor/internal/pipeline"
	"github.com/hydorlang/hydor/internal/vm"
)

// StartRepl reads lines from in, runs each through the full pipeline
// and prints the value of the last expression. Each line is compiled
// and executed independently.
func StartRepl(in io.Reader, out io.Writer, opts *config.Options) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, opts.Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}

		line := scanner.Text()
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return
		}

		evalLine(line, out, opts)
	}
}

func evalLine(line string, out io.Writer, opts *config.Options) {
	initialContext := pipeline.NewPipelineContext(line)
	initialContext.FilePath = "<repl>"

	processingPipeline := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&checker.CheckerProcessor{},
		&vm.CompilerProcessor{},
	)

	finalContext := processingPipeline.Run(initialContext)

	reporter := diagnostics.NewReporter(line, "<repl>")
	if len(finalContext.Errors) > 0 {
		for _, err := range finalContext.Errors {
			reporter.Report(out, err)
		}
		return
	}

	chunk, ok := finalContext.Chunk.(*vm.Chunk)
	if !ok || chunk == nil {
		return
	}

	if opts.ShowBytecode {
		fmt.Fprint(out, vm.Disassemble(chunk, "<repl>"))
	}

	machine := vm.NewWithStackSize(chunk, opts.StackSize)
	if err := machine.Run(); err != nil {
		reporter.Report(out, err)
		return
	}

	if result, ok := machine.LastPopped(); ok {
		fmt.Fprintln(out, machine.InspectValue(result))
	}
}
