package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/hydorlang/hydor/internal/checker"
	"github.com/hydorlang/hydor/internal/config"
	"github.com/hydorlang/hydor/internal/diagnostics"
	"github.com/hydorlang/hydor/internal/lexer"
	"github.com/hydorlang/hydor/internal/parser"
	"github.com/hydorlang/hydor/internal/pipeline"
	"github.com/hydorlang/hydor/internal/vm"
)

// isSourceFile checks if a file has a recognized source extension
func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// compileSource runs the full front end on one source text and returns
// the compiled chunk. Diagnostics from every stage are reported against
// the source via the reporter; a nil chunk means compilation failed.
func compileSource(sourceCode, filePath string, errOut io.Writer) *vm.Chunk {
	initialContext := pipeline.NewPipelineContext(sourceCode)
	initialContext.FilePath = filePath

	processingPipeline := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&checker.CheckerProcessor{},
		&vm.CompilerProcessor{},
	)

	finalContext := processingPipeline.Run(initialContext)

	if len(finalContext.Errors) > 0 {
		reporter := diagnostics.NewReporter(sourceCode, filePath)
		for _, err := range finalContext.Errors {
			reporter.Report(errOut, err)
		}
		return nil
	}

	chunk, ok := finalContext.Chunk.(*vm.Chunk)
	if !ok || chunk == nil {
		fmt.Fprintln(errOut, "internal error: compiler produced no chunk")
		return nil
	}
	return chunk
}

// executeChunk runs a chunk on a fresh VM and reports runtime errors
// against the source. Returns the exit code.
func executeChunk(chunk *vm.Chunk, sourceCode, filePath string, opts *config.Options, out, errOut io.Writer) int {
	if opts.ShowBytecode {
		fmt.Fprint(errOut, vm.Disassemble(chunk, filepath.Base(filePath)))
	}

	machine := vm.NewWithStackSize(chunk, opts.StackSize)
	if err := machine.Run(); err != nil {
		reporter := diagnostics.NewReporter(sourceCode, filePath)
		reporter.Report(errOut, err)
		return 1
	}
	return 0
}

func runSource(sourceCode, filePath string, opts *config.Options) {
	chunk := compileSource(sourceCode, filePath, os.Stderr)
	if chunk == nil {
		os.Exit(1)
	}
	if code := executeChunk(chunk, sourceCode, filePath, opts, os.Stdout, os.Stderr); code != 0 {
		os.Exit(code)
	}
}

func handleHelp() bool {
	if len(os.Args) < 2 {
		return false
	}
	if os.Args[1] != "-help" && os.Args[1] != "--help" && os.Args[1] != "help" {
		return false
	}

	prog := filepath.Base(os.Args[0])
	fmt.Printf(`Usage: %[1]s [options] [file%[2]s]

Run a script, a compiled bundle, or start the REPL (no arguments).

Options:
  -e <expr>          evaluate an expression and print its value
  -c, --compile      compile a script to a %[3]s bundle
  -r, --run          run a compiled %[3]s bundle
  disasm <file>      print the disassembled bytecode of a script or bundle
  -v, --version      print the version
  -help              show this help

Project options are read from %[4]s next to the script.
`, prog, config.SourceFileExt, config.BundleFileExt, config.OptionsFileName)
	return true
}

// handleCompile compiles a source file to a bytecode bundle (.hyc file).
func handleCompile() bool {
	if len(os.Args) < 3 {
		return false
	}
	if os.Args[1] != "-c" && os.Args[1] != "--compile" {
		return false
	}

	sourcePath := os.Args[2]
	sourceCode, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading source file: %s\n", err)
		os.Exit(1)
	}

	chunk := compileSource(string(sourceCode), sourcePath, os.Stderr)
	if chunk == nil {
		os.Exit(1)
	}

	bundle := vm.NewBundle(chunk, filepath.Base(sourcePath))
	data, err := bundle.Serialize()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Serialization error: %s\n", err)
		os.Exit(1)
	}

	outputPath := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + config.BundleFileExt
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing bundle: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("Compiled %s -> %s (%d bytes, build %s)\n", sourcePath, outputPath, len(data), bundle.BuildID)
	return true
}

// handleRunCompiled runs a pre-compiled .hyc bundle.
func handleRunCompiled() bool {
	if len(os.Args) < 3 {
		return false
	}
	if os.Args[1] != "-r" && os.Args[1] != "--run" {
		return false
	}

	bundlePath := os.Args[2]
	data, err := os.ReadFile(bundlePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading bundle: %s\n", err)
		os.Exit(1)
	}

	bundle, err := vm.DeserializeBundle(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Deserialization error: %s\n", err)
		os.Exit(1)
	}

	opts, err := config.LoadOptions(filepath.Dir(bundlePath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	machine := vm.NewWithStackSize(bundle.Chunk, opts.StackSize)
	if err := machine.Run(); err != nil {
		// The original source is not in the bundle; spans still identify
		// the faulting location in the error text.
		fmt.Fprintf(os.Stderr, "Runtime error: %s\n", err)
		os.Exit(1)
	}
	return true
}

// handleDisasm prints the disassembly of a source file or bundle.
func handleDisasm() bool {
	if len(os.Args) < 3 || os.Args[1] != "disasm" {
		return false
	}

	path := os.Args[2]
	var chunk *vm.Chunk

	if strings.HasSuffix(path, config.BundleFileExt) {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading bundle: %s\n", err)
			os.Exit(1)
		}
		bundle, err := vm.DeserializeBundle(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Deserialization error: %s\n", err)
			os.Exit(1)
		}
		chunk = bundle.Chunk
	} else {
		sourceCode, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading source file: %s\n", err)
			os.Exit(1)
		}
		chunk = compileSource(string(sourceCode), path, os.Stderr)
		if chunk == nil {
			os.Exit(1)
		}
	}

	fmt.Print(vm.Disassemble(chunk, filepath.Base(path)))
	return true
}

// handleEval handles -e flag for expression execution mode.
func handleEval() bool {
	if len(os.Args) < 2 {
		return false
	}
	if os.Args[1] != "-e" && os.Args[1] != "--eval" {
		return false
	}
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Error: -e requires an expression argument")
		os.Exit(1)
	}

	expression := os.Args[2]
	chunk := compileSource(expression, "<eval>", os.Stderr)
	if chunk == nil {
		os.Exit(1)
	}

	machine := vm.New(chunk)
	if err := machine.Run(); err != nil {
		reporter := diagnostics.NewReporter(expression, "<eval>")
		reporter.Report(os.Stderr, err)
		os.Exit(1)
	}
	if result, ok := machine.LastPopped(); ok {
		fmt.Println(machine.InspectValue(result))
	}
	return true
}

func readInputFromArgs(args []string) (string, string, error) {
	if len(args) >= 2 {
		path := args[1]
		input, err := os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("reading input: %w", err)
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			absPath = path
		}
		return string(input), absPath, nil
	}

	// No file argument: read the whole script from stdin.
	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(input), "<stdin>", nil
}

func Run() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r) // Re-panic to get stack trace
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	if len(os.Args) == 2 {
		switch os.Args[1] {
		case "-v", "-version", "--version":
			fmt.Println("hydor " + config.Version)
			return
		}
	}

	if handleHelp() {
		return
	}
	if handleCompile() {
		return
	}
	if handleRunCompiled() {
		return
	}
	if handleDisasm() {
		return
	}
	if handleEval() {
		return
	}

	// A bundle path given directly runs like -r.
	if len(os.Args) >= 2 && strings.HasSuffix(os.Args[1], config.BundleFileExt) {
		os.Args = append([]string{os.Args[0], "-r"}, os.Args[1:]...)
		handleRunCompiled()
		return
	}

	// No arguments on a terminal: interactive session.
	if len(os.Args) == 1 && isatty.IsTerminal(os.Stdin.Fd()) {
		cwd, err := os.Getwd()
		if err != nil {
			cwd = "."
		}
		opts, err := config.LoadOptions(cwd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("hydor %s\n", config.Version)
		StartRepl(os.Stdin, os.Stdout, opts)
		return
	}

	sourceCode, filePath, err := readInputFromArgs(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if sourceCode == "" {
		return // Nothing to do
	}

	if filePath != "<stdin>" && !isSourceFile(filePath) {
		fmt.Fprintf(os.Stderr, "Warning: %s does not have a recognized source extension\n", filepath.Base(filePath))
	}

	opts, err := config.LoadOptions(filepath.Dir(filePath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	runSource(sourceCode, filePath, opts)
}
