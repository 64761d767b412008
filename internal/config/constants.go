package config

const SourceFileExt = ".hy"

// Version is the interpreter version reported by --version
const Version = "0.3.0"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".hy", ".hydor"}

// BundleFileExt is the extension for compiled bytecode bundles
const BundleFileExt = ".hyc"

// MaxStack is the default operand stack capacity of a VM instance
const MaxStack = 10_000

// DefaultPrompt is the REPL prompt
const DefaultPrompt = ">> "

// OptionsFileName is the per-project options file looked up next to the
// source file being run
const OptionsFileName = "hydor.yaml"
