package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Options represents the hydor.yaml project configuration.
type Options struct {
	// StackSize overrides the VM operand stack capacity.
	// Defaults to MaxStack when omitted or non-positive.
	StackSize int `yaml:"stack_size,omitempty"`

	// ShowBytecode prints the disassembled chunk before execution.
	ShowBytecode bool `yaml:"show_bytecode,omitempty"`

	// Prompt overrides the REPL prompt string.
	Prompt string `yaml:"prompt,omitempty"`
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() *Options {
	return &Options{
		StackSize: MaxStack,
		Prompt:    DefaultPrompt,
	}
}

// LoadOptions reads hydor.yaml from dir. A missing file is not an
// error; defaults are returned.
func LoadOptions(dir string) (*Options, error) {
	opts := DefaultOptions()

	path := filepath.Join(dir, OptionsFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if opts.StackSize <= 0 {
		opts.StackSize = MaxStack
	}
	if opts.Prompt == "" {
		opts.Prompt = DefaultPrompt
	}

	return opts, nil
}
