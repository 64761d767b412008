package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hydorlang/hydor/internal/config"
)

func TestReplEvaluatesExpressions(t *testing.T) {
	in := strings.NewReader("1 + 2\n\"a\" + \"b\"\n")
	var out bytes.Buffer

	StartRepl(in, &out, config.DefaultOptions())

	got := out.String()
	if !strings.Contains(got, "3\n") {
		t.Errorf("output missing integer result:\n%s", got)
	}
	if !strings.Contains(got, "ab\n") {
		t.Errorf("output missing string result:\n%s", got)
	}
}

func TestReplSurvivesErrors(t *testing.T) {
	in := strings.NewReader("1 + true\n2 * 3\n")
	var out bytes.Buffer

	StartRepl(in, &out, config.DefaultOptions())

	got := out.String()
	if !strings.Contains(got, "error") {
		t.Errorf("output missing diagnostic:\n%s", got)
	}
	if !strings.Contains(got, "6\n") {
		t.Errorf("session did not continue past the error:\n%s", got)
	}
}

func TestReplExitCommand(t *testing.T) {
	in := strings.NewReader("exit\n99\n")
	var out bytes.Buffer

	StartRepl(in, &out, config.DefaultOptions())

	if strings.Contains(out.String(), "99") {
		t.Errorf("session kept running after exit:\n%s", out.String())
	}
}

func TestReplShowsBytecode(t *testing.T) {
	in := strings.NewReader("7\n")
	var out bytes.Buffer

	opts := config.DefaultOptions()
	opts.ShowBytecode = true
	StartRepl(in, &out, opts)

	if !strings.Contains(out.String(), "HALT") {
		t.Errorf("output missing disassembly:\n%s", out.String())
	}
}

func TestIsSourceFile(t *testing.T) {
	if !isSourceFile("script.hy") {
		t.Error("script.hy not recognized")
	}
	if !isSourceFile("script.hydor") {
		t.Error("script.hydor not recognized")
	}
	if isSourceFile("script.txt") {
		t.Error("script.txt wrongly recognized")
	}
}
