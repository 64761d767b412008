package diagnostics

import (
	"fmt"
	"io"
	"strings"
)

// Reporter renders diagnostics against the original source text,
// underlining the blamed span with carets.
type Reporter struct {
	source string
	file   string
	lines  []string
}

func NewReporter(source, file string) *Reporter {
	return &Reporter{
		source: source,
		file:   file,
		lines:  strings.Split(source, "\n"),
	}
}

// Report writes one rendered diagnostic to w.
func (r *Reporter) Report(w io.Writer, err error) {
	spanned, ok := err.(Spanned)
	if !ok {
		fmt.Fprintf(w, "error: %s\n", err.Error())
		return
	}

	span := spanned.ErrorSpan()
	fmt.Fprintf(w, "error: %s\n", err.Error())

	if span.Line < 1 || span.Line > len(r.lines) {
		return
	}

	line := r.lines[span.Line-1]
	prefix := fmt.Sprintf("  %d | ", span.Line)
	fmt.Fprintf(w, "%s%s\n", prefix, line)

	start := span.StartColumn
	end := span.EndColumn
	if start < 1 {
		start = 1
	}
	if end < start {
		end = start
	}
	if end > len(line)+1 {
		end = len(line) + 1
	}

	fmt.Fprintf(w, "%s%s%s\n",
		strings.Repeat(" ", len(prefix)),
		strings.Repeat(" ", start-1),
		strings.Repeat("^", end-start+1))
}

// ReportAll renders every diagnostic in order.
func (r *Reporter) ReportAll(w io.Writer, errs []error) {
	for _, err := range errs {
		r.Report(w, err)
	}
}
