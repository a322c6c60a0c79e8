package diag

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tighterror/tighterror/internal/source"
)

// FormatGoldenDiagnostics renders diagnostics one per line as
// "<severity> <ID> <path>:<line>:<col> <message>", keeping their order.
// Notes follow their diagnostic when includeNotes is set.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	var b strings.Builder
	for _, d := range diags {
		writeGoldenLine(&b, d.Severity.Label(), d.Code, d.Primary, d.Message, fs)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			writeGoldenLine(&b, "note", d.Code, n.Span, n.Msg, fs)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeGoldenLine(b *strings.Builder, sev string, code Code, span source.Span, msg string, fs *source.FileSet) {
	fmt.Fprintf(b, "%s %s %s %s\n", sev, code.ID(), goldenLocation(span, fs), sanitizeMessage(msg))
}

func goldenLocation(span source.Span, fs *source.FileSet) string {
	if !span.Valid() || fs == nil {
		return "-"
	}
	f := fs.Get(span.File)
	if f == nil {
		return "-"
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", filepath.ToSlash(f.Path), start.Line, start.Col)
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
