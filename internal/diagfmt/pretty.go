package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/tighterror/tighterror/internal/diag"
	"github.com/tighterror/tighterror/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info *color.Color
	code, gutter    *color.Color
	caret, note     *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty prints diagnostics for humans:
//
//	path:line:col: ERROR PRS1003: message
//	   2 |   - name: bad_cat
//	     |           ^~~~~~~
//	  note: path:line:col: text
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			location(d.Primary, fs, opts.PathMode, opts.BaseDir),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message,
		)
		snippet(w, d.Primary, fs, opts, p)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(n.Span, fs, opts.PathMode, opts.BaseDir), n.Msg)
		}
	}
}

func location(sp source.Span, fs *source.FileSet, mode PathMode, base string) string {
	f := fs.Get(sp.File)
	if !sp.Valid() || f == nil {
		return "<spec>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f.Path, mode, base), start.Line, start.Col)
}

func snippet(w io.Writer, sp source.Span, fs *source.FileSet, opts PrettyOpts, p palette) {
	f := fs.Get(sp.File)
	if !sp.Valid() || f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}
	ctx := uint32(max(opts.Context, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := start.Line + ctx
	if lines := f.LineCount(); last > lines {
		last = lines
	}
	numWidth := len(strconv.FormatUint(uint64(last), 10))

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		if ln != start.Line && strings.TrimSpace(text) == "" {
			continue
		}
		display := expandTabs(text)
		if opts.Width > 0 && runewidth.StringWidth(display) > int(opts.Width) {
			display = runewidth.Truncate(display, int(opts.Width), "...")
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", numWidth, ln), display)
		if ln != start.Line {
			continue
		}
		col, width := underline(text, start, end)
		fmt.Fprintf(w, "%s %s%s\n",
			p.gutter.Sprintf("%*s |", numWidth, ""),
			strings.Repeat(" ", col),
			p.caret.Sprint("^"+strings.Repeat("~", width-1)),
		)
	}
}

// underline returns the display column and width of the span on its first
// line. Multi-line spans are cut at the end of that line.
func underline(line string, start, end source.LineCol) (col, width int) {
	from := clampCol(line, start.Col)
	to := len(line)
	if end.Line == start.Line {
		to = clampCol(line, end.Col)
	}
	col = runewidth.StringWidth(expandTabs(line[:from]))
	width = runewidth.StringWidth(expandTabs(line[from:max(from, to)]))
	return col, max(width, 1)
}

func clampCol(line string, col uint32) int {
	if col == 0 {
		return 0
	}
	return min(int(col-1), len(line))
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
