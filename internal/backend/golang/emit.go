// Package golang renders symbolic units into Go source files.
package golang

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/tighterror/tighterror/internal/diag"
	"github.com/tighterror/tighterror/internal/mir"
	"github.com/tighterror/tighterror/internal/source"
)

// Header opens every generated file.
const Header = "// Code generated by tighterror; DO NOT EDIT."

// File is one rendered source file.
type File struct {
	// Name is the base file name, e.g. errors.go.
	Name    string
	Content []byte
	Test    bool
	// Unit is the name of the unit the file was rendered from.
	Unit string
}

// Emitter renders one unit.
type Emitter struct {
	unit *mir.Unit
	buf  strings.Builder
}

// EmitUnit renders u into its main file and, when the unit carries tests,
// a _test.go file of the same package.
func EmitUnit(u *mir.Unit) ([]File, error) {
	if u == nil || len(u.Modules) == 0 {
		return nil, nil
	}
	e := &Emitter{unit: u}
	e.emitMain()
	main, err := e.format(u.Name + ".go")
	if err != nil {
		return nil, err
	}
	files := []File{main}
	if u.HasTests() {
		e.buf.Reset()
		e.emitTestFile()
		test, err := e.format(u.Name + "_test.go")
		if err != nil {
			return nil, err
		}
		test.Test = true
		files = append(files, test)
	}
	return files, nil
}

func (e *Emitter) format(name string) (File, error) {
	src := []byte(e.buf.String())
	out, err := imports.Process(name, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return File{}, diag.Errorf(diag.FormatFailed, source.NoSpan, "failed to format %s: %v", name, err)
	}
	return File{Name: name, Content: out, Unit: e.unit.Name}, nil
}

func (e *Emitter) p(format string, args ...any) {
	fmt.Fprintf(&e.buf, format, args...)
}

func (e *Emitter) nl() {
	e.buf.WriteByte('\n')
}

// doc writes text as a // comment block at the given indentation.
func (e *Emitter) doc(indent, text string) {
	if text == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			e.p("%s//\n", indent)
			continue
		}
		e.p("%s// %s\n", indent, line)
	}
}

func (e *Emitter) emitMain() {
	u := e.unit
	e.p("%s\n\n", Header)
	e.doc("", u.Doc)
	e.p("package %s\n\n", u.Package)
	if u.UsesRuntime() {
		e.p("import %s\n\n", strconv.Quote(u.RuntimeImport()))
	}
	for _, m := range u.Modules {
		if u.Nested {
			e.p("// Module %s.\n", m.Name)
			if m.Doc != "" {
				e.p("//\n")
				e.doc("", m.Doc)
			}
			e.nl()
		}
		e.emitModule(m)
	}
}

func (e *Emitter) emitModule(m *mir.Module) {
	e.emitCategoryType(m)
	e.emitCategories(m)
	e.emitKindType(m)
	e.emitKinds(m)
	e.emitFromValue(m)
	e.emitErrorType(m)
	e.emitResults(m)
	e.emitVariantTypes(m)
	e.emitTables(m)
	if !m.NoStd {
		e.emitConformance(m)
	}
}

func quote(s string) string {
	return strconv.Quote(s)
}
