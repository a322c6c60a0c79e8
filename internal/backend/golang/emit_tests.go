package golang

import (
	"strconv"

	"github.com/tighterror/tighterror/internal/mir"
)

func (e *Emitter) testImports() []string {
	var needErrors, needFilepath bool
	for _, m := range e.unit.Modules {
		for _, tc := range m.Tests {
			switch tc.Kind {
			case mir.TestErrorIs:
				needErrors = true
			case mir.TestErrLocation:
				needFilepath = true
			}
		}
	}
	var out []string
	if needErrors {
		out = append(out, "errors")
	}
	if needFilepath {
		out = append(out, "path/filepath")
	}
	return append(out, "testing")
}

func (e *Emitter) emitTestFile() {
	u := e.unit
	e.p("%s\n\n", Header)
	e.p("package %s\n\n", u.Package)
	e.p("import (\n")
	for _, imp := range e.testImports() {
		e.p("\t%s\n", strconv.Quote(imp))
	}
	e.p(")\n\n")
	for _, m := range u.Modules {
		if len(m.Tests) == 0 {
			continue
		}
		e.emitTestCases(m)
		for _, tc := range m.Tests {
			e.emitTest(m, tc)
		}
	}
}

func (e *Emitter) emitTestCases(m *mir.Module) {
	pv := m.Private
	e.p("var %s = []struct {\n\tcat   %s\n\tname  string\n\tvalue %s\n}{\n", pv.CategoryCases, m.Cat.Name, m.Repr)
	for _, c := range m.Categories {
		e.p("\t{%s, %s, %d},\n", c.Ref, quote(c.Name), c.Index)
	}
	e.p("}\n\n")

	e.p("var %s = []struct {\n\tkind    %s\n\tcat     %s\n\tname    string\n\tdisplay string\n\tvalue   %s\n}{\n",
		pv.KindCases, m.Kind.Name, m.Cat.Name, m.Repr)
	for _, k := range m.Kinds {
		c := m.Categories[k.Category]
		e.p("\t{%s, %s, %s, %s, %s},\n", k.Ref, c.Ref, quote(k.Name), quote(k.Display), dec(k.Value))
	}
	e.p("}\n\n")
}

func (e *Emitter) openTest(tc mir.TestCase) {
	e.p("func %s(t *testing.T) {\n", tc.Func)
}

func (e *Emitter) closeTest() {
	e.p("}\n\n")
}

func (e *Emitter) emitTest(m *mir.Module, tc mir.TestCase) {
	pv := m.Private
	e.openTest(tc)
	defer e.closeTest()
	switch tc.Kind {
	case mir.TestCategoryName:
		e.p("\tfor _, c := range %s {\n", pv.CategoryCases)
		e.p("\t\tif got := c.cat.Name(); got != c.name {\n")
		e.p("\t\t\tt.Errorf(\"category %%d: Name() = %%q, want %%q\", c.value, got, c.name)\n\t\t}\n\t}\n")

	case mir.TestCategoryDisplay:
		e.p("\tfor _, c := range %s {\n", pv.CategoryCases)
		e.p("\t\tif got := c.cat.String(); got != c.name {\n")
		e.p("\t\t\tt.Errorf(\"category %%d: String() = %%q, want %%q\", c.value, got, c.name)\n\t\t}\n\t}\n")

	case mir.TestCategoryUniqueness:
		e.p("\tcats := make(map[%s]struct{})\n\tnames := make(map[string]struct{})\n", m.Cat.Name)
		e.p("\tfor _, c := range %s {\n", pv.CategoryCases)
		e.p("\t\tcats[c.cat] = struct{}{}\n\t\tnames[c.cat.Name()] = struct{}{}\n\t}\n")
		e.p("\tif len(cats) != len(%s) || len(names) != len(%s) {\n", pv.CategoryCases, pv.CategoryCases)
		e.p("\t\tt.Errorf(\"%%d categories, %%d names, want %%d\", len(cats), len(names), len(%s))\n\t}\n", pv.CategoryCases)

	case mir.TestCategoryValues:
		e.p("\tfor i, c := range %s {\n", pv.CategoryCases)
		e.p("\t\tif got := c.cat.Value(); got != c.value || int(got) != i {\n")
		e.p("\t\t\tt.Errorf(\"%%s: Value() = %%d, want %%d\", c.name, got, i)\n\t\t}\n\t}\n")

	case mir.TestKindName:
		e.p("\tfor _, c := range %s {\n", pv.KindCases)
		e.p("\t\tif got := c.kind.Name(); got != c.name {\n")
		e.p("\t\t\tt.Errorf(\"kind %%d: Name() = %%q, want %%q\", c.value, got, c.name)\n\t\t}\n")
		e.p("\t\tif got := c.kind.String(); got != c.name {\n")
		e.p("\t\t\tt.Errorf(\"kind %%d: String() = %%q, want %%q\", c.value, got, c.name)\n\t\t}\n\t}\n")

	case mir.TestKindDisplay:
		e.p("\tfor _, c := range %s {\n", pv.KindCases)
		e.p("\t\tif got := c.kind.display(); got != c.display {\n")
		e.p("\t\t\tt.Errorf(\"%%s: display() = %%q, want %%q\", c.name, got, c.display)\n\t\t}\n\t}\n")

	case mir.TestKindUniqueness:
		e.p("\tkinds := make(map[%s]struct{})\n", m.Kind.Name)
		e.p("\tfor _, c := range %s {\n\t\tkinds[c.kind] = struct{}{}\n\t}\n", pv.KindCases)
		e.p("\tif len(kinds) != len(%s) {\n", pv.KindCases)
		e.p("\t\tt.Errorf(\"%%d distinct kinds, want %%d\", len(kinds), len(%s))\n\t}\n", pv.KindCases)

	case mir.TestKindValueUniqueness:
		e.p("\tvalues := make(map[%s]string)\n", m.Repr)
		e.p("\tfor _, c := range %s {\n", pv.KindCases)
		e.p("\t\tif prev, dup := values[c.kind.Value()]; dup {\n")
		e.p("\t\t\tt.Errorf(\"%%s and %%s share value %%d\", prev, c.name, c.kind.Value())\n\t\t}\n")
		e.p("\t\tvalues[c.kind.Value()] = c.name\n\t}\n")

	case mir.TestKindValue:
		e.p("\tfor _, c := range %s {\n", pv.KindCases)
		e.p("\t\tif got := c.kind.Value(); got != c.value {\n")
		e.p("\t\t\tt.Errorf(\"%%s: Value() = %%d, want %%d\", c.name, got, c.value)\n\t\t}\n\t}\n")

	case mir.TestKindCategory:
		e.p("\tfor _, c := range %s {\n", pv.KindCases)
		e.p("\t\tif got := c.kind.Category(); got != c.cat {\n")
		e.p("\t\t\tt.Errorf(\"%%s: Category() = %%v, want %%v\", c.name, got, c.cat)\n\t\t}\n\t}\n")

	case mir.TestKindFromValue:
		e.p("\tfor _, c := range %s {\n", pv.KindCases)
		e.p("\t\tgot, ok := %s(c.kind.Value())\n", m.FromValue)
		e.p("\t\tif !ok || got != c.kind {\n")
		e.p("\t\t\tt.Errorf(\"%s(%%d) = %%v, %%t, want %%s\", c.kind.Value(), got, ok, c.name)\n\t\t}\n\t}\n", m.FromValue)

	case mir.TestKindFromValueInvalid:
		e.p("\tfor _, v := range []%s{", m.Repr)
		for i, v := range m.InvalidProbes {
			if i > 0 {
				e.p(", ")
			}
			e.p("%s", hex(v))
		}
		e.p("} {\n")
		e.p("\t\tif k, ok := %s(v); ok {\n", m.FromValue)
		e.p("\t\t\tt.Errorf(\"%s(%%#x) = %%v, want none\", v, k)\n\t\t}\n\t}\n", m.FromValue)

	case mir.TestVariantTypes:
		e.emitVariantTypeTest(m)

	case mir.TestKindResult:
		e.p("\tfor _, c := range %s {\n", pv.KindCases)
		e.p("\t\tv, err := %s[int](c.kind)\n", m.KindResult)
		e.p("\t\tif v != 0 || %s != c.kind {\n", errKind(m, "err"))
		e.p("\t\t\tt.Errorf(\"%s(%%s) = %%d, %%v\", c.name, v, err)\n\t\t}\n\t}\n", m.KindResult)

	case mir.TestErrResult:
		e.p("\tfor _, c := range %s {\n", pv.KindCases)
		e.p("\t\tv, err := %s[string](c.kind.Err())\n", m.ErrResult)
		e.p("\t\tif v != \"\" || %s != c.kind {\n", errKind(m, "err"))
		e.p("\t\t\tt.Errorf(\"%s(%%s) = %%q, %%v\", c.name, v, err)\n\t\t}\n\t}\n", m.ErrResult)

	case mir.TestErrDisplay:
		e.p("\tfor _, c := range %s {\n", pv.KindCases)
		e.p("\t\terr := c.kind.Err()\n")
		e.p("\t\tif got := err.String(); got != c.display {\n")
		e.p("\t\t\tt.Errorf(\"%%s: String() = %%q, want %%q\", c.name, got, c.display)\n\t\t}\n")
		if m.ErrorTrait {
			e.p("\t\tif got := err.Error(); got != c.display {\n")
			e.p("\t\t\tt.Errorf(\"%%s: Error() = %%q, want %%q\", c.name, got, c.display)\n\t\t}\n")
		}
		e.p("\t}\n")

	case mir.TestErrLocation:
		e.p("\tfor _, c := range %s {\n", pv.KindCases)
		e.p("\t\tloc := c.kind.Err().Location()\n")
		e.p("\t\tif loc.IsUndefined() || filepath.Base(loc.File) != %s {\n", quote(e.unit.Name+"_test.go"))
		e.p("\t\t\tt.Errorf(\"%%s: Location() = %%v\", c.name, loc)\n\t\t}\n\t}\n")

	case mir.TestErrorIs:
		e.p("\tfor i, c := range %s {\n", pv.KindCases)
		e.p("\t\tvar err error = c.kind.Err()\n")
		e.p("\t\tif !errors.Is(err, c.kind.Err()) {\n")
		e.p("\t\t\tt.Errorf(\"%%s: errors.Is does not match its own kind\", c.name)\n\t\t}\n")
		e.p("\t\tif i > 0 && errors.Is(err, %s[i-1].kind.Err()) {\n", pv.KindCases)
		e.p("\t\t\tt.Errorf(\"%%s: errors.Is matches %%s\", c.name, %s[i-1].name)\n\t\t}\n\t}\n", pv.KindCases)
	}
}

// errKind is the expression reading the kind out of a result error.
func errKind(m *mir.Module, v string) string {
	if m.ErrorTrait {
		return v + ".(" + m.Err.Name + ").Kind()"
	}
	return v + ".Kind()"
}

func (e *Emitter) emitVariantTypeTest(m *mir.Module) {
	for _, vt := range m.VariantTypes {
		k := vt.Kind
		c := m.Categories[k.Category]
		e.p("\tt.Run(%s, func(t *testing.T) {\n", quote(c.Ident+"."+k.Ident))
		e.p("\t\tvar v %s\n", vt.Name)
		e.p("\t\tif v.Kind() != %s || v.Category() != %s || v.Name() != %s {\n", k.Ref, c.Ref, quote(k.Name))
		e.p("\t\t\tt.Errorf(\"%s = (%%v, %%v, %%q)\", v.Kind(), v.Category(), v.Name())\n\t\t}\n", vt.Name)
		e.p("\t\tif got := v.Err().Kind(); got != %s {\n", k.Ref)
		e.p("\t\t\tt.Errorf(\"Err().Kind() = %%v\", got)\n\t\t}\n")
		if m.ErrorTrait {
			e.p("\t\tif got := v.Error(); got != %s {\n", quote(k.Display))
			e.p("\t\t\tt.Errorf(\"Error() = %%q\", got)\n\t\t}\n")
		}
		if m.ErrResult != "" {
			e.p("\t\tif _, err := %s[bool](v.Err()); %s != %s {\n", m.ErrResult, errKind(m, "err"), k.Ref)
			e.p("\t\t\tt.Errorf(\"%s(Err()) = %%v\", err)\n\t\t}\n", m.ErrResult)
		}
		e.p("\t})\n")
	}
}
