package golang

import (
	"strconv"

	"github.com/tighterror/tighterror/internal/mir"
)

func dec(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func hex(v uint64) string {
	return "0x" + strconv.FormatUint(v, 16)
}

func (e *Emitter) emitFromValue(m *mir.Module) {
	kind, pv := m.Kind.Name, m.Private
	e.p("// %s returns the kind with value v. It reports false when v does not\n", m.FromValue)
	e.p("// encode a declared kind.\n")
	e.p("func %s(v %s) (%s, bool) {\n", m.FromValue, m.Repr, kind)
	switch m.Check {
	case mir.CheckCategoryMax:
		e.p("\tcat := v >> %s\n", pv.VariantBits)
		e.p("\tif cat > %s || v&%s > %s[cat] {\n", pv.CategoryMax, pv.VariantMask, pv.VariantMax)
	case mir.CheckCategoryZero:
		e.p("\tif v>>%s != 0 || v > %s[0] {\n", pv.VariantBits, pv.VariantMax)
	case mir.CheckVariantOnly:
		e.p("\tif v > %s[0] {\n", pv.VariantMax)
	}
	e.p("\t\treturn %s{}, false\n\t}\n", kind)
	e.p("\treturn %s{v}, true\n}\n\n", kind)
}

// resultErr is the error side of generated result conversions.
func resultErr(m *mir.Module) string {
	if m.ErrorTrait {
		return "error"
	}
	return m.Err.Name
}

func (e *Emitter) emitResults(m *mir.Module) {
	errSide := resultErr(m)
	if m.KindResult != "" {
		e.p("// %s returns the zero T and an error of kind k", m.KindResult)
		if m.NoStd {
			e.p(".\n")
		} else {
			e.p(" located at\n// the caller.\n")
		}
		e.p("func %s[T any](k %s) (T, %s) {\n\tvar zero T\n", m.KindResult, m.Kind.Name, errSide)
		if m.NoStd {
			e.p("\treturn zero, %s{kind: k}\n}\n\n", m.Err.Name)
		} else {
			e.p("\treturn zero, k.err(2)\n}\n\n")
		}
	}
	if m.ErrResult != "" {
		e.p("// %s returns the zero T and err.\n", m.ErrResult)
		e.p("func %s[T any](err %s) (T, %s) {\n\tvar zero T\n\treturn zero, err\n}\n\n", m.ErrResult, m.Err.Name, errSide)
	}
}

func (e *Emitter) emitVariantTypes(m *mir.Module) {
	for _, vt := range m.VariantTypes {
		k := vt.Kind
		c := m.Categories[k.Category]
		e.doc("", vt.Doc)
		e.p("type %s struct{}\n\n", vt.Name)
		e.p("// Category returns %s.\n", c.Ref)
		e.p("func (%s) Category() %s {\n\treturn %s\n}\n\n", vt.Name, m.Cat.Name, c.Ref)
		e.p("// Kind returns %s.\n", k.Ref)
		e.p("func (%s) Kind() %s {\n\treturn %s\n}\n\n", vt.Name, m.Kind.Name, k.Ref)
		e.p("// Name returns the kind name.\n")
		e.p("func (%s) Name() string {\n\treturn %s\n}\n\n", vt.Name, quote(k.Name))
		if m.NoStd {
			e.p("// Err returns an error of kind %s.\n", k.Ref)
			e.p("func (%s) Err() %s {\n\treturn %s.Err()\n}\n\n", vt.Name, m.Err.Name, k.Ref)
		} else {
			e.p("// Err returns an error of kind %s located at the caller.\n", k.Ref)
			e.p("func (%s) Err() %s {\n\treturn %s.err(2)\n}\n\n", vt.Name, m.Err.Name, k.Ref)
		}
		if m.ErrorTrait {
			e.p("// Error returns the display string of the kind.\n")
			e.p("func (%s) Error() string {\n\treturn %s.display()\n}\n\n", vt.Name, k.Ref)
		}
	}
}

func (e *Emitter) emitTables(m *mir.Module) {
	pv := m.Private
	n := len(m.Categories)

	e.p("var %s = [%d]string{\n", pv.CategoryNames, n)
	for _, c := range m.Categories {
		e.p("\t%s,\n", quote(c.Name))
	}
	e.p("}\n\n")

	e.emitKindTable(m, pv.KindNames, func(k *mir.Kind) string { return k.Name })
	e.emitKindTable(m, pv.KindDisplays, func(k *mir.Kind) string { return k.Display })

	e.p("var %s = [%d]%s{", pv.VariantMax, n, m.Repr)
	for i, c := range m.Categories {
		if i > 0 {
			e.p(", ")
		}
		e.p("%s", dec(c.VariantMax))
	}
	e.p("}\n\n")
}

func (e *Emitter) emitKindTable(m *mir.Module, name string, text func(*mir.Kind) string) {
	e.p("var %s = [%d][]string{\n", name, len(m.Categories))
	for _, c := range m.Categories {
		e.p("\t{\n")
		for _, k := range c.Kinds {
			e.p("\t\t%s,\n", quote(text(k)))
		}
		e.p("\t},\n")
	}
	e.p("}\n\n")
}

func (e *Emitter) emitConformance(m *mir.Module) {
	e.p("var (\n")
	e.p("\t_ tighterror.Category[%s] = %s{}\n", m.Repr, m.Cat.Name)
	e.p("\t_ tighterror.Kind[%s, %s] = %s{}\n", m.Repr, m.Cat.Name, m.Kind.Name)
	if m.ErrorTrait {
		e.p("\t_ tighterror.Error[%s] = %s{}\n", m.Kind.Name, m.Err.Name)
	}
	for _, vt := range m.VariantTypes {
		e.p("\t_ tighterror.VariantType[%s, %s] = %s{}\n", m.Cat.Name, m.Kind.Name, vt.Name)
	}
	e.p(")\n\n")
}
