package golang

import "github.com/tighterror/tighterror/internal/mir"

func (e *Emitter) emitCompare(recv, typ string) {
	e.p("// Compare orders by value, returning -1, 0 or +1.\n")
	e.p("func (%s %s) Compare(o %s) int {\n", recv, typ, typ)
	e.p("\tswitch {\n")
	e.p("\tcase %s.v < o.v:\n\t\treturn -1\n", recv)
	e.p("\tcase %s.v > o.v:\n\t\treturn 1\n", recv)
	e.p("\t}\n\treturn 0\n}\n\n")
}

func (e *Emitter) emitCategoryType(m *mir.Module) {
	cat := m.Cat.Name
	e.doc("", m.Cat.Doc)
	e.p("type %s struct {\n\tv %s\n}\n\n", cat, m.Repr)

	e.p("// Name returns the category name.\n")
	e.p("func (c %s) Name() string {\n\treturn %s[c.v]\n}\n\n", cat, m.Private.CategoryNames)
	e.p("// String returns the category name.\n")
	e.p("func (c %s) String() string {\n\treturn c.Name()\n}\n\n", cat)
	e.p("// Value returns the category index.\n")
	e.p("func (c %s) Value() %s {\n\treturn c.v\n}\n\n", cat, m.Repr)
	e.emitCompare("c", cat)
}

func (e *Emitter) emitCategories(m *mir.Module) {
	e.p("// %s holds the error category constants.\n", m.CategoriesVar)
	e.readOnly()
	e.p("var %s = struct {\n", m.CategoriesVar)
	for _, c := range m.Categories {
		e.doc("\t", c.Doc)
		e.p("\t%s %s\n", c.Const, m.Cat.Name)
	}
	e.p("}{\n")
	for _, c := range m.Categories {
		e.p("\t%s: %s{%d},\n", c.Const, m.Cat.Name, c.Index)
	}
	e.p("}\n\n")
}

// readOnly continues the doc comment of a constant table. Go has no struct
// constants, so the table is a variable that callers must not assign to.
func (e *Emitter) readOnly() {
	e.p("//\n// It is read-only by contract: assigning to its fields breaks\n")
	e.p("// comparisons made by every other user of the package.\n")
}

func (e *Emitter) emitKindType(m *mir.Module) {
	kind, pv := m.Kind.Name, m.Private
	e.doc("", m.Kind.Doc)
	e.p("type %s struct {\n\tv %s\n}\n\n", kind, m.Repr)

	consts := [][2]string{}
	if m.Check != mir.CheckVariantOnly {
		consts = append(consts, [2]string{pv.VariantBits, dec(uint64(m.Plan.VariantBits))})
	}
	if m.HasCategoryBits() {
		consts = append(consts,
			[2]string{pv.VariantMask, hex(m.Plan.VariantMask)},
			[2]string{pv.CategoryMax, dec(m.CategoryMax)},
		)
	}
	if len(consts) > 0 {
		e.p("const (\n")
		for _, c := range consts {
			e.p("\t%s = %s\n", c[0], c[1])
		}
		e.p(")\n\n")
	}

	if m.HasCategoryBits() {
		e.p("func (k %s) cat() %s {\n\treturn k.v >> %s\n}\n\n", kind, m.Repr, pv.VariantBits)
		e.p("func (k %s) variant() %s {\n\treturn k.v & %s\n}\n\n", kind, m.Repr, pv.VariantMask)
	} else {
		e.p("func (%s) cat() %s {\n\treturn 0\n}\n\n", kind, m.Repr)
		e.p("func (k %s) variant() %s {\n\treturn k.v\n}\n\n", kind, m.Repr)
	}

	e.p("// Category returns the category of the kind.\n")
	e.p("func (k %s) Category() %s {\n\treturn %s{k.cat()}\n}\n\n", kind, m.Cat.Name, m.Cat.Name)
	e.p("// Name returns the kind name.\n")
	e.p("func (k %s) Name() string {\n\treturn %s[k.cat()][k.variant()]\n}\n\n", kind, pv.KindNames)
	e.p("func (k %s) display() string {\n\treturn %s[k.cat()][k.variant()]\n}\n\n", kind, pv.KindDisplays)
	e.p("// Value returns the packed kind value.\n//\n")
	e.p("// Values follow the declaration order of categories and errors, so\n")
	e.p("// reordering the specification changes them.\n")
	e.p("func (k %s) Value() %s {\n\treturn k.v\n}\n\n", kind, m.Repr)
	e.p("// String returns the kind name.\n")
	e.p("func (k %s) String() string {\n\treturn k.Name()\n}\n\n", kind)
	e.emitCompare("k", kind)

	if m.NoStd {
		e.p("// Err returns an error of kind k.\n")
		e.p("func (k %s) Err() %s {\n\treturn %s{kind: k}\n}\n\n", kind, m.Err.Name, m.Err.Name)
		return
	}
	e.p("// Err returns an error of kind k located at the caller.\n")
	e.p("func (k %s) Err() %s {\n\treturn k.err(2)\n}\n\n", kind, m.Err.Name)
	e.p("func (k %s) err(skip int) %s {\n", kind, m.Err.Name)
	e.p("\treturn %s{kind: k, loc: tighterror.Caller(skip)}\n}\n\n", m.Err.Name)
}

func (e *Emitter) emitKinds(m *mir.Module) {
	kind := m.Kind.Name
	if m.Flat {
		e.p("// %s holds the error kind constants.\n", m.KindsVar)
		e.readOnly()
		e.p("var %s = struct {\n", m.KindsVar)
		for _, k := range m.Kinds {
			e.doc("\t", k.Doc)
			e.p("\t%s %s\n", k.Const, kind)
		}
		e.p("}{\n")
		for _, k := range m.Kinds {
			e.p("\t%s: %s{%s},\n", k.Const, kind, dec(k.Value))
		}
		e.p("}\n\n")
		return
	}

	for _, c := range m.Categories {
		e.p("// %s holds the kinds of category %s.\n", c.KindsType, c.Name)
		e.p("type %s struct {\n", c.KindsType)
		for _, k := range c.Kinds {
			e.doc("\t", k.Doc)
			e.p("\t%s %s\n", k.Const, kind)
		}
		e.p("}\n\n")
	}
	e.p("// %s holds the error kind constants grouped by category.\n", m.KindsVar)
	e.readOnly()
	e.p("var %s = struct {\n", m.KindsVar)
	for _, c := range m.Categories {
		e.doc("\t", c.Doc)
		e.p("\t%s %s\n", c.KindsField, c.KindsType)
	}
	e.p("}{\n")
	for _, c := range m.Categories {
		e.p("\t%s: %s{\n", c.KindsField, c.KindsType)
		for _, k := range c.Kinds {
			e.p("\t\t%s: %s{%s},\n", k.Const, kind, dec(k.Value))
		}
		e.p("\t},\n")
	}
	e.p("}\n\n")
}

func (e *Emitter) emitErrorType(m *mir.Module) {
	errT, kind := m.Err.Name, m.Kind.Name
	e.doc("", m.Err.Doc)
	e.p("type %s struct {\n\tkind %s\n", errT, kind)
	if !m.NoStd {
		e.p("\tloc  tighterror.Location\n")
	}
	e.p("}\n\n")

	e.p("// Kind returns the error kind.\n")
	e.p("func (e %s) Kind() %s {\n\treturn e.kind\n}\n\n", errT, kind)
	if !m.NoStd {
		e.p("// Location returns where the error was created.\n")
		e.p("func (e %s) Location() tighterror.Location {\n\treturn e.loc\n}\n\n", errT)
	}
	e.p("// String returns the display string of the error kind.\n")
	e.p("func (e %s) String() string {\n\treturn e.kind.display()\n}\n\n", errT)
	e.p("// Equal reports whether e and o have the same kind. Locations are not compared.\n")
	e.p("func (e %s) Equal(o %s) bool {\n\treturn e.kind == o.kind\n}\n\n", errT, errT)
	if !m.ErrorTrait {
		return
	}
	e.p("// Error returns the display string of the error kind.\n")
	e.p("func (e %s) Error() string {\n\treturn e.kind.display()\n}\n\n", errT)
	e.p("// Is reports whether target carries the same error kind.\n")
	e.p("func (e %s) Is(target error) bool {\n", errT)
	e.p("\tt, ok := target.(interface{ Kind() %s })\n", kind)
	e.p("\treturn ok && t.Kind() == e.kind\n}\n\n")
}
