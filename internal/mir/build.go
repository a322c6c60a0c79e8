package mir

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/tighterror/tighterror/internal/casing"
	"github.com/tighterror/tighterror/internal/layout"
	"github.com/tighterror/tighterror/internal/spec"
	"github.com/tighterror/tighterror/internal/symbols"
)

// Build produces the symbolic module of a validated spec module. plan and
// tab must have been computed from mod; a mismatch is a bug and panics.
func Build(mod *spec.Module, plan layout.BitPlan, tab *symbols.Table, opts Options) *Module {
	if mod == nil || tab == nil {
		panic("mir: Build on nil module")
	}
	if len(mod.Categories) != len(tab.Categories) || len(mod.Categories) == 0 {
		panic(fmt.Sprintf("mir: module %s: symbol table has %d categories, spec has %d",
			mod.Name, len(tab.Categories), len(mod.Categories)))
	}
	if total := errorCount(mod); tab.Len() != total {
		panic(fmt.Sprintf("mir: module %s: symbol table has %d errors, spec has %d", mod.Name, tab.Len(), total))
	}

	m := &Module{
		Name:       mod.Name,
		Doc:        stringValue(mod.Doc),
		Plan:       plan,
		Repr:       plan.ReprType(),
		NoStd:      opts.NoStd,
		ErrorTrait: mod.ErrorTraitOr() && !opts.NoStd,
		Flat:       mod.FlatKindsOr(),
	}
	if opts.Nested {
		m.Prefix = tab.Prefix
	}
	m.nameTypes(mod)
	m.buildCategories(mod, tab)
	m.resolveDocs(mod)
	m.Check = checkKind(plan)
	m.InvalidProbes = invalidProbes(plan, m.Categories)
	if opts.Test {
		m.Tests = buildTests(m)
	}
	return m
}

func (m *Module) private(name string) string {
	return casing.LowerFirst(m.Prefix + name)
}

func (m *Module) nameTypes(mod *spec.Module) {
	m.Err.Name = m.Ident(mod.ErrTypeName())
	m.Kind.Name = m.Ident(mod.ErrKindTypeName())
	m.Cat.Name = m.Ident(mod.ErrCatTypeName())
	m.CategoriesVar = m.Ident(symbols.CategoriesVar)
	m.KindsVar = m.Ident(symbols.KindsVar)
	m.FromValue = symbols.FromValueFunc(m.Kind.Name)
	if mod.ResultFromErrKindOr() {
		m.KindResult = symbols.ResultFunc(m.Kind.Name)
	}
	if mod.ResultFromErrOr() {
		m.ErrResult = symbols.ResultFunc(m.Err.Name)
	}
	m.Private = Private{
		VariantBits:   m.private("KindVariantBits"),
		VariantMask:   m.private("KindVariantMask"),
		CategoryMax:   m.private("KindCategoryMax"),
		CategoryNames: m.private("CategoryNames"),
		KindNames:     m.private("KindNames"),
		KindDisplays:  m.private("KindDisplays"),
		VariantMax:    m.private("KindVariantMax"),
		CategoryCases: m.private("CategoryCases"),
		KindCases:     m.private("KindCases"),
	}
}

func (m *Module) buildCategories(mod *spec.Module, tab *symbols.Table) {
	m.Categories = make([]*Category, 0, len(mod.Categories))
	m.Kinds = make([]*Kind, 0, tab.Len())
	for ci, c := range mod.Categories {
		cs := tab.Categories[ci]
		if cs.Index != ci || cs.Name != c.Name || len(cs.Errs) != len(c.Errors) || len(c.Errors) == 0 {
			panic(fmt.Sprintf("mir: module %s: symbol table disagrees on category %s", mod.Name, c.Name))
		}
		cat := &Category{
			Index:      ci,
			Name:       c.Name,
			Const:      cs.Const,
			Ident:      cs.Ident,
			Ref:        m.CategoriesVar + "." + cs.Const,
			VariantMax: mustUint64(len(c.Errors) - 1),
		}
		if !m.Flat {
			cat.KindsField = c.Name
			cat.KindsType = m.private(c.Name + "Kinds")
		}
		for ei, e := range c.Errors {
			es := tab.Error(ci, ei)
			k := &Kind{
				Category: ci,
				Variant:  ei,
				Name:     e.Name,
				Const:    es.Const,
				Ident:    es.Ident,
				Display:  e.DisplayOrName(),
				Value:    m.Plan.Encode(mustUint64(ci), mustUint64(ei)),
			}
			if m.Flat {
				k.Ref = m.KindsVar + "." + es.Const
			} else {
				k.Ref = m.KindsVar + "." + cat.KindsField + "." + es.Const
			}
			if k.Value&^m.Plan.KindMask() != 0 {
				panic(fmt.Sprintf("mir: module %s: kind %s value %#x exceeds %d bits", mod.Name, e.Name, k.Value, m.Plan.KindBits))
			}
			if es.VariantType != "" {
				vt := &VariantType{Name: m.Ident(es.VariantType), Kind: k}
				k.VariantType = vt
				m.VariantTypes = append(m.VariantTypes, vt)
			}
			cat.Kinds = append(cat.Kinds, k)
			m.Kinds = append(m.Kinds, k)
		}
		m.Categories = append(m.Categories, cat)
	}
	m.CategoryMax = mustUint64(len(m.Categories) - 1)
}

func checkKind(p layout.BitPlan) CheckKind {
	switch {
	case p.CategoryBits > 0:
		return CheckCategoryMax
	case p.VariantBits < p.ReprWidth:
		return CheckCategoryZero
	default:
		return CheckVariantOnly
	}
}

func errorCount(mod *spec.Module) int {
	n := 0
	for _, c := range mod.Categories {
		n += len(c.Errors)
	}
	return n
}

func mustUint64(n int) uint64 {
	v, err := safecast.Conv[uint64](n)
	if err != nil {
		panic(fmt.Sprintf("mir: %v", err))
	}
	return v
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
