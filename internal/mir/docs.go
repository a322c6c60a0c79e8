package mir

import (
	"fmt"

	"github.com/tighterror/tighterror/internal/spec"
)

func (m *Module) resolveDocs(mod *spec.Module) {
	m.Err.Doc = docOr(mod.ErrDoc, fmt.Sprintf("%s is the error type.\n\nSee %s for error kind constants.", m.Err.Name, m.KindsVar))
	m.Kind.Doc = docOr(mod.ErrKindDoc, fmt.Sprintf("%s is the error kind type.\n\nSee %s for error kind constants.", m.Kind.Name, m.KindsVar))
	m.Cat.Doc = docOr(mod.ErrCatDoc, fmt.Sprintf("%s is the error category type.\n\nSee %s for category constants.", m.Cat.Name, m.CategoriesVar))

	for ci, c := range mod.Categories {
		cat := m.Categories[ci]
		switch {
		case c.Doc != nil:
			cat.Doc = *c.Doc
		case c.Implicit:
			cat.Doc = spec.DefaultGeneralCatDoc
		}
		for ei, e := range c.Errors {
			k := cat.Kinds[ei]
			k.Doc = e.ResolvedDoc(c, mod)
			if vt := k.VariantType; vt != nil {
				vt.Doc = k.Doc
				if vt.Doc == "" {
					vt.Doc = fmt.Sprintf("%s is the variant type of %s.", vt.Name, k.Ref)
				}
			}
		}
	}
}

// docOr returns the explicit doc, or def when none was given. An explicit
// empty doc suppresses the default.
func docOr(doc *string, def string) string {
	if doc != nil {
		return *doc
	}
	return def
}
