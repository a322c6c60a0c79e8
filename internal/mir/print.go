package mir

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DumpUnit writes a human-readable representation of a unit. The output is
// deterministic and is what --emit-mir prints.
func DumpUnit(w io.Writer, u *Unit) error {
	if w == nil || u == nil {
		return nil
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "unit %s package=%s nested=%t no_std=%t modules=%d\n", u.Name, u.Package, u.Nested, u.NoStd, len(u.Modules))
	if u.Doc != "" {
		fmt.Fprintf(bw, "  doc %q\n", u.Doc)
	}
	for _, m := range u.Modules {
		dumpModule(bw, m)
	}
	return bw.Flush()
}

func dumpModule(w io.Writer, m *Module) {
	fmt.Fprintf(w, "module %s", m.Name)
	if m.Prefix != "" {
		fmt.Fprintf(w, " prefix=%s", m.Prefix)
	}
	fmt.Fprintf(w, " repr=%s check=%s flat=%t error_trait=%t\n", m.Repr, m.Check, m.Flat, m.ErrorTrait)
	fmt.Fprintf(w, "  plan %s\n", m.Plan)
	if m.Doc != "" {
		fmt.Fprintf(w, "  doc %q\n", m.Doc)
	}
	for _, t := range []TypeDecl{m.Cat, m.Kind, m.Err} {
		fmt.Fprintf(w, "  type %s doc=%q\n", t.Name, t.Doc)
	}
	funcs := []string{m.FromValue}
	if m.KindResult != "" {
		funcs = append(funcs, m.KindResult)
	}
	if m.ErrResult != "" {
		funcs = append(funcs, m.ErrResult)
	}
	fmt.Fprintf(w, "  vars %s %s\n", m.CategoriesVar, m.KindsVar)
	fmt.Fprintf(w, "  funcs %s\n", strings.Join(funcs, " "))

	for _, c := range m.Categories {
		fmt.Fprintf(w, "  C%d: %s const=%s variant_max=%d", c.Index, c.Name, c.Const, c.VariantMax)
		if c.KindsType != "" {
			fmt.Fprintf(w, " group=%s", c.KindsType)
		}
		if c.Doc != "" {
			fmt.Fprintf(w, " doc=%q", c.Doc)
		}
		fmt.Fprintln(w)
		for _, k := range c.Kinds {
			fmt.Fprintf(w, "    K%d.%d: %s = %#x ref=%s display=%q", k.Category, k.Variant, k.Name, k.Value, k.Ref, k.Display)
			if k.Doc != "" {
				fmt.Fprintf(w, " doc=%q", k.Doc)
			}
			if k.VariantType != nil {
				fmt.Fprintf(w, " variant_type=%s", k.VariantType.Name)
			}
			fmt.Fprintln(w)
		}
	}
	if len(m.InvalidProbes) > 0 {
		probes := make([]string, 0, len(m.InvalidProbes))
		for _, v := range m.InvalidProbes {
			probes = append(probes, fmt.Sprintf("%#x", v))
		}
		fmt.Fprintf(w, "  invalid %s\n", strings.Join(probes, " "))
	}
	for _, tc := range m.Tests {
		fmt.Fprintf(w, "  test %s\n", tc.Func)
	}
}
