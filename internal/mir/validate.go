package mir

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the invariants of a built module.
// Returns error if any invariant is violated.
func Validate(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error

	// 1. layout
	p := m.Plan
	if p.KindBits != p.CategoryBits+p.VariantBits || p.KindBits > p.ReprWidth {
		errs = append(errs, fmt.Errorf("inconsistent plan: %s", p))
	}
	if p.CategoryMask&p.VariantMask != 0 || p.CategoryMask|p.VariantMask != p.KindMask() {
		errs = append(errs, fmt.Errorf("masks %#x and %#x do not partition %d bits", p.CategoryMask, p.VariantMask, p.KindBits))
	}

	// 2. indices, values and table shape
	if err := validateKinds(m); err != nil {
		errs = append(errs, err)
	}

	// 3. names
	if err := validateNames(m); err != nil {
		errs = append(errs, err)
	}

	// 4. Decode rejects every probe
	for _, v := range m.InvalidProbes {
		if k, ok := m.Decode(v); ok {
			errs = append(errs, fmt.Errorf("probe %#x decodes to %s", v, k.Name))
		}
	}
	return errors.Join(errs...)
}

func validateKinds(m *Module) error {
	var errs []error
	n := 0
	seen := make(map[uint64]*Kind, len(m.Kinds))
	for ci, c := range m.Categories {
		if c.Index != ci {
			errs = append(errs, fmt.Errorf("category %s has index %d at position %d", c.Name, c.Index, ci))
		}
		if len(c.Kinds) == 0 || c.VariantMax != uint64(len(c.Kinds)-1) { // #nosec G115 -- len > 0
			errs = append(errs, fmt.Errorf("category %s: variant max %d for %d kinds", c.Name, c.VariantMax, len(c.Kinds)))
		}
		for vi, k := range c.Kinds {
			if k.Category != ci || k.Variant != vi {
				errs = append(errs, fmt.Errorf("kind %s at (%d, %d) claims (%d, %d)", k.Name, ci, vi, k.Category, k.Variant))
			}
			if n >= len(m.Kinds) || m.Kinds[n] != k {
				errs = append(errs, fmt.Errorf("kind %s out of declaration order", k.Name))
			}
			n++
			want := m.Plan.Encode(uint64(ci), uint64(vi)) // #nosec G115 -- indices are non-negative
			if k.Value != want {
				errs = append(errs, fmt.Errorf("kind %s value %#x, want %#x", k.Name, k.Value, want))
			}
			if prev, dup := seen[k.Value]; dup {
				errs = append(errs, fmt.Errorf("kinds %s and %s share value %#x", prev.Name, k.Name, k.Value))
			}
			seen[k.Value] = k
			if got, ok := m.Decode(k.Value); !ok || got != k {
				errs = append(errs, fmt.Errorf("kind %s does not round-trip through Decode", k.Name))
			}
		}
	}
	if n != len(m.Kinds) {
		errs = append(errs, fmt.Errorf("%d kinds listed, %d in categories", len(m.Kinds), n))
	}
	return errors.Join(errs...)
}

func validateNames(m *Module) error {
	var errs []error
	unique := func(scope string, names []string, fold bool) {
		seen := make(map[string]struct{}, len(names))
		for _, name := range names {
			key := name
			if fold {
				key = strings.ToLower(name)
			}
			if _, dup := seen[key]; dup {
				errs = append(errs, fmt.Errorf("%s: duplicate name %s", scope, name))
			}
			seen[key] = struct{}{}
		}
	}
	var cats []string
	for _, c := range m.Categories {
		cats = append(cats, c.Const)
		var kinds []string
		for _, k := range c.Kinds {
			kinds = append(kinds, k.Const)
		}
		unique("category "+c.Name, kinds, true)
	}
	unique("categories", cats, true)
	if m.Flat {
		var kinds []string
		for _, k := range m.Kinds {
			kinds = append(kinds, k.Const)
		}
		unique("kinds", kinds, true)
	}
	unique("top-level", m.TopLevel(), false)
	return errors.Join(errs...)
}

// TopLevel lists the package-scope identifiers the module declares.
func (m *Module) TopLevel() []string {
	out := []string{
		m.Err.Name, m.Kind.Name, m.Cat.Name,
		m.CategoriesVar, m.KindsVar, m.FromValue,
		m.Private.VariantBits, m.Private.VariantMask, m.Private.CategoryMax,
		m.Private.CategoryNames, m.Private.KindNames, m.Private.KindDisplays, m.Private.VariantMax,
	}
	if m.KindResult != "" {
		out = append(out, m.KindResult)
	}
	if m.ErrResult != "" {
		out = append(out, m.ErrResult)
	}
	for _, c := range m.Categories {
		if c.KindsType != "" {
			out = append(out, c.KindsType)
		}
	}
	for _, vt := range m.VariantTypes {
		out = append(out, vt.Name)
	}
	if len(m.Tests) > 0 {
		out = append(out, m.Private.CategoryCases, m.Private.KindCases)
	}
	for _, tc := range m.Tests {
		out = append(out, tc.Func)
	}
	return out
}
