package mir

import (
	"slices"

	"github.com/tighterror/tighterror/internal/layout"
)

func lowMask(n uint) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<n - 1
}

// invalidProbes picks representable values that no declared kind encodes:
// the first and last variant past each category's end, the first category
// past the last one, and values using bits above KindBits.
func invalidProbes(p layout.BitPlan, cats []*Category) []uint64 {
	var out []uint64
	for _, c := range cats {
		if c.VariantMax >= p.VariantMask {
			continue
		}
		idx := uint64(c.Index) // #nosec G115 -- category indices are non-negative
		out = append(out, p.Encode(idx, c.VariantMax+1), p.Encode(idx, p.VariantMask))
	}
	if p.CategoryBits > 0 {
		next := uint64(len(cats)) // #nosec G115 -- len is non-negative
		if next <= lowMask(p.CategoryBits) {
			out = append(out, p.Encode(next, 0))
		}
	}
	if p.KindBits < p.ReprWidth {
		out = append(out, uint64(1)<<p.KindBits, lowMask(p.ReprWidth))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Decode mirrors the generated FromValue function: it returns the kind
// encoded by v, or false when v names no declared kind.
func (m *Module) Decode(v uint64) (*Kind, bool) {
	p := m.Plan
	if v&^lowMask(p.ReprWidth) != 0 {
		return nil, false
	}
	var cat, variant uint64
	switch m.Check {
	case CheckCategoryMax:
		cat, variant = v>>p.VariantBits, v&p.VariantMask
		if cat > m.CategoryMax {
			return nil, false
		}
	case CheckCategoryZero:
		if v>>p.VariantBits != 0 {
			return nil, false
		}
		variant = v & p.VariantMask
	case CheckVariantOnly:
		variant = v
	}
	c := m.Categories[cat]
	if variant > c.VariantMax {
		return nil, false
	}
	return c.Kinds[variant], true
}
