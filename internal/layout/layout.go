// Package layout computes how error kinds are packed into an unsigned integer.
//
// A kind value is (category_index << VariantBits) | variant_index, stored in
// the smallest of uint8/16/32/64 that holds KindBits bits.
package layout

import (
	"errors"
	"fmt"
	"math/bits"

	"fortio.org/safecast"

	"github.com/tighterror/tighterror/internal/diag"
	"github.com/tighterror/tighterror/internal/source"
	"github.com/tighterror/tighterror/internal/spec"
)

// MaxKindBits is the widest supported representation.
const MaxKindBits = 64

// BitPlan is the integer layout of one module.
type BitPlan struct {
	CategoryBits uint
	VariantBits  uint
	KindBits     uint
	CategoryMask uint64
	VariantMask  uint64
	ReprWidth    uint
}

// bitsFor returns the smallest k with 2^k >= n, for n >= 1.
func bitsFor(n uint64) uint {
	if n <= 1 {
		return 0
	}
	return uint(bits.Len64(n - 1))
}

// lowMask returns a mask of the n low bits, saturated at 64.
func lowMask(n uint) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}

// Plan computes the layout for nCategories categories whose largest one has
// maxErrors errors. Both counts must be positive.
func Plan(nCategories, maxErrors int) (BitPlan, error) {
	nc, err := safecast.Conv[uint64](nCategories)
	if err != nil || nc == 0 {
		return BitPlan{}, fmt.Errorf("layout: invalid category count %d", nCategories)
	}
	ne, err := safecast.Conv[uint64](maxErrors)
	if err != nil || ne == 0 {
		return BitPlan{}, fmt.Errorf("layout: invalid error count %d", maxErrors)
	}

	var p BitPlan
	if nc > 1 {
		p.CategoryBits = bitsFor(nc)
	}
	p.VariantBits = max(1, bitsFor(ne))
	p.KindBits = p.CategoryBits + p.VariantBits
	if p.KindBits > MaxKindBits {
		return BitPlan{}, diag.Errorf(diag.TooManyBits, source.NoSpan,
			"kind requires %d bits (%d category + %d variant), at most %d are supported",
			p.KindBits, p.CategoryBits, p.VariantBits, MaxKindBits)
	}
	p.ReprWidth = reprWidth(p.KindBits)
	p.VariantMask = lowMask(p.VariantBits)
	p.CategoryMask = lowMask(p.CategoryBits) << p.VariantBits
	return p, nil
}

// PlanModule plans a validated module.
func PlanModule(m *spec.Module) (BitPlan, error) {
	p, err := Plan(len(m.Categories), m.MaxErrors())
	if err != nil {
		var de *diag.Error
		if errors.As(err, &de) {
			de.Diag.Primary = m.Span
			de.Diag.Message = fmt.Sprintf("module `%s`: %s", m.Name, de.Diag.Message)
		}
		return BitPlan{}, err
	}
	return p, nil
}

func reprWidth(kindBits uint) uint {
	for _, w := range []uint{8, 16, 32, 64} {
		if kindBits <= w {
			return w
		}
	}
	return 64
}

// ReprType is the Go type name holding a kind value.
func (p BitPlan) ReprType() string {
	return fmt.Sprintf("uint%d", p.ReprWidth)
}

// KindMask covers every bit a kind value may use.
func (p BitPlan) KindMask() uint64 {
	return lowMask(p.KindBits)
}

// Encode packs a category and variant index into a kind value.
func (p BitPlan) Encode(cat, variant uint64) uint64 {
	if p.VariantBits >= 64 {
		return variant
	}
	return cat<<p.VariantBits | variant
}

// Decode splits a kind value into its category and variant index.
func (p BitPlan) Decode(v uint64) (cat, variant uint64) {
	variant = v & p.VariantMask
	if p.VariantBits >= 64 {
		return 0, variant
	}
	return (v & p.CategoryMask) >> p.VariantBits, variant
}

func (p BitPlan) String() string {
	return fmt.Sprintf("category_bits=%d variant_bits=%d kind_bits=%d repr=%s category_mask=%#x variant_mask=%#x",
		p.CategoryBits, p.VariantBits, p.KindBits, p.ReprType(), p.CategoryMask, p.VariantMask)
}
