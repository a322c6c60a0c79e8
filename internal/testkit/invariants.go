package testkit

import (
	"fmt"

	"github.com/tighterror/tighterror/internal/layout"
)

// CheckPlanInvariants verifies the structural properties every bit plan must have:
// 1) KindBits = CategoryBits + VariantBits <= ReprWidth, ReprWidth in {8,16,32,64}
// 2) category and variant masks are disjoint
// 3) the masks together cover exactly the low KindBits bits
func CheckPlanInvariants(p layout.BitPlan) error {
	if p.KindBits != p.CategoryBits+p.VariantBits {
		return fmt.Errorf("kind bits %d != %d + %d", p.KindBits, p.CategoryBits, p.VariantBits)
	}
	switch p.ReprWidth {
	case 8, 16, 32, 64:
	default:
		return fmt.Errorf("unexpected repr width %d", p.ReprWidth)
	}
	if p.KindBits > p.ReprWidth {
		return fmt.Errorf("kind bits %d exceed repr width %d", p.KindBits, p.ReprWidth)
	}
	if p.ReprWidth > 8 && p.KindBits <= p.ReprWidth/2 {
		return fmt.Errorf("repr width %d is not the smallest for %d bits", p.ReprWidth, p.KindBits)
	}
	if p.CategoryMask&p.VariantMask != 0 {
		return fmt.Errorf("masks overlap: %#x & %#x", p.CategoryMask, p.VariantMask)
	}
	if got, want := p.CategoryMask|p.VariantMask, p.KindMask(); got != want {
		return fmt.Errorf("masks cover %#x, want %#x", got, want)
	}
	return nil
}
