package diag

import (
	"cmp"
	"slices"
)

// Bag collects diagnostics up to a limit. Diagnostics past the limit are
// counted, not kept.
type Bag struct {
	items   []Diagnostic
	limit   int
	dropped int
	errors  int // kept or dropped
}

// NewBag creates a bag holding at most limit diagnostics; limit <= 0 means unlimited.
func NewBag(limit int) *Bag {
	return &Bag{limit: max(limit, 0)}
}

// Add keeps d unless the bag is full and reports whether it was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if d.Severity >= SevError {
		b.errors++
	}
	if b.limit > 0 && len(b.items) >= b.limit {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int { return len(b.items) }

// Dropped is the number of diagnostics refused by Add.
func (b *Bag) Dropped() int { return b.dropped }

// Items returns the backing slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

// HasErrors reports whether any error was added, including dropped ones.
func (b *Bag) HasErrors() bool { return b.errors > 0 }

// Sort orders diagnostics by file, start, end, severity (worst first) and
// code. Diagnostics without a span keep their relative order and go last.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		xs, ys := x.Primary, y.Primary
		if xs.Valid() != ys.Valid() {
			if xs.Valid() {
				return -1
			}
			return 1
		}
		if !xs.Valid() {
			return 0
		}
		return cmp.Or(
			cmp.Compare(xs.File, ys.File),
			cmp.Compare(xs.Start, ys.Start),
			cmp.Compare(xs.End, ys.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
