package tighterror

import "fmt"

// Unsigned lists the integer types a kind value is packed into.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Category is implemented by generated error category types.
type Category[R Unsigned] interface {
	fmt.Stringer
	// Name returns the category name as written in the specification.
	Name() string
	// Value returns the category index.
	Value() R
}

// Kind is implemented by generated error kind types.
type Kind[R Unsigned, C Category[R]] interface {
	fmt.Stringer
	// Name returns the error name as written in the specification.
	Name() string
	// Value returns the packed kind value.
	Value() R
	Category() C
}

// Error is implemented by generated error types that take part in the
// error interface.
type Error[K any] interface {
	error
	Kind() K
	Location() Location
}

// VariantType is implemented by generated per-error variant types.
type VariantType[C, K any] interface {
	Category() C
	Kind() K
	Name() string
}
