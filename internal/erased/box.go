package erased

import (
	"errors"
	"fmt"
)

var ErrTypeMismatch = errors.New("type mismatch")

// Box holds a single heap allocated value of any type together
// with its runtime type tag. The zero Box is empty.
type Box struct {
	Type *Type

	// ptr is always a *V where V is the Go type described by Type.
	ptr any
}

// Wrap moves value to the heap and tags it with the type of V.
func Wrap[V any](value V) Box {
	ptr := new(V)
	*ptr = value

	return Box{Type: TypeOf[V](), ptr: ptr}
}

func (b Box) IsEmpty() bool {
	return b.Type == nil
}

// Pointer returns the pointer to the boxed value as an any.
func (b Box) Pointer() any {
	return b.ptr
}

// Downcast checks the type tag of the box and returns a pointer to
// the boxed value if it holds a V.
func Downcast[V any](b Box) (*V, error) {
	want := TypeOf[V]()

	if b.Type != want {
		return nil, fmt.Errorf("%w: box holds %s, requested %s", ErrTypeMismatch, b.Type, want)
	}

	ptr, ok := b.ptr.(*V)
	if !ok {
		// tag and pointer disagree, this is a bug in Wrap
		panic(fmt.Sprintf("box tagged %s holds a %T", b.Type, b.ptr))
	}

	return ptr, nil
}
