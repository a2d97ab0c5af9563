package tokenstore

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/google/uuid"
)

// liveness is shared by all clones of a token. It flips from alive to dead
// exactly once, when the value is removed from the store.
type liveness struct {
	dead bool
}

// Token is a handle to a value of type V in a Store. Tokens are cheap to copy,
// and all copies share the liveness of the value they were minted for: once the
// value is removed through any copy, every copy is dead.
//
// The zero Token is invalid and refers to no value.
type Token[V any] struct {
	// binds the token to V without taking up space. A pointer
	// element keeps tokens comparable for any V.
	_ [0]*V

	index int
	live  *liveness
	owner uuid.UUID
}

// ErasedToken is a Token with its type parameter erased. It allows a collection of
// tokens for different value types to be inspected uniformly.
type ErasedToken interface {
	Index() int
	Alive() bool
	ValueType() reflect.Type
}

var _ ErasedToken = Token[int]{}

// Clone returns a token referring to the same value. This is the same as copying
// the token and exists for readability at call sites.
func (t Token[V]) Clone() Token[V] {
	return t
}

// Index returns the slot the token refers to.
func (t Token[V]) Index() int {
	return t.index
}

// Alive reports whether the value referenced by the token is still in its store.
func (t Token[V]) Alive() bool {
	return t.live != nil && !t.live.dead
}

func (t Token[V]) ValueType() reflect.Type {
	return reflect.TypeFor[V]()
}

func (t Token[V]) String() string {
	state := "alive"
	switch {
	case t.live == nil:
		state = "invalid"
	case t.live.dead:
		state = "dead"
	}

	return fmt.Sprintf("Token[%s](%d, %s)", t.ValueType(), t.index, state)
}

func (t Token[V]) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("index", t.index),
		slog.String("type", t.ValueType().String()),
		slog.Bool("alive", t.Alive()),
	)
}
