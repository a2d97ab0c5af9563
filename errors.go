package tokenstore

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/oliverbestmann/tokenstore/internal/erased"
)

var (
	// ErrUseAfterRemove is returned when a token is used after its value
	// was removed from the store, through this token or any of its clones.
	ErrUseAfterRemove = errors.New("value was already removed")

	// ErrTypeMismatch is returned when the value in a slot is not of the type
	// the token was minted for. This can not happen through the public api.
	ErrTypeMismatch = erased.ErrTypeMismatch

	// ErrForeignToken is returned when a token is presented to a store other
	// than the one that minted it.
	ErrForeignToken = errors.New("token belongs to a different store")

	// ErrInvalidToken is returned for the zero Token.
	ErrInvalidToken = errors.New("token was not created by a store")

	// ErrBorrowed is returned when accessing a value while it is being updated.
	ErrBorrowed = errors.New("value is borrowed by a running update")
)

type Op string

const (
	OpGet    Op = "get"
	OpGetMut Op = "get mut"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
)

// AccessError describes a failed access to a value in a Store.
type AccessError struct {
	Op    Op
	Index int
	Type  reflect.Type
	Err   error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s %s at slot %d: %s", e.Op, e.Type, e.Index, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

func accessErrorOf[V any](op Op, token Token[V], err error) *AccessError {
	return &AccessError{
		Op:    op,
		Index: token.index,
		Type:  token.ValueType(),
		Err:   err,
	}
}

// must panics with err if it is not nil. Used by the panicking variants
// of the access functions.
func must[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}

	return value
}
