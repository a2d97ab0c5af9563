package tokenstore

import (
	"log/slog"

	"github.com/oliverbestmann/tokenstore/internal/assert"
	"github.com/oliverbestmann/tokenstore/internal/erased"
)

// Insert moves value into the store and returns a token to access it later.
// The value is placed into the lowest free slot, or a new slot is appended
// if there is no free one.
func Insert[V any](s *Store, value V) Token[V] {
	box := erased.Wrap(value)
	live := &liveness{}

	index, reused := s.free.PopLowest()
	if reused {
		assert.InBounds(index, len(s.slots))
		assert.That(s.slots[index].box.IsEmpty(), "free slot %d still holds a value", index)

		s.slots[index] = slot{box: box, live: live}
	} else {
		index = len(s.slots)
		s.slots = append(s.slots, slot{box: box, live: live})
	}

	s.stats = s.stats.insert(reused, s.Len())

	s.logger.Debug("Value inserted",
		slog.Int("index", index),
		slog.String("type", box.Type.Name),
		slog.Bool("reused", reused))

	return Token[V]{index: index, live: live, owner: s.id}
}

// Get returns a copy of the value referenced by token.
// It panics with an *AccessError if the value was removed. Use TryGet
// to receive the error instead.
func Get[V any](s *Store, token Token[V]) V {
	return must(TryGet(s, token))
}

// TryGet returns a copy of the value referenced by token.
func TryGet[V any](s *Store, token Token[V]) (V, error) {
	_, ptr, err := valueOf(s, OpGet, token)
	if err != nil {
		var zero V
		return zero, err
	}

	return *ptr, nil
}

// GetMut returns a pointer to the value referenced by token. Writes through the
// pointer are seen by later calls to Get. Do not hold on to the pointer while
// removing the value: the store does not track pointers it has handed out,
// writes after removal are lost.
//
// It panics with an *AccessError if the value was removed. Use TryGetMut
// to receive the error instead.
func GetMut[V any](s *Store, token Token[V]) *V {
	return must(TryGetMut(s, token))
}

// TryGetMut returns a pointer to the value referenced by token.
func TryGetMut[V any](s *Store, token Token[V]) (*V, error) {
	_, ptr, err := valueOf(s, OpGetMut, token)
	if err != nil {
		return nil, err
	}

	return ptr, nil
}

// Update calls fn with exclusive access to the value referenced by token.
// While fn runs, any other access to the same value fails with ErrBorrowed.
// Other values of the store can be accessed, inserted and removed.
//
// It panics with an *AccessError if the value was removed.
func Update[V any](s *Store, token Token[V], fn func(value *V)) {
	if err := TryUpdate(s, token, fn); err != nil {
		panic(err)
	}
}

func TryUpdate[V any](s *Store, token Token[V], fn func(value *V)) error {
	slot, ptr, err := valueOf(s, OpUpdate, token)
	if err != nil {
		return err
	}

	slot.borrowed = true

	// fn might grow the slot table, do not keep the slot pointer
	defer func() { s.slots[token.index].borrowed = false }()

	fn(ptr)

	return nil
}

// Remove takes the value referenced by token out of the store. The token
// and all of its clones are dead afterwards.
//
// It panics with an *AccessError if the value was already removed. Use TryRemove
// to receive the error instead.
func Remove[V any](s *Store, token Token[V]) V {
	return must(TryRemove(s, token))
}

// TryRemove takes the value referenced by token out of the store.
func TryRemove[V any](s *Store, token Token[V]) (V, error) {
	slot, ptr, err := valueOf(s, OpRemove, token)
	if err != nil {
		var zero V
		return zero, err
	}

	value := *ptr

	slot.live.dead = true
	*slot = emptySlot

	s.free.Push(token.index)
	s.stats.Removes += 1

	s.logger.Debug("Value removed",
		slog.Int("index", token.index),
		slog.String("type", token.ValueType().String()))

	return value, nil
}

// Contains reports whether token refers to a value that is still held by this store.
func Contains[V any](s *Store, token Token[V]) bool {
	return token.owner == s.ID() && token.Alive()
}

// valueOf resolves the slot referenced by token and checks the type of its value.
func valueOf[V any](s *Store, op Op, token Token[V]) (*slot, *V, error) {
	switch {
	case token.live == nil:
		return nil, nil, accessErrorOf(op, token, ErrInvalidToken)

	case token.owner != s.id:
		return nil, nil, accessErrorOf(op, token, ErrForeignToken)

	case token.live.dead:
		return nil, nil, accessErrorOf(op, token, ErrUseAfterRemove)
	}

	assert.InBounds(token.index, len(s.slots))

	slot := &s.slots[token.index]
	assert.That(slot.live == token.live, "slot %d does not hold the value of %s", token.index, token)

	if slot.borrowed {
		return nil, nil, accessErrorOf(op, token, ErrBorrowed)
	}

	ptr, err := erased.Downcast[V](slot.box)
	if err != nil {
		return nil, nil, accessErrorOf(op, token, err)
	}

	return slot, ptr, nil
}
