// Package tokenstore provides a Store that holds values of arbitrary, mutually
// different types. Inserting a value yields a typed Token that is later used to
// read, mutate or remove the value again:
//
//	store := tokenstore.NewStore()
//
//	counter := tokenstore.Insert(store, 42)
//	name := tokenstore.Insert(store, "Player")
//
//	*tokenstore.GetMut(store, counter) += 5
//	fmt.Println(tokenstore.Get(store, name), tokenstore.Get(store, counter))
//
//	value := tokenstore.Remove(store, counter)
//
// Tokens are freely copyable. Removing a value through any copy of a token
// invalidates all copies, further access through any of them fails.
//
// A Store is not safe for concurrent use.
package tokenstore

import (
	"iter"
	"log/slog"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/oliverbestmann/tokenstore/internal/erased"
	"github.com/oliverbestmann/tokenstore/internal/freelist"
)

type slot struct {
	box  erased.Box
	live *liveness

	// set while an Update callback holds the value
	borrowed bool
}

func (s *slot) occupied() bool {
	return s.live != nil
}

// Store owns values of any type. Slots freed by Remove are reused by later inserts,
// lowest index first. The number of slots never shrinks.
//
// A Store must not be copied after first use.
type Store struct {
	_ noCopy

	id     uuid.UUID
	slots  []slot
	free   freelist.List
	logger *slog.Logger
	stats  Stats
}

// NewStore creates a new empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		id:     uuid.New(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ID returns the random identifier of the store. Tokens remember the
// id of the store that minted them.
func (s *Store) ID() uuid.UUID {
	return s.id
}

// Len returns the number of values currently held by the store.
func (s *Store) Len() int {
	return len(s.slots) - s.free.Len()
}

// Slots returns the number of slots, occupied or not. This is the peak
// number of values held at the same time.
func (s *Store) Slots() int {
	return len(s.slots)
}

func (s *Store) Stats() Stats {
	stats := s.stats
	stats.Live = s.Len()
	stats.Slots = s.Slots()
	return stats
}

// All returns an iterator over the occupied slots. It yields the slot index
// and a pointer to the value as an any.
func (s *Store) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		// the store might grow while iterating
		for idx := 0; idx < len(s.slots); idx++ {
			slot := &s.slots[idx]
			if !slot.occupied() {
				continue
			}

			if !yield(idx, slot.box.Pointer()) {
				return
			}
		}
	}
}

// Clear removes all values from the store. Every token minted
// so far is dead afterwards. The slots are kept for reuse.
func (s *Store) Clear() {
	// nothing may change if any value is borrowed
	for idx := range s.slots {
		if slot := &s.slots[idx]; slot.borrowed {
			panic(accessErrorOfSlot(OpRemove, idx, slot, ErrBorrowed))
		}
	}

	var removed int

	for idx := range s.slots {
		slot := &s.slots[idx]
		if !slot.occupied() {
			continue
		}

		slot.live.dead = true
		*slot = emptySlot
		removed += 1
	}

	s.free.Reset(len(s.slots))
	s.stats.Removes += removed

	s.logger.Debug("Store cleared",
		slog.Int("removed", removed),
		slog.Int("slots", len(s.slots)))
}

// Dump renders the slot table for debugging.
func (s *Store) Dump() string {
	type dumpSlot struct {
		Index int
		Type  string
		Value any
	}

	var slots []dumpSlot
	for idx, ptr := range s.All() {
		slots = append(slots, dumpSlot{
			Index: idx,
			Type:  s.slots[idx].box.Type.Name,
			Value: ptr,
		})
	}

	return dumpConfig.Sdump(slots)
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

var emptySlot slot

func accessErrorOfSlot(op Op, idx int, slot *slot, err error) *AccessError {
	return &AccessError{
		Op:    op,
		Index: idx,
		Type:  slot.box.Type.Type,
		Err:   err,
	}
}
