package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/oliverbestmann/tokenstore"
)

const verifyEvery = 1024

type position struct {
	X, Y float64
}

type label struct {
	Name    string
	Version int
}

type workload struct {
	store  *tokenstore.Store
	rng    *rand.Rand
	logger *slog.Logger
	target int

	pools []anyPool

	// checks for recently removed tokens, run on verify
	deadChecks []func() error
}

func newWorkload(cfg config, logger *slog.Logger) *workload {
	w := &workload{
		store:  tokenstore.NewStore(tokenstore.WithLogger(logger), tokenstore.WithCapacity(cfg.Live)),
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		logger: logger,
		target: cfg.Live,
	}

	w.pools = []anyPool{
		&pool[int]{
			newValue: func(rng *rand.Rand) int { return rng.IntN(1000) },
			change:   func(value *int) { *value += 1 },
		},
		&pool[position]{
			newValue: func(rng *rand.Rand) position { return position{X: rng.Float64(), Y: rng.Float64()} },
			change:   func(value *position) { value.X, value.Y = value.Y, value.X+1 },
		},
		&pool[label]{
			newValue: func(rng *rand.Rand) label { return label{Name: fmt.Sprintf("label-%d", rng.IntN(100))} },
			change:   func(value *label) { value.Version += 1 },
		},
	}

	return w
}

func (w *workload) Live() int {
	var live int
	for _, p := range w.pools {
		live += p.len()
	}

	return live
}

func (w *workload) Run(rounds int) error {
	for round := range rounds {
		if err := w.step(); err != nil {
			return fmt.Errorf("round %d: %w", round, err)
		}

		if (round+1)%verifyEvery == 0 {
			if err := w.verify(); err != nil {
				return fmt.Errorf("round %d: %w", round, err)
			}
		}
	}

	return w.verify()
}

func (w *workload) step() error {
	live := w.Live()

	if live == 0 || (live < w.target && w.rng.Float64() < 0.55) {
		w.pools[w.rng.IntN(len(w.pools))].insert(w)
		return nil
	}

	// pick a random pool that holds values
	offset := w.rng.IntN(len(w.pools))
	for idx := range w.pools {
		p := w.pools[(offset+idx)%len(w.pools)]
		if p.len() == 0 {
			continue
		}

		if w.rng.IntN(2) == 0 {
			return p.mutate(w)
		}

		return p.remove(w)
	}

	return nil
}

func (w *workload) rememberDead(check func() error) {
	const maxDeadChecks = 256

	if len(w.deadChecks) == maxDeadChecks {
		w.deadChecks = w.deadChecks[1:]
	}

	w.deadChecks = append(w.deadChecks, check)
}

func (w *workload) verify() error {
	for _, check := range w.deadChecks {
		if err := check(); err != nil {
			return err
		}
	}

	if w.store.Len() != w.Live() {
		return fmt.Errorf("store holds %d values, expected %d", w.store.Len(), w.Live())
	}

	for _, p := range w.pools {
		if err := p.verify(w); err != nil {
			return err
		}
	}

	w.logger.Debug("Store verified", slog.Any("stats", w.store.Stats()))

	return nil
}

type anyPool interface {
	len() int
	insert(w *workload)
	mutate(w *workload) error
	remove(w *workload) error
	verify(w *workload) error
}

// pool holds the live tokens of one value type together with the value
// each token is expected to resolve to.
type pool[V comparable] struct {
	tokens   []tokenstore.Token[V]
	expected []V

	newValue func(rng *rand.Rand) V
	change   func(value *V)
}

func (p *pool[V]) len() int {
	return len(p.tokens)
}

func (p *pool[V]) insert(w *workload) {
	value := p.newValue(w.rng)

	p.tokens = append(p.tokens, tokenstore.Insert(w.store, value))
	p.expected = append(p.expected, value)
}

func (p *pool[V]) mutate(w *workload) error {
	idx := w.rng.IntN(len(p.tokens))
	token := p.tokens[idx].Clone()

	if w.rng.IntN(2) == 0 {
		ptr, err := tokenstore.TryGetMut(w.store, token)
		if err != nil {
			return err
		}

		p.change(ptr)
	} else {
		err := tokenstore.TryUpdate(w.store, token, p.change)
		if err != nil {
			return err
		}
	}

	p.change(&p.expected[idx])

	return nil
}

func (p *pool[V]) remove(w *workload) error {
	idx := w.rng.IntN(len(p.tokens))
	token := p.tokens[idx]

	value, err := tokenstore.TryRemove(w.store, token)
	if err != nil {
		return err
	}

	if value != p.expected[idx] {
		return fmt.Errorf("removed %v from %s, expected %v", value, token, p.expected[idx])
	}

	last := len(p.tokens) - 1
	p.tokens[idx], p.expected[idx] = p.tokens[last], p.expected[last]
	p.tokens, p.expected = p.tokens[:last], p.expected[:last]

	w.rememberDead(func() error {
		if token.Alive() {
			return fmt.Errorf("%s is alive after remove", token)
		}

		if _, err := tokenstore.TryGet(w.store, token); !errors.Is(err, tokenstore.ErrUseAfterRemove) {
			return fmt.Errorf("access to %s after remove did not fail: %v", token, err)
		}

		return nil
	})

	return nil
}

func (p *pool[V]) verify(w *workload) error {
	for idx, token := range p.tokens {
		value, err := tokenstore.TryGet(w.store, token)
		if err != nil {
			return err
		}

		if value != p.expected[idx] {
			return fmt.Errorf("%s resolved to %v, expected %v", token, value, p.expected[idx])
		}
	}

	return nil
}
