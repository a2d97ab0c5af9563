package tokenstore

import "log/slog"

type Option func(s *Store)

// WithLogger sets the logger the store writes its debug records to.
// Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithCapacity pre-allocates room for n slots.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > cap(s.slots) {
			s.slots = make([]slot, 0, n)
		}
	}
}
