package tokenstore

import (
	"fmt"
	"log/slog"
)

// Stats counts what happened to a Store since it was created.
type Stats struct {
	Inserts int
	Removes int

	// Reused counts inserts that went into a previously freed slot,
	// Appended counts inserts that had to grow the slot table.
	Reused   int
	Appended int

	// Live and Slots are a snapshot taken when calling Store.Stats
	Live  int
	Slots int

	// Peak is the highest number of live values seen at any time
	Peak int
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"inserts=%d removes=%d reused=%d appended=%d live=%d slots=%d peak=%d",
		s.Inserts, s.Removes, s.Reused, s.Appended, s.Live, s.Slots, s.Peak,
	)
}

func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("inserts", s.Inserts),
		slog.Int("removes", s.Removes),
		slog.Int("reused", s.Reused),
		slog.Int("appended", s.Appended),
		slog.Int("live", s.Live),
		slog.Int("slots", s.Slots),
		slog.Int("peak", s.Peak),
	)
}

func (s Stats) insert(reused bool, live int) Stats {
	s.Inserts += 1

	if reused {
		s.Reused += 1
	} else {
		s.Appended += 1
	}

	s.Peak = max(s.Peak, live)

	return s
}
