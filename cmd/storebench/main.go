// Command storebench runs a randomized workload against a tokenstore.Store
// and verifies that dead tokens stay dead while slots are reused.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/profile"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := parseConfig(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.level}))
	slog.SetDefault(logger)

	switch cfg.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.ProfilePath), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(cfg.ProfilePath), profile.Quiet).Stop()
	}

	w := newWorkload(cfg, logger)

	logger.Info("Start workload",
		slog.String("store", w.store.ID().String()),
		slog.Int("rounds", cfg.Rounds),
		slog.Int("live", cfg.Live),
		slog.Uint64("seed", cfg.Seed))

	startTime := time.Now()

	if err := w.Run(cfg.Rounds); err != nil {
		return err
	}

	logger.Info("Workload finished",
		slog.Duration("duration", time.Since(startTime)),
		slog.Any("stats", w.store.Stats()))

	return nil
}
