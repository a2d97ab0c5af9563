package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type config struct {
	Rounds      int    `env:"STOREBENCH_ROUNDS" envDefault:"100000"`
	Live        int    `env:"STOREBENCH_LIVE" envDefault:"1024"`
	Seed        uint64 `env:"STOREBENCH_SEED" envDefault:"1"`
	Profile     string `env:"STOREBENCH_PROFILE"`
	ProfilePath string `env:"STOREBENCH_PROFILE_PATH" envDefault:"."`
	LogLevel    string `env:"STOREBENCH_LOG_LEVEL" envDefault:"info"`

	level slog.Level
}

// parseConfig loads defaults from the environment and then applies
// the command line flags on top.
func parseConfig(args []string) (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("storebench", flag.ContinueOnError)
	fs.IntVar(&cfg.Rounds, "rounds", cfg.Rounds, "number of operations to run")
	fs.IntVar(&cfg.Live, "live", cfg.Live, "target number of live values")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "seed of the random number generator")
	fs.StringVar(&cfg.Profile, "profile", cfg.Profile, "profile mode: cpu, mem or empty to disable")
	fs.StringVar(&cfg.ProfilePath, "profile-path", cfg.ProfilePath, "directory to write the profile to")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if err := cfg.validate(); err != nil {
		return config{}, err
	}

	return cfg, nil
}

func (cfg *config) validate() error {
	if cfg.Rounds < 0 {
		return errors.New("rounds must not be negative")
	}

	if cfg.Live <= 0 {
		return errors.New("live must be positive")
	}

	switch cfg.Profile {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("unknown profile mode %q", cfg.Profile)
	}

	if err := cfg.level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	return nil
}
