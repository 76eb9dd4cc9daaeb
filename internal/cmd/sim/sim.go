// Package sim parses simulator flags and runs headless play sessions.
package sim

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/skilletworks/prepline/internal/gameconfig"
	entrypoint "github.com/skilletworks/prepline/internal/platform/cmd"
	"github.com/skilletworks/prepline/internal/sim"
	"github.com/skilletworks/prepline/internal/storage"
	"github.com/skilletworks/prepline/internal/storage/sqlite"
)

// Config holds sim command configuration.
type Config struct {
	Definition  string        `env:"PREPLINE_DEFINITION"`
	StorePath   string        `env:"PREPLINE_STORE_PATH"`
	Seed        int64         `env:"PREPLINE_SIM_SEED"`
	Sessions    int           `env:"PREPLINE_SIM_SESSIONS"     envDefault:"1"`
	MistakeRate float64       `env:"PREPLINE_SIM_MISTAKE_RATE"`
	TickDelta   time.Duration `env:"PREPLINE_SIM_TICK"         envDefault:"50ms"`
	Verbose     bool          `env:"PREPLINE_SIM_VERBOSE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Definition, "definition", cfg.Definition, "path to a YAML tuning definition (default: stock tuning)")
	fs.StringVar(&cfg.StorePath, "store", cfg.StorePath, "path to the SQLite journal (empty disables persistence)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for reproducibility (0 = random)")
	fs.IntVar(&cfg.Sessions, "sessions", cfg.Sessions, "number of sessions to play")
	fs.Float64Var(&cfg.MistakeRate, "mistake-rate", cfg.MistakeRate, "per-round probability of a deliberate wrong placement")
	fs.DurationVar(&cfg.TickDelta, "tick", cfg.TickDelta, "synthetic frame duration")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose output")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the sim command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Sessions <= 0 {
		return fmt.Errorf("sessions must be positive")
	}

	definition, err := gameconfig.Load(cfg.Definition)
	if err != nil {
		return err
	}

	var store storage.Store
	if cfg.StorePath != "" {
		opened, err := sqlite.Open(cfg.StorePath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer opened.Close()
		store = opened
	}

	logger := log.New(errOut, "", 0)

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSim, func(ctx context.Context) error {
		for i := 0; i < cfg.Sessions; i++ {
			seed := cfg.Seed
			// Distinct deterministic seeds per session under a fixed seed.
			if seed != 0 {
				seed += int64(i)
			}
			report, err := sim.Run(ctx, sim.Config{
				Definition:  definition,
				Seed:        seed,
				TickDelta:   cfg.TickDelta,
				MistakeRate: cfg.MistakeRate,
				Store:       store,
				Verbose:     cfg.Verbose,
				Logger:      logger,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "session %s: score %d (%d won, %d lost, %d ticks, seed %d)\n",
				report.SessionID, report.Score, report.RoundsWon, report.RoundsLost, report.Ticks, report.Seed)
		}
		return nil
	})
}
