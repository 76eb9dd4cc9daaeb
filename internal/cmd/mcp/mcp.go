// Package mcp parses playtest-server flags and serves MCP over stdio.
package mcp

import (
	"context"
	"flag"
	"log"

	"github.com/skilletworks/prepline/internal/mcp/service"
	entrypoint "github.com/skilletworks/prepline/internal/platform/cmd"
)

// Config holds mcp command configuration.
type Config struct {
	Definition string `env:"PREPLINE_DEFINITION"`
	StorePath  string `env:"PREPLINE_STORE_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Definition, "definition", cfg.Definition, "path to a YAML tuning definition (default: stock tuning)")
	fs.StringVar(&cfg.StorePath, "store", cfg.StorePath, "path to the SQLite journal (empty disables persistence)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the mcp command.
func Run(ctx context.Context, cfg Config, logger *log.Logger) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		return service.Run(ctx, service.Config{
			DefinitionPath: cfg.Definition,
			StorePath:      cfg.StorePath,
			Logger:         logger,
		})
	})
}
