// Package service hosts the playtest MCP server over stdio.
package service

import (
	"context"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/skilletworks/prepline/internal/gameconfig"
	"github.com/skilletworks/prepline/internal/mcp/domain"
	"github.com/skilletworks/prepline/internal/storage"
	"github.com/skilletworks/prepline/internal/storage/sqlite"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Prepline Playtest MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Config configures the MCP server.
type Config struct {
	// DefinitionPath points at a YAML tuning definition. Empty uses the
	// stock tuning.
	DefinitionPath string
	// StorePath points at the SQLite journal. Empty disables persistence
	// (session_report is then unavailable).
	StorePath string
	// Logger receives engine warnings. Nil falls back to log.Default().
	Logger *log.Logger
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
	store     storage.Store
}

// New creates a configured playtest MCP server.
func New(cfg Config) (*Server, error) {
	definition, err := gameconfig.Load(cfg.DefinitionPath)
	if err != nil {
		return nil, fmt.Errorf("load definition: %w", err)
	}
	// Reject a broken definition at startup, not on the first session_start.
	if _, err := definition.RoundConfig(); err != nil {
		return nil, fmt.Errorf("definition: %w", err)
	}

	var store storage.Store
	if cfg.StorePath != "" {
		opened, err := sqlite.Open(cfg.StorePath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		store = opened
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	manager := domain.NewManager(definition, store, cfg.Logger)
	registerPlaytestTools(mcpServer, manager)

	return &Server{mcpServer: mcpServer, store: store}, nil
}

// Close releases resources held by the server.
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// Run creates a server and serves it over stdio until the context ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	defer server.Close()
	return server.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
