package mcpsrv

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsontypegen/internal/cache"
	"github.com/usestring/jsontypegen/internal/config"
	"github.com/usestring/jsontypegen/internal/logging"
	"github.com/usestring/jsontypegen/internal/mcp"
	"github.com/usestring/jsontypegen/internal/mcp/tools"
)

// Server is the jsontypegen MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer creates a new MCP server with the builtin typegen tools.
//
// Configuration is loaded from the environment; use functional options to
// override it, configure logging or add custom tools.
func NewServer(opts ...Option) (*Server, error) {
	cfg := &serverConfig{
		config: config.Load(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logCleanup := func() error { return nil }
	if !cfg.skipLogging {
		logCfg := logging.FromConfig(cfg.config)
		if cfg.logLevel != "" {
			logCfg.Level = cfg.logLevel
		}
		if cfg.logFile != "" {
			logCfg.FilePath = cfg.logFile
		}
		var err error
		if logCleanup, err = logging.Setup(logCfg); err != nil {
			return nil, fmt.Errorf("failed to setup logging: %w", err)
		}
	}

	resultCache, err := cache.New(cfg.config.CacheMaxItems)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}

	toolDeps := &tools.Deps{Config: cfg.config, Cache: resultCache}
	deps := &Deps{Config: cfg.config, Cache: resultCache}

	var internalOpts []mcp.ServerOption
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !cfg.disableBuiltinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}
	for _, fn := range cfg.toolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.promptRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.resourceRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.deferredToolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}

// MCPServer returns the underlying SDK server, for in-process transports.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.internal.MCPServer()
}
