// Package server exposes the capture pipeline as Model Context Protocol
// tools so an agent driving the app can request annotated screenshots.
package server

import (
	"fmt"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/rigi-cli/internal/pipeline"
	"github.com/mj1618/rigi-cli/internal/platform"
	"go.uber.org/zap"
)

// Transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds MCP server configuration.
type Config struct {
	Version   string
	Transport string
	Addr      string
	CacheTTL  time.Duration
}

// Server wraps the MCP server with the pipeline and a tree cache.
type Server struct {
	pipeline *pipeline.Pipeline
	cache    *TreeCache
	outDir   string
	logger   *zap.Logger
	clock    func() time.Time

	// pipelineMu serializes every tool that touches the pipeline so at most
	// one capture is in flight.
	pipelineMu sync.Mutex
	mcp        *mcpserver.MCPServer
}

// New creates and configures an MCP server with all rigi tools.
func New(provider *platform.Provider, settings pipeline.Settings, cfg Config, logger *zap.Logger, opts ...pipeline.Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		pipeline: pipeline.New(provider, settings, logger, opts...),
		cache:    NewTreeCache(provider.Reader, cfg.CacheTTL),
		outDir:   settings.OutputDir,
		logger:   logger.Named("mcp"),
		clock:    time.Now,
	}
	s.mcp = mcpserver.NewMCPServer("rigi", version)
	s.registerTools()
	return s
}

// Serve starts the MCP server with the configured transport and blocks.
func (s *Server) Serve(cfg Config) error {
	switch cfg.Transport {
	case TransportStdio, "":
		s.logger.Info("serving", zap.String("transport", TransportStdio))
		return mcpserver.ServeStdio(s.mcp)
	case TransportHTTP, "streamable-http":
		s.logger.Info("serving", zap.String("transport", TransportHTTP), zap.String("addr", cfg.Addr))
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(cfg.Addr)
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or http)", cfg.Transport)
	}
}
