package cmd

import (
	"fmt"

	"github.com/mj1618/rigi-cli/internal/pipeline"
	"github.com/mj1618/rigi-cli/internal/server"
	"github.com/mj1618/rigi-cli/internal/version"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing rigi tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes scan, tree,
capture, reset_sequence and the marker helpers as tools. An agent that
drives the app through its screens can request a capture at each stop.

Supported transports:
  stdio   Standard I/O (default)
  http    Streamable HTTP transport (for remote agents)

Examples:
  rigi serve --tree live.yaml
  rigi serve --tree live.yaml --transport http --addr :8080
  rigi serve --tree live.yaml --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "", "Transport: stdio, http (overrides server.transport)")
	serveCmd.Flags().String("addr", "", "Listen address for the http transport (overrides server.addr)")
	serveCmd.Flags().Duration("cache-ttl", 0, "Tree cache TTL for scan and tree, 0 to disable (overrides server.cache_ttl)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := server.Config{
		Version:   version.Version,
		Transport: appConfig.Server.Transport,
		Addr:      appConfig.Server.Addr,
		CacheTTL:  appConfig.Server.CacheTTL,
	}
	if cmd.Flags().Changed("transport") {
		cfg.Transport, _ = cmd.Flags().GetString("transport")
	}
	if cmd.Flags().Changed("addr") {
		cfg.Addr, _ = cmd.Flags().GetString("addr")
	}
	if cmd.Flags().Changed("cache-ttl") {
		cfg.CacheTTL, _ = cmd.Flags().GetDuration("cache-ttl")
	}

	provider, err := newProvider(cmd)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	srv := server.New(provider, pipeline.SettingsFromConfig(appConfig), cfg, logger)
	return srv.Serve(cfg)
}
