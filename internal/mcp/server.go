// Package mcp exposes the conflict engine over the Model Context Protocol,
// so agent tooling can detect and resolve annotation conflicts for a
// single ticket without shelling out to the batch CLI.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/annolab/quorum/internal/config"
	"github.com/annolab/quorum/internal/conflict"
	"github.com/annolab/quorum/internal/models"
	"github.com/annolab/quorum/internal/pipeline"
)

// Config configures the MCP server.
type Config struct {
	Name    string
	Version string

	// Rules is the rulebook the engine runs with. Zero value means the
	// shipped defaults.
	Rules *config.Rules
}

// Server wraps an MCP stdio server around the conflict engine.
type Server struct {
	server   *mcp.Server
	pipeline *pipeline.Pipeline
}

// detectResult is the quorum_detect tool output.
type detectResult struct {
	ID     string                `json:"id"`
	Report models.ConflictReport `json:"report"`
}

// NewServer creates an MCP server exposing the quorum tools.
func NewServer(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mcp: nil config")
	}
	rules := config.Default()
	if cfg.Rules != nil {
		rules = *cfg.Rules
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("mcp: %w", err)
	}

	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		pipeline: pipeline.New(rules, pipeline.Options{IncludeResolution: true}),
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "quorum_detect",
		Description: "Detect whether a ticket's annotators disagree on intent or urgency, with per-dimension vote distributions.",
	}, s.handleDetect)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "quorum_resolve",
		Description: "Run the full conflict analysis for one ticket: detection, disagreement diagnosis, and a resolved label with confidence and explanation.",
	}, s.handleResolve)

	return s, nil
}

// Run serves MCP over stdio until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) handleDetect(ctx context.Context, req *mcp.CallToolRequest, t models.Ticket) (*mcp.CallToolResult, detectResult, error) {
	if err := t.Validate(); err != nil {
		return nil, detectResult{}, err
	}
	return nil, detectResult{ID: t.ID, Report: conflict.Detect(t)}, nil
}

func (s *Server) handleResolve(ctx context.Context, req *mcp.CallToolRequest, t models.Ticket) (*mcp.CallToolResult, models.OutputRecord, error) {
	if err := t.Validate(); err != nil {
		return nil, models.OutputRecord{}, err
	}
	record, _ := s.pipeline.Process(t)
	return nil, record, nil
}
