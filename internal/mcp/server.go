// Package mcp exposes the fill pipeline as Model Context Protocol tools so
// agent-driven QA workflows can populate forms without shelling out.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/formseed/formseed/internal/config"
	"github.com/formseed/formseed/internal/runner"
)

// Server represents the MCP server instance.
type Server struct {
	config    *config.Config
	service   *runner.Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance around a wired pipeline
// service.
func NewServer(cfg *config.Config, service *runner.Service) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		service:   service,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	listFieldsTool := mcp.NewTool(
		"form_list_fields",
		mcp.WithDescription("List the fillable AcroForm fields of a PDF with their widget kinds and options"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(listFieldsTool, s.handleListFields)

	fillTool := mcp.NewTool(
		"form_fill",
		mcp.WithDescription("Fill a PDF form with randomized but plausible data and write the result"),
		mcp.WithString("input",
			mcp.Required(),
			mcp.Description("Full path to the fillable PDF form"),
		),
		mcp.WithString("output",
			mcp.Required(),
			mcp.Description("Full path for the filled output PDF"),
		),
		mcp.WithNumber("count",
			mcp.Description("Number of independently randomized output files (default 1)"),
		),
	)
	s.mcpServer.AddTool(fillTool, s.handleFill)
}

// Handler functions

func (s *Server) handleListFields(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fields, err := s.service.Fields(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Found %d fillable fields in %s\n%s", len(fields), path, payload)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFill(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := request.RequireString("input")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	output, err := request.RequireString("output")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	count := 1
	if raw, ok := request.GetArguments()["count"]; ok {
		if n, ok := raw.(float64); ok && int(n) > 0 {
			count = int(n)
		}
	}

	if err := s.service.Run(ctx, input, output, count); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Filled %s", runner.OutputPath(output, 1, count))
	for i := 2; i <= count; i++ {
		responseText += fmt.Sprintf(", %s", runner.OutputPath(output, i, count))
	}
	return mcp.NewToolResultText(responseText), nil
}

// Run starts the MCP server over standard I/O.
func (s *Server) Run(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting formseed MCP server in stdio mode")
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
