// Package mcpserver provides the Model Context Protocol (MCP) server implementation.
//
// The mcpserver package implements an MCP-compliant server that exposes the
// execute_data_query tool for running model-written data query snippets. It
// uses the mark3labs/mcp-go library to handle the protocol details and
// delegates snippet execution to the engine.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/mkrv/querybox/config"
	"github.com/mkrv/querybox/engine"
)

// Executor runs one query snippet to completion.
type Executor interface {
	Execute(ctx context.Context, code string) (any, *engine.Failure)
}

// MCPServer represents the MCP server
type MCPServer struct {
	config    *config.Config
	logger    *zap.Logger
	executor  Executor
	mcpServer *server.MCPServer
}

// New creates a new MCPServer
func New(cfg *config.Config, logger *zap.Logger, executor Executor) (*MCPServer, error) {
	s := &MCPServer{
		config:   cfg,
		logger:   logger,
		executor: executor,
	}

	// Log configuration parameters on startup. Credentials are never
	// logged.
	logger.Info("configuration loaded",
		zap.String("server.transport", s.config.Server.Transport),
		zap.Int("server.http_port", s.config.Server.HTTPPort),
		zap.String("providers.mobula.base_url", s.config.Providers.Mobula.BaseURL),
		zap.String("providers.lunarcrush.base_url", s.config.Providers.LunarCrush.BaseURL),
		zap.Int("providers.timeout_sec", s.config.Providers.TimeoutSec),
		zap.String("cache.backend", s.config.Cache.Backend),
		zap.Int("cache.ttl_sec", s.config.Cache.TTLSec),
		zap.Bool("metrics.enabled", s.config.Metrics.Enabled),
	)

	// Create the MCP server
	s.mcpServer = server.NewMCPServer("querybox", "A crypto market data query execution server")

	// Register the execute_data_query tool
	s.registerExecuteDataQueryTool()

	return s, nil
}

// registerExecuteDataQueryTool registers the execute_data_query tool
func (s *MCPServer) registerExecuteDataQueryTool() {
	tool := mcp.Tool{
		Name:        "execute_data_query",
		Description: "Execute a JavaScript snippet against the crypto market and social data capabilities",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"code": map[string]any{
					"type":        "string",
					"description": "JavaScript snippet body; capability functions such as getPrice and calculateRSI are in scope, and code fences are stripped",
				},
			},
			Required: []string{"code"},
		},
	}

	s.mcpServer.AddTool(tool, s.handleExecuteDataQuery)
}

// handleExecuteDataQuery handles the execute_data_query tool
func (s *MCPServer) handleExecuteDataQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.logger.Info("query execution requested")

	// Extract parameters
	code, err := request.RequireString("code")
	if err != nil {
		return nil, fmt.Errorf("code parameter is required: %w", err)
	}

	value, failure := s.executor.Execute(ctx, code)
	if failure != nil {
		s.logger.Error("query execution failed",
			zap.String("kind", string(failure.Kind)),
			zap.String("message", failure.Message))

		failureJSON, marshalErr := json.Marshal(failure)
		if marshalErr != nil {
			failureJSON = []byte(fmt.Sprintf(`{"kind":%q,"message":%q}`, failure.Kind, failure.Message))
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.TextContent{
					Type: "text",
					Text: string(failureJSON),
				},
			},
			IsError: true,
		}, nil
	}

	valueJSON, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("result serialization failed", zap.Error(err))
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf("Result serialization failed: %v", err),
				},
			},
			IsError: true,
		}, nil
	}

	s.logger.Info("query execution completed", zap.Int("result_len", len(valueJSON)))

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: string(valueJSON),
			},
		},
	}, nil
}

// ServeStdio starts the server on stdio
func (s *MCPServer) ServeStdio() error {
	s.logger.Info("starting MCP server on stdio")
	return server.ServeStdio(s.mcpServer)
}

// ServeHTTP starts the server on HTTP
func (s *MCPServer) ServeHTTP() error {
	port := s.config.Server.HTTPPort
	s.logger.Info("starting MCP server on HTTP", zap.Int("port", port))

	httpServer := server.NewStreamableHTTPServer(s.mcpServer)
	return httpServer.Start(fmt.Sprintf(":%d", port))
}

// GetMCPServer returns the underlying MCP server for fx
func (s *MCPServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}
