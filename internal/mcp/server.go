package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wenlabs/wentracker/internal/biz/domain"
	"github.com/wenlabs/wentracker/internal/biz/usecase"
	"github.com/wenlabs/wentracker/internal/service"
)

// WenMCPServer exposes WEN counting as MCP tools over stdio
type WenMCPServer struct {
	server     *mcp.Server
	newTracker service.TrackerFactory
}

// NewServer creates a new WEN MCP server
func NewServer(newTracker service.TrackerFactory) *WenMCPServer {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "wen-tools",
		Version: "v1.0.0",
	}, nil)

	s := &WenMCPServer{
		server:     server,
		newTracker: newTracker,
	}
	s.registerTools()
	return s
}

// registerTools registers all WEN-related MCP tools
func (s *WenMCPServer) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "wen_count",
		Description: "Fetch Farcaster conversation messages and count WEN variations (WEN, wen, weeeeen, ...). Supports single, recent and all fetch modes.",
	}, s.handleWenCount)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "wen_test_connection",
		Description: "Test that the Farcaster conversation API is reachable with the given URL and bearer token.",
	}, s.handleTestConnection)
}

// WenCountInput is the input for the wen_count tool
type WenCountInput struct {
	APIURL      string `json:"api_url" jsonschema:"description=Farcaster conversation-messages API URL"`
	APIToken    string `json:"api_token" jsonschema:"description=Bearer token for the API"`
	FetchMode   string `json:"fetch_mode,omitempty" jsonschema:"description=single, recent or all (default recent)"`
	MaxPages    int    `json:"max_pages,omitempty" jsonschema:"description=Maximum pages to fetch in recent mode (default 5)"`
	TargetHours int    `json:"target_hours,omitempty" jsonschema:"description=Hours to look back in recent mode (default 24)"`
	TodayOnly   bool   `json:"today_only,omitempty" jsonschema:"description=Restrict analysis to the current UTC calendar day"`
}

// WenCountOutput is the output for the wen_count tool
type WenCountOutput struct {
	Result *domain.AnalysisResult `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

func (s *WenMCPServer) handleWenCount(ctx context.Context, req *mcp.CallToolRequest, input WenCountInput) (*mcp.CallToolResult, WenCountOutput, error) {
	if input.APIURL == "" || input.APIToken == "" {
		return nil, WenCountOutput{Error: "api_url and api_token are required"}, nil
	}
	if input.FetchMode == "" {
		input.FetchMode = "recent"
	}
	if input.MaxPages <= 0 {
		input.MaxPages = 5
	}
	if input.TargetHours <= 0 {
		input.TargetHours = 24
	}

	tracker := s.newTracker(input.APIToken)
	analysis, err := tracker.RunOnce(ctx, service.TrackRequest{
		Mode:        usecase.FetchMode(input.FetchMode),
		URL:         input.APIURL,
		MaxPages:    input.MaxPages,
		TargetHours: input.TargetHours,
		TodayOnly:   input.TodayOnly,
	})
	if err != nil {
		return nil, WenCountOutput{Error: err.Error()}, nil
	}
	return nil, WenCountOutput{Result: analysis}, nil
}

// TestConnectionInput is the input for the wen_test_connection tool
type TestConnectionInput struct {
	APIURL   string `json:"api_url" jsonschema:"description=Farcaster conversation-messages API URL"`
	APIToken string `json:"api_token" jsonschema:"description=Bearer token for the API"`
}

// TestConnectionOutput is the output for the wen_test_connection tool
type TestConnectionOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *WenMCPServer) handleTestConnection(ctx context.Context, req *mcp.CallToolRequest, input TestConnectionInput) (*mcp.CallToolResult, TestConnectionOutput, error) {
	if input.APIURL == "" || input.APIToken == "" {
		return nil, TestConnectionOutput{Success: false, Error: "api_url and api_token are required"}, nil
	}

	tracker := s.newTracker(input.APIToken)
	analysis, err := tracker.RunOnce(ctx, service.TrackRequest{
		Mode: usecase.ModeSingle,
		URL:  input.APIURL,
	})
	if err != nil {
		return nil, TestConnectionOutput{Success: false, Error: err.Error()}, nil
	}

	return nil, TestConnectionOutput{
		Success: true,
		Message: fmt.Sprintf("Connection test successful - Found %d messages", analysis.TotalMessages),
	}, nil
}

// Run starts the MCP server with stdio transport
func (s *WenMCPServer) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
