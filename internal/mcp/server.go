package mcp

import (
	"context"
	"strings"

	"sixhats/internal/tools"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ToneInput struct {
	Text string `json:"text" jsonschema:"search results or other text to read the collective mood from"`
}

type PositiveDataInput struct {
	Topic string `json:"topic" jsonschema:"topic to find encouraging internal data for, e.g. pilot, energy, team or supply chain"`
}

type PositiveDataOutput struct {
	Found    bool                `json:"found"`
	Category tools.TopicCategory `json:"category,omitempty"`
	Report   string              `json:"report"`
}

// NewServer exposes the Red Hat and Yellow Hat tools over MCP.
func NewServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "sixhats",
		Version: version,
	}, nil)

	tone := &tools.ToneTool{}
	mcp.AddTool(server, &mcp.Tool{
		Name:        tone.Name(),
		Description: tone.Description(),
	}, func(ctx context.Context, req *mcp.CallToolRequest, in ToneInput) (*mcp.CallToolResult, tools.ToneVerdict, error) {
		return nil, tools.ClassifyTone(in.Text), nil
	})

	positive := &tools.PositiveDataTool{}
	mcp.AddTool(server, &mcp.Tool{
		Name:        positive.Name(),
		Description: positive.Description(),
	}, func(ctx context.Context, req *mcp.CallToolRequest, in PositiveDataInput) (*mcp.CallToolResult, PositiveDataOutput, error) {
		report, ok := tools.LookupTopicReport(in.Topic)
		if !ok {
			return nil, PositiveDataOutput{
				Report: "No positive data report available for topic \"" + strings.TrimSpace(in.Topic) + "\".",
			}, nil
		}
		return nil, PositiveDataOutput{Found: true, Category: report.Category, Report: report.Text}, nil
	})

	return server
}

// Serve runs the tool server on stdin/stdout until ctx is done or the
// client disconnects.
func Serve(ctx context.Context, version string) error {
	return NewServer(version).Run(ctx, &mcp.StdioTransport{})
}
