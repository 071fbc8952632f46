package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// ToolCall represents a parsed tool invocation from LLM output
type ToolCall struct {
	Name  string
	Input string
}

// ToolResult represents the result of a tool execution
type ToolResult struct {
	ToolName string
	Input    string
	Output   string
	Error    error
}

// Tool names may be namespaced by an MCP server, e.g. "github.search".
var toolCallRE = regexp.MustCompile("(?s)```tool:([a-zA-Z_][a-zA-Z0-9_.\\-]*)\n(.*?)```")

// ParseToolCalls extracts tool calls from LLM response
// Format: ```tool:<name>\n<input>\n```
func ParseToolCalls(response string) []ToolCall {
	matches := toolCallRE.FindAllStringSubmatch(response, -1)

	var calls []ToolCall
	for _, match := range matches {
		if len(match) >= 3 {
			calls = append(calls, ToolCall{
				Name:  strings.TrimSpace(match[1]),
				Input: strings.TrimSpace(match[2]),
			})
		}
	}
	return calls
}

// ExecuteToolCalls runs the parsed calls against available, in order.
// Calls to tools outside available are reported as errors, not executed.
func ExecuteToolCalls(ctx context.Context, available []Tool, calls []ToolCall) []ToolResult {
	byName := make(map[string]Tool, len(available))
	for _, t := range available {
		byName[t.Name()] = t
	}

	results := make([]ToolResult, 0, len(calls))
	for _, call := range calls {
		tool, ok := byName[call.Name]
		if !ok {
			results = append(results, ToolResult{
				ToolName: call.Name,
				Input:    call.Input,
				Error:    fmt.Errorf("%w: %s", ErrUnknownTool, call.Name),
			})
			continue
		}

		if err := ctx.Err(); err != nil {
			results = append(results, ToolResult{ToolName: call.Name, Input: call.Input, Error: err})
			continue
		}

		output, err := tool.Execute(ctx, call.Input)
		results = append(results, ToolResult{
			ToolName: call.Name,
			Input:    call.Input,
			Output:   output,
			Error:    err,
		})
	}

	return results
}

// FormatToolResults creates a string describing tool results for LLM
func FormatToolResults(results []ToolResult) string {
	if len(results) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\n=== Tool Results ===\n")

	for _, r := range results {
		fmt.Fprintf(&sb, "\n[%s]:\n", r.ToolName)
		if r.Error != nil {
			fmt.Fprintf(&sb, "ERROR: %v\n", r.Error)
		} else {
			sb.WriteString(r.Output)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// HasToolCalls checks if a response contains tool calls
func HasToolCalls(response string) bool {
	return strings.Contains(response, "```tool:")
}
