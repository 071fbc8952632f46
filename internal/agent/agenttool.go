package agent

import (
	"context"
	"fmt"

	"sixhats/internal/tools"
	"sixhats/pkg/types"
)

// AgentTool lets one agent call another as a tool. The sub-agent gets the
// tool input as its request and its answer is returned as the tool output.
type AgentTool struct {
	runner *Runner
	def    *types.Agent
}

var _ tools.Tool = (*AgentTool)(nil)

// NewAgentTool wraps def so it can be listed in another agent's tools.
func NewAgentTool(runner *Runner, def *types.Agent) *AgentTool {
	return &AgentTool{runner: runner, def: def}
}

func (a *AgentTool) Name() string {
	return a.def.ID
}

func (a *AgentTool) Description() string {
	if a.def.Description != "" {
		return a.def.Description
	}
	if a.def.Role != "" {
		return fmt.Sprintf("Delegate to the %s agent. Input: the request for it.", a.def.Role)
	}
	return fmt.Sprintf("Delegate to agent %s. Input: the request for it.", a.def.ID)
}

func (a *AgentTool) Execute(ctx context.Context, input string) (string, error) {
	return a.runner.RunAgent(ctx, a.def, "Request:\n"+input)
}
