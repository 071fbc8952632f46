package types

type Agent struct {
	ID          string   `yaml:"id" validate:"required"`
	Model       string   `yaml:"model" validate:"required"`
	Role        string   `yaml:"role,omitempty"`
	Goal        string   `yaml:"goal,omitempty"`
	Tools       []string `yaml:"tools,omitempty"`
	Toolsets    []string `yaml:"toolsets,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Instruction string   `yaml:"instruction,omitempty"`
	SubAgents   []string `yaml:"sub_agents,omitempty"`
	OutputKey   string   `yaml:"output_key,omitempty"` // Shared memory key the response is published under
	Requires    []string `yaml:"requires,omitempty"`   // Keys to wait for before running
}

func (a *Agent) GetPrompt() string {
	if a.Instruction != "" {
		return a.Instruction
	}
	return a.Goal
}

func (a *Agent) IsSupervisor() bool {
	return len(a.SubAgents) > 0
}

// GetOutputKey returns the key the agent's response is stored under.
// Agents without an explicit output_key publish under their ID.
func (a *Agent) GetOutputKey() string {
	if a.OutputKey != "" {
		return a.OutputKey
	}
	return a.ID
}

// HasTool reports whether the agent declared the named tool.
func (a *Agent) HasTool(name string) bool {
	for _, t := range a.Tools {
		if t == name {
			return true
		}
	}
	return false
}
