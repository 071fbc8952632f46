package types

import "time"

// MCPServerConfig defines an MCP server configuration
type MCPServerConfig struct {
	Command string   `yaml:"command" validate:"required"`
	Args    []string `yaml:"args"`
	Env     []string `yaml:"env,omitempty"`
}

type WorkflowConfig struct {
	Agents     []Agent                    `yaml:"agents" validate:"required,min=1,dive"`
	Workflow   *WorkflowSpec              `yaml:"workflow,omitempty"`
	Models     map[string]Model           `yaml:"models,omitempty" validate:"dive"`
	MCPServers map[string]MCPServerConfig `yaml:"mcp_servers,omitempty" validate:"dive"`
	Search     SearchConfig               `yaml:"search,omitempty"`
}

type WorkflowSpec struct {
	Type     string   `yaml:"type" validate:"required,oneof=sequential parallel"`
	Steps    []Step   `yaml:"steps,omitempty" validate:"required_if=Type sequential,dive"`
	Branches []string `yaml:"branches,omitempty" validate:"required_if=Type parallel"`
	Then     *Step    `yaml:"then,omitempty"`
}

type Step struct {
	Agent string `yaml:"agent" validate:"required"`
}

// Model is a named model handle that agents refer to by key.
type Model struct {
	Provider string `yaml:"provider" validate:"required"`
	Model    string `yaml:"model" validate:"required"`
	APIKey   string `yaml:"api_key,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`

	// UseProxy routes requests through an OpenAI-compatible LiteLLM proxy.
	// It is resolved once at load time and passed to the client constructor.
	UseProxy     bool   `yaml:"use_proxy,omitempty"`
	ProxyBaseURL string `yaml:"proxy_base_url,omitempty"`

	RPM   int         `yaml:"rpm,omitempty" validate:"gte=0"`
	Retry RetryConfig `yaml:"retry,omitempty"`
}

// RetryConfig controls how failed model calls are retried.
type RetryConfig struct {
	Attempts        int           `yaml:"attempts" default:"5" validate:"gte=1"`
	ExpBase         float64       `yaml:"exp_base" default:"7" validate:"gte=1"`
	InitialDelay    time.Duration `yaml:"initial_delay" default:"1s"`
	HTTPStatusCodes []int         `yaml:"http_status_codes" default:"[429,500,503,504]"`
}

// SearchConfig configures the web_search tool.
type SearchConfig struct {
	Provider   string `yaml:"provider,omitempty" default:"tavily" validate:"omitempty,oneof=tavily"`
	APIKey     string `yaml:"api_key,omitempty"`
	MaxResults int    `yaml:"max_results,omitempty" default:"5" validate:"gte=0,lte=20"`
}
