package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownTool is returned when a tool name is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// Tool interface for all executable tools
type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, input string) (string, error)
}

// Registry holds a set of tools by name
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Global registry, populated by init() for stateless tools
var globalRegistry = NewRegistry()

// Default returns the process-wide registry
func Default() *Registry {
	return globalRegistry
}

// Register adds a tool to the global registry
func Register(tool Tool) {
	globalRegistry.Register(tool)
}

// Get retrieves a tool from the global registry
func Get(name string) (Tool, bool) {
	return globalRegistry.Get(name)
}

// ListNames returns all globally registered tool names
func ListNames() []string {
	return globalRegistry.ListNames()
}

// Register adds or replaces a tool
func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name()] = tool
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// GetAll returns all registered tools sorted by name
func (r *Registry) GetAll() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		result = append(result, tool)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// GetByNames returns tools matching the given names
func (r *Registry) GetByNames(names []string) ([]Tool, error) {
	result := make([]Tool, 0, len(names))
	for _, name := range names {
		tool, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
		}
		result = append(result, tool)
	}
	return result, nil
}

// GetByPrefix returns tools that start with the given prefix,
// e.g. "filesystem." matches "filesystem.list"
func (r *Registry) GetByPrefix(prefix string) []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Tool, 0)
	for name, tool := range r.tools {
		if len(name) > len(prefix) && strings.HasPrefix(name, prefix) {
			result = append(result, tool)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// ListNames returns all tool names, sorted
func (r *Registry) ListNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a registry holding the same tools. Callers can add
// run-scoped tools to the clone without touching the original.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := NewRegistry()
	for name, tool := range r.tools {
		c.tools[name] = tool
	}
	return c
}

// FormatToolsForPrompt creates a description of available tools for the LLM
func FormatToolsForPrompt(tools []Tool) string {
	if len(tools) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("You have access to the following tools:\n\n")
	for _, tool := range tools {
		fmt.Fprintf(&sb, "- **%s**: %s\n", tool.Name(), tool.Description())
	}
	sb.WriteString("\nTo use a tool, write your response in this format:\n")
	sb.WriteString("```tool:<tool_name>\n<input for the tool>\n```\n")
	sb.WriteString("\nThe tool output will be provided to you for further processing.\n")
	return sb.String()
}
