/*
Copyright © 2026 sixhats Authors
*/
package cli

import (
	"fmt"
	"io"
	"sort"

	"sixhats/internal/hats"
	"sixhats/internal/parser"
	"sixhats/internal/prompts"
	"sixhats/pkg/types"
)

const (
	builtinWorkflowName = "six-hats"
	builtinModel        = "main"
	defaultProvider     = "gemini"
)

var defaultModels = map[string]string{
	"gemini":    "gemini-2.5-flash-lite",
	"google":    "gemini-2.5-flash-lite",
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-3-5-haiku-latest",
	"ollama":    "llama3",
}

// loadWorkflow parses the workflow file, or builds the six hats workflow
// when path is empty. The returned name is recorded on the session.
func loadWorkflow(path string, cliConfig *Config, promptsDir string) (*types.WorkflowConfig, string, error) {
	if path != "" {
		config, err := parser.ParseYAML(path)
		if err != nil {
			return nil, "", fmt.Errorf("error parsing workflow: %w", err)
		}
		return config, path, nil
	}

	config, err := builtinWorkflow(cliConfig, promptsDir)
	if err != nil {
		return nil, "", err
	}
	return config, builtinWorkflowName, nil
}

func builtinWorkflow(cliConfig *Config, promptsDir string) (*types.WorkflowConfig, error) {
	m := types.Model{Provider: defaultProvider}
	if cliConfig.Provider != "" {
		m.Provider = cliConfig.Provider
	}
	m.Model = cliConfig.Model
	if m.Model == "" {
		m.Model = defaultModels[m.Provider]
	}
	if m.Model == "" {
		return nil, fmt.Errorf("no default model for provider %q: set one with sixhats config --model", m.Provider)
	}

	config, err := hats.Workflow(hats.Options{
		Model:  builtinModel,
		Models: map[string]types.Model{builtinModel: m},
		Loader: prompts.NewLoader(promptsDir, logger),
	})
	if err != nil {
		return nil, err
	}
	if err := parser.ApplyDefaults(config); err != nil {
		return nil, err
	}
	if err := parser.Validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

// applyOverrides swaps provider and model on every model handle. Keys are
// cleared so they get resolved again for the new provider.
func applyOverrides(config *types.WorkflowConfig, useProvider, useModel string, out io.Writer) {
	if useProvider == "" && useModel == "" {
		return
	}

	names := make([]string, 0, len(config.Models))
	for name := range config.Models {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := config.Models[name]
		if useProvider != "" {
			m.Provider = useProvider
			fmt.Fprintf(out, "⚡ Overriding provider for '%s' → %s\n", name, useProvider)
		}
		if useModel != "" {
			m.Model = useModel
			fmt.Fprintf(out, "⚡ Overriding model for '%s' → %s\n", name, useModel)
		} else if d, ok := defaultModels[useProvider]; ok && useProvider != "" {
			m.Model = d
		}
		m.APIKey = ""
		config.Models[name] = m
	}
}

// getAgentByID finds an agent by ID from the agents list
func getAgentByID(agents []types.Agent, id string) *types.Agent {
	for i := range agents {
		if agents[i].ID == id {
			return &agents[i]
		}
	}
	return nil
}
