// Package parser loads workflow definitions from YAML and checks them
// before the engine sees them.
package parser

import (
	"errors"
	"fmt"
	"os"

	"sixhats/pkg/types"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidWorkflow wraps every structural problem found by Validate.
var ErrInvalidWorkflow = errors.New("invalid workflow")

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseYAML reads, defaults and validates a workflow file.
func ParseYAML(path string) (*types.WorkflowConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow: %w", err)
	}
	return Parse(data)
}

// Parse decodes a workflow document held in memory.
func Parse(data []byte) (*types.WorkflowConfig, error) {
	var config types.WorkflowConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse workflow: %w", err)
	}

	if err := ApplyDefaults(&config); err != nil {
		return nil, err
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// ApplyDefaults fills unset model retry settings and search options.
func ApplyDefaults(config *types.WorkflowConfig) error {
	for name, model := range config.Models {
		if err := defaults.Set(&model); err != nil {
			return fmt.Errorf("defaults for model %s: %w", name, err)
		}
		config.Models[name] = model
	}
	if err := defaults.Set(&config.Search); err != nil {
		return fmt.Errorf("defaults for search: %w", err)
	}
	return nil
}

// Validate runs struct-tag validation and then checks that every agent,
// step and model reference resolves.
func Validate(config *types.WorkflowConfig) error {
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWorkflow, err)
	}

	var errs []error
	ids := make(map[string]bool, len(config.Agents))
	for _, a := range config.Agents {
		if ids[a.ID] {
			errs = append(errs, fmt.Errorf("duplicate agent id: %s", a.ID))
		}
		ids[a.ID] = true
	}

	for _, a := range config.Agents {
		if len(config.Models) > 0 {
			if _, ok := config.Models[a.Model]; !ok {
				errs = append(errs, fmt.Errorf("agent %s uses unknown model: %s", a.ID, a.Model))
			}
		}
		for _, sub := range a.SubAgents {
			if !ids[sub] {
				errs = append(errs, fmt.Errorf("agent %s references unknown sub-agent: %s", a.ID, sub))
			}
		}
	}

	if wf := config.Workflow; wf != nil {
		for _, step := range wf.Steps {
			if !ids[step.Agent] {
				errs = append(errs, fmt.Errorf("step references unknown agent: %s", step.Agent))
			}
		}
		for _, branch := range wf.Branches {
			if !ids[branch] {
				errs = append(errs, fmt.Errorf("branch references unknown agent: %s", branch))
			}
		}
		if wf.Then != nil && !ids[wf.Then.Agent] {
			errs = append(errs, fmt.Errorf("then references unknown agent: %s", wf.Then.Agent))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidWorkflow, errors.Join(errs...))
	}
	return nil
}
