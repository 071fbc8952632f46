// Package hats defines the six thinking-hat personas and assembles them
// into the parallel-then-manager brainstorming workflow.
package hats

import (
	"fmt"

	"sixhats/internal/prompts"
	"sixhats/pkg/types"
)

type Hat int

const (
	White Hat = iota
	Red
	Black
	Yellow
	Green
	Blue
)

// All lists the hats in the order they are presented.
var All = []Hat{White, Red, Black, Yellow, Green, Blue}

func (h Hat) String() string {
	switch h {
	case White:
		return "White"
	case Red:
		return "Red"
	case Black:
		return "Black"
	case Yellow:
		return "Yellow"
	case Green:
		return "Green"
	case Blue:
		return "Blue"
	default:
		return fmt.Sprintf("Hat(%d)", int(h))
	}
}

// Persona is the fixed description of one hat.
type Persona struct {
	Hat        Hat
	Name       string
	Role       string
	PromptFile string
	OutputKey  string
	Tools      []string
}

// SearchAgentName is the Yellow Hat's web-search helper, called as a tool.
const SearchAgentName = "google_optimist"

var personas = []Persona{
	{White, "WhiteHatAgent", "Information Gatherer", "white_hat_prompt.txt", "whitehat_findings", []string{"web_search", "calc"}},
	{Red, "RedHatAgent", "Intuition and Emotion", "red_hat_prompt.txt", "red_hat_plan", []string{"web_search", "interpret_emotional_tone"}},
	{Black, "BlackHatAgent", "Risk Assessor", "black_hat_prompt.txt", "black_hat_plan", nil},
	{Yellow, "YellowHatAgent", "Optimist", "yellow_hat_prompt.txt", "yellow_hat_plan", []string{"get_positive_data", SearchAgentName}},
	{Green, "GreenHatAgent", "Creative Thinker", "green_hat_prompt.txt", "green_hat_plan", nil},
	{Blue, "BlueHatAgent", "Process Manager", "blue_hat_prompt.txt", "blue_hat_final_plan", nil},
}

var searchPersona = Persona{
	Name:       SearchAgentName,
	Role:       "Optimistic Web Researcher",
	PromptFile: "yellow_hat_search_prompt.txt",
	OutputKey:  "yellow_hat_search_output",
	Tools:      []string{"web_search"},
}

// Lookup returns the persona for h.
func Lookup(h Hat) (Persona, bool) {
	for _, p := range personas {
		if p.Hat == h {
			return p, true
		}
	}
	return Persona{}, false
}

// Build creates the agent definition for a hat on the given model handle.
func Build(h Hat, model string, loader *prompts.Loader) (types.Agent, error) {
	p, ok := Lookup(h)
	if !ok {
		return types.Agent{}, fmt.Errorf("unknown hat %v", h)
	}
	return build(p, model, loader)
}

// BuildSearchAgent creates the Yellow Hat's search helper.
func BuildSearchAgent(model string, loader *prompts.Loader) (types.Agent, error) {
	a, err := build(searchPersona, model, loader)
	if err != nil {
		return types.Agent{}, err
	}
	a.Description = "Searches the web for optimistic news, success stories and positive trends about a topic. Input: the topic."
	return a, nil
}

func build(p Persona, model string, loader *prompts.Loader) (types.Agent, error) {
	if loader == nil {
		loader = prompts.Default
	}
	instruction, err := loader.Load(p.PromptFile)
	if err != nil {
		return types.Agent{}, fmt.Errorf("build %s: %w", p.Name, err)
	}

	return types.Agent{
		ID:          p.Name,
		Model:       model,
		Role:        p.Role,
		Instruction: instruction,
		Tools:       append([]string(nil), p.Tools...),
		OutputKey:   p.OutputKey,
	}, nil
}

// Options configures the built-in workflow.
type Options struct {
	// Model is the model handle used by every hat.
	Model string
	// SearchModel is used by the search helper; defaults to Model.
	SearchModel string
	Models      map[string]types.Model
	Search      types.SearchConfig
	Loader      *prompts.Loader
}

// Workflow assembles the six hats: White, Red, Black, Yellow and Green run
// in parallel, then Blue combines their outputs.
func Workflow(opts Options) (*types.WorkflowConfig, error) {
	if opts.Model == "" {
		return nil, fmt.Errorf("hats workflow: model is required")
	}
	searchModel := opts.SearchModel
	if searchModel == "" {
		searchModel = opts.Model
	}

	config := &types.WorkflowConfig{
		Models: opts.Models,
		Search: opts.Search,
		Workflow: &types.WorkflowSpec{
			Type: "parallel",
		},
	}

	for _, h := range All {
		a, err := Build(h, opts.Model, opts.Loader)
		if err != nil {
			return nil, err
		}
		config.Agents = append(config.Agents, a)
		if h == Blue {
			config.Workflow.Then = &types.Step{Agent: a.ID}
		} else {
			config.Workflow.Branches = append(config.Workflow.Branches, a.ID)
		}
	}

	search, err := BuildSearchAgent(searchModel, opts.Loader)
	if err != nil {
		return nil, err
	}
	config.Agents = append(config.Agents, search)

	return config, nil
}
