package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sixhats/pkg/types"

	"github.com/google/go-cmp/cmp"
)

const sixHatsYAML = `
models:
  main:
    provider: gemini
    model: gemini-2.5-flash-lite
    rpm: 15
    retry:
      attempts: 3
      initial_delay: 2s
  research:
    provider: openai
    model: gpt-4o-mini
    use_proxy: true

agents:
  - id: WhiteHatAgent
    model: main
    role: Information Gatherer
    instruction: Gather facts about the problem.
    tools: [web_search, calc]
    output_key: whitehat_findings
  - id: BlackHatAgent
    model: main
    role: Risk Assessor
    instruction: List the risks.
    output_key: black_hat_plan
  - id: BlueHatAgent
    model: research
    role: Process Manager
    instruction: "Combine {whitehat_findings} and {black_hat_plan}."

workflow:
  type: parallel
  branches: [WhiteHatAgent, BlackHatAgent]
  then:
    agent: BlueHatAgent

search:
  api_key: tvly-test
`

func TestParseAppliesDefaults(t *testing.T) {
	config, err := Parse([]byte(sixHatsYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := types.RetryConfig{
		Attempts:        3,
		ExpBase:         7,
		InitialDelay:    2 * time.Second,
		HTTPStatusCodes: []int{429, 500, 503, 504},
	}
	if diff := cmp.Diff(want, config.Models["main"].Retry); diff != "" {
		t.Errorf("main retry (-want +got):\n%s", diff)
	}

	research := config.Models["research"]
	if research.Retry.Attempts != 5 || research.Retry.InitialDelay != time.Second {
		t.Errorf("research retry = %+v", research.Retry)
	}
	if !research.UseProxy {
		t.Error("use_proxy not decoded")
	}

	wantSearch := types.SearchConfig{Provider: "tavily", APIKey: "tvly-test", MaxResults: 5}
	if diff := cmp.Diff(wantSearch, config.Search); diff != "" {
		t.Errorf("search (-want +got):\n%s", diff)
	}

	if got := config.Agents[0].GetOutputKey(); got != "whitehat_findings" {
		t.Errorf("output key = %q", got)
	}
	if got := config.Agents[2].GetOutputKey(); got != "BlueHatAgent" {
		t.Errorf("default output key = %q", got)
	}
	if config.Workflow.Then.Agent != "BlueHatAgent" {
		t.Errorf("then = %+v", config.Workflow.Then)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{
			name:    "no agents",
			yaml:    "agents: []\n",
			wantMsg: "Agents",
		},
		{
			name: "unknown branch",
			yaml: `
agents:
  - {id: a, model: m}
workflow:
  type: parallel
  branches: [a, ghost]
`,
			wantMsg: "branch references unknown agent: ghost",
		},
		{
			name: "unknown then",
			yaml: `
agents:
  - {id: a, model: m}
workflow:
  type: parallel
  branches: [a]
  then: {agent: nobody}
`,
			wantMsg: "then references unknown agent: nobody",
		},
		{
			name: "duplicate id",
			yaml: `
agents:
  - {id: a, model: m}
  - {id: a, model: m}
`,
			wantMsg: "duplicate agent id: a",
		},
		{
			name: "unknown model",
			yaml: `
models:
  main: {provider: gemini, model: gemini-2.5-flash-lite}
agents:
  - {id: a, model: other}
`,
			wantMsg: "agent a uses unknown model: other",
		},
		{
			name: "unknown sub-agent",
			yaml: `
agents:
  - {id: boss, model: m, sub_agents: [worker]}
`,
			wantMsg: "references unknown sub-agent: worker",
		},
		{
			name: "sequential without steps",
			yaml: `
agents:
  - {id: a, model: m}
workflow:
  type: sequential
`,
			wantMsg: "Steps",
		},
		{
			name: "bad workflow type",
			yaml: `
agents:
  - {id: a, model: m}
workflow:
  type: loop
  steps: [{agent: a}]
`,
			wantMsg: "Type",
		},
		{
			name: "model without provider",
			yaml: `
models:
  main: {model: gemini-2.5-flash-lite}
agents:
  - {id: a, model: main}
`,
			wantMsg: "Provider",
		},
		{
			name: "too many search results",
			yaml: `
agents:
  - {id: a, model: m}
search: {max_results: 50}
`,
			wantMsg: "MaxResults",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalidWorkflow) {
				t.Fatalf("err = %v, want ErrInvalidWorkflow", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("err = %v, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("agents: [\n"))
	if err == nil || !strings.Contains(err.Error(), "failed to parse workflow") {
		t.Errorf("err = %v", err)
	}
}

func TestParseYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "six_hats.yaml")
	if err := os.WriteFile(path, []byte(sixHatsYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	config, err := ParseYAML(path)
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if len(config.Agents) != 3 {
		t.Errorf("agents = %d", len(config.Agents))
	}

	_, err = ParseYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestValidateSupervisorWithoutModels(t *testing.T) {
	config := &types.WorkflowConfig{Agents: []types.Agent{
		{ID: "boss", Model: "any", SubAgents: []string{"helper"}},
		{ID: "helper", Model: "any"},
	}}
	if err := Validate(config); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseBundledExample(t *testing.T) {
	config, err := ParseYAML(filepath.Join("..", "..", "examples", "six_hats.yaml"))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if len(config.Workflow.Branches) != 5 || config.Workflow.Then.Agent != "BlueHatAgent" {
		t.Errorf("workflow = %+v", config.Workflow)
	}
	if got := config.Models["manager"].Retry.Attempts; got != 3 {
		t.Errorf("manager attempts = %d", got)
	}
}
