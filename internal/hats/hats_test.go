package hats

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sixhats/internal/prompts"
	"sixhats/pkg/types"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestHatString(t *testing.T) {
	var names []string
	for _, h := range All {
		names = append(names, h.String())
	}
	if diff := cmp.Diff([]string{"White", "Red", "Black", "Yellow", "Green", "Blue"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if Hat(42).String() != "Hat(42)" {
		t.Errorf("unknown hat = %q", Hat(42).String())
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		hat  Hat
		want types.Agent
	}{
		{White, types.Agent{ID: "WhiteHatAgent", Model: "main", Role: "Information Gatherer", OutputKey: "whitehat_findings", Tools: []string{"web_search", "calc"}}},
		{Red, types.Agent{ID: "RedHatAgent", Model: "main", Role: "Intuition and Emotion", OutputKey: "red_hat_plan", Tools: []string{"web_search", "interpret_emotional_tone"}}},
		{Black, types.Agent{ID: "BlackHatAgent", Model: "main", Role: "Risk Assessor", OutputKey: "black_hat_plan"}},
		{Yellow, types.Agent{ID: "YellowHatAgent", Model: "main", Role: "Optimist", OutputKey: "yellow_hat_plan", Tools: []string{"get_positive_data", "google_optimist"}}},
		{Green, types.Agent{ID: "GreenHatAgent", Model: "main", Role: "Creative Thinker", OutputKey: "green_hat_plan"}},
		{Blue, types.Agent{ID: "BlueHatAgent", Model: "main", Role: "Process Manager", OutputKey: "blue_hat_final_plan"}},
	}

	for _, tt := range tests {
		t.Run(tt.hat.String(), func(t *testing.T) {
			got, err := Build(tt.hat, "main", nil)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if got.Instruction == "" {
				t.Error("instruction not loaded")
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreFields(types.Agent{}, "Instruction"), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("agent mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildToolsAreCopied(t *testing.T) {
	a, _ := Build(White, "main", nil)
	a.Tools[0] = "mutated"
	b, _ := Build(White, "main", nil)
	if b.Tools[0] != "web_search" {
		t.Error("Build shares the persona's tool slice")
	}
}

func TestBuildMissingPrompt(t *testing.T) {
	p := Persona{Name: "Ghost", PromptFile: "ghost_prompt.txt"}
	if _, err := build(p, "main", nil); !errors.Is(err, prompts.ErrPromptNotFound) {
		t.Errorf("err = %v, want ErrPromptNotFound", err)
	}
	if _, err := Build(Hat(9), "main", nil); err == nil {
		t.Error("expected error for unknown hat")
	}
}

func TestWorkflow(t *testing.T) {
	cfg, err := Workflow(Options{Model: "main", Models: map[string]types.Model{"main": {Provider: "gemini", Model: "gemini-2.5-flash-lite"}}})
	if err != nil {
		t.Fatalf("Workflow: %v", err)
	}

	want := &types.WorkflowSpec{
		Type:     "parallel",
		Branches: []string{"WhiteHatAgent", "RedHatAgent", "BlackHatAgent", "YellowHatAgent", "GreenHatAgent"},
		Then:     &types.Step{Agent: "BlueHatAgent"},
	}
	if diff := cmp.Diff(want, cfg.Workflow); diff != "" {
		t.Errorf("workflow mismatch (-want +got):\n%s", diff)
	}

	if len(cfg.Agents) != 7 {
		t.Fatalf("agents = %d, want 7", len(cfg.Agents))
	}
	search := cfg.Agents[6]
	if search.ID != SearchAgentName || search.OutputKey != "yellow_hat_search_output" || search.Model != "main" {
		t.Errorf("search agent = %+v", search)
	}
	if search.Description == "" {
		t.Error("search agent needs a description to be offered as a tool")
	}

	blue := cfg.Agents[5]
	placeholders := prompts.Placeholders(blue.Instruction)
	for _, key := range []string{"whitehat_findings", "red_hat_plan", "black_hat_plan", "yellow_hat_plan", "green_hat_plan"} {
		found := false
		for _, p := range placeholders {
			if p == key {
				found = true
			}
		}
		if !found {
			t.Errorf("blue hat instruction does not reference {%s}", key)
		}
	}
}

func TestWorkflowSearchModel(t *testing.T) {
	cfg, err := Workflow(Options{Model: "main", SearchModel: "search"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Agents[6].Model != "search" || cfg.Agents[0].Model != "main" {
		t.Errorf("models = %s / %s", cfg.Agents[0].Model, cfg.Agents[6].Model)
	}

	if _, err := Workflow(Options{}); err == nil {
		t.Error("expected error without a model")
	}
}

func TestWorkflowPromptOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "green_hat_prompt.txt"), []byte("Think sideways."), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Workflow(Options{Model: "main", Loader: prompts.NewLoader(dir, nil)})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Agents[4].Instruction != "Think sideways." {
		t.Errorf("green instruction = %q", cfg.Agents[4].Instruction)
	}
	if !strings.HasPrefix(cfg.Agents[5].Instruction, "You are the Blue Hat") {
		t.Errorf("blue should fall back to bundled prompt: %q", cfg.Agents[5].Instruction[:40])
	}
}
