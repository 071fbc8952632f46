package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"sixhats/internal/agent"
	"sixhats/internal/tools"
	"sixhats/pkg/types"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// scriptedClient answers by matching the first line of the prompt, which
// is the agent's instruction in these tests.
type scriptedClient struct {
	mu      sync.Mutex
	prompts map[string]string
	answers map[string]string
	fail    map[string]error
}

func newScriptedClient() *scriptedClient {
	return &scriptedClient{
		prompts: map[string]string{},
		answers: map[string]string{},
		fail:    map[string]error{},
	}
}

func (c *scriptedClient) Generate(ctx context.Context, prompt string) (string, error) {
	first, _, _ := strings.Cut(prompt, "\n")
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts[first] = prompt
	if err, ok := c.fail[first]; ok {
		return "", err
	}
	if a, ok := c.answers[first]; ok {
		return a, nil
	}
	return "answer to " + first, nil
}

func (c *scriptedClient) promptFor(instruction string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prompts[instruction]
}

func hatConfig(workflow *types.WorkflowSpec, agents ...types.Agent) *types.WorkflowConfig {
	return &types.WorkflowConfig{
		Agents:   agents,
		Workflow: workflow,
		Models: map[string]types.Model{
			"main": {Provider: "ollama", Model: "gemini-2.5-flash-lite", Retry: types.RetryConfig{Attempts: 1}},
		},
	}
}

func newTestExecutor(cfg *types.WorkflowConfig, c agent.LLMClient) *Executor {
	return NewExecutor(cfg, agent.WithClient("main", c), agent.WithTools(tools.NewRegistry()))
}

func TestExecuteParallelThenManager(t *testing.T) {
	cfg := hatConfig(
		&types.WorkflowSpec{
			Type:     "parallel",
			Branches: []string{"white", "red", "black"},
			Then:     &types.Step{Agent: "blue"},
		},
		types.Agent{ID: "white", Model: "main", Role: "Facts", Instruction: "WHITE", OutputKey: "whitehat_findings"},
		types.Agent{ID: "red", Model: "main", Role: "Feelings", Instruction: "RED", OutputKey: "red_hat_plan"},
		types.Agent{ID: "black", Model: "main", Role: "Risks", Instruction: "BLACK", OutputKey: "black_hat_plan"},
		types.Agent{ID: "blue", Model: "main", Role: "Manager", Instruction: "BLUE\nfacts={whitehat_findings}\nfeel={red_hat_plan}\nrisk={black_hat_plan}"},
	)
	c := newScriptedClient()
	c.answers["WHITE"] = "W-OUT"
	c.answers["RED"] = "R-OUT"
	c.answers["BLACK"] = "B-OUT"
	c.answers["BLUE"] = "FINAL PLAN"

	e := newTestExecutor(cfg, c)
	var mu sync.Mutex
	var got []string
	e.SetMessageCallback(func(agentID, role, content string) {
		mu.Lock()
		got = append(got, agentID)
		mu.Unlock()
	})

	out, err := e.Execute(context.Background(), "Should we open a second office?")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out != "FINAL PLAN" {
		t.Errorf("output = %q", out)
	}

	for _, hat := range []string{"WHITE", "RED", "BLACK"} {
		p := c.promptFor(hat)
		if !strings.Contains(p, "User request:\nShould we open a second office?") {
			t.Errorf("%s did not see the request: %q", hat, p)
		}
		for _, other := range []string{"W-OUT", "R-OUT", "B-OUT"} {
			if strings.Contains(p, other) {
				t.Errorf("%s saw another branch's output %s", hat, other)
			}
		}
	}

	blue := c.promptFor("BLUE")
	if !strings.Contains(blue, "facts=W-OUT\nfeel=R-OUT\nrisk=B-OUT") {
		t.Errorf("manager prompt not rendered: %q", blue)
	}
	if strings.Contains(blue, "Perspectives from the team") {
		t.Errorf("manager with placeholders should not get appended context: %q", blue)
	}

	if len(got) != 4 || got[3] != "blue" {
		t.Errorf("callbacks = %v", got)
	}
	if e.State.Status != StateCompleted {
		t.Errorf("state = %v", e.State.Status)
	}
	if cur, total := e.State.Progress(); cur != 4 || total != 4 {
		t.Errorf("progress = %d/%d", cur, total)
	}
	if e.Stats.GetCompletedCount() != 4 {
		t.Errorf("completed = %d", e.Stats.GetCompletedCount())
	}
	if e.Stats.EstimateCost() <= 0 {
		t.Error("expected a cost estimate for a priced model")
	}
	if v := e.Runner.Memory.GetString(UserPromptKey); v != "Should we open a second office?" {
		t.Errorf("user prompt key = %q", v)
	}
}

func TestExecuteParallelThenWithoutPlaceholders(t *testing.T) {
	cfg := hatConfig(
		&types.WorkflowSpec{Type: "parallel", Branches: []string{"a", "b"}, Then: &types.Step{Agent: "m"}},
		types.Agent{ID: "a", Model: "main", Instruction: "A"},
		types.Agent{ID: "b", Model: "main", Instruction: "B"},
		types.Agent{ID: "m", Model: "main", Instruction: "M"},
	)
	c := newScriptedClient()
	e := newTestExecutor(cfg, c)

	if _, err := e.Execute(context.Background(), "q"); err != nil {
		t.Fatal(err)
	}
	m := c.promptFor("M")
	if !strings.Contains(m, "[a]:\nanswer to A") || !strings.Contains(m, "[b]:\nanswer to B") {
		t.Errorf("manager prompt missing branch context: %q", m)
	}
}

func TestExecuteParallelBranchFailure(t *testing.T) {
	cfg := hatConfig(
		&types.WorkflowSpec{Type: "parallel", Branches: []string{"a", "b"}, Then: &types.Step{Agent: "m"}},
		types.Agent{ID: "a", Model: "main", Instruction: "A"},
		types.Agent{ID: "b", Model: "main", Instruction: "B"},
		types.Agent{ID: "m", Model: "main", Instruction: "M"},
	)
	c := newScriptedClient()
	c.fail["B"] = &agent.APIError{Provider: "gemini", StatusCode: 400, Body: "bad"}
	e := newTestExecutor(cfg, c)

	_, err := e.Execute(context.Background(), "q")
	var apiErr *agent.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if e.State.Status != StateFailed || e.State.Error == nil {
		t.Errorf("state = %v (%v)", e.State.Status, e.State.Error)
	}
	if c.promptFor("M") != "" {
		t.Error("manager should not run after a branch failure")
	}
}

func TestExecuteSequential(t *testing.T) {
	cfg := hatConfig(
		&types.WorkflowSpec{Type: "sequential", Steps: []types.Step{{Agent: "first"}, {Agent: "second"}}},
		types.Agent{ID: "first", Model: "main", Instruction: "FIRST"},
		types.Agent{ID: "second", Model: "main", Instruction: "SECOND"},
	)
	c := newScriptedClient()
	e := newTestExecutor(cfg, c)
	e.SetSessionHistory("=== Previous Session Context ===\n\nolder answer")

	out, err := e.Execute(context.Background(), "go")
	if err != nil {
		t.Fatal(err)
	}
	if out != "answer to SECOND" {
		t.Errorf("output = %q", out)
	}
	second := c.promptFor("SECOND")
	for _, want := range []string{"older answer", "User request:\ngo", "[first]:\nanswer to FIRST"} {
		if !strings.Contains(second, want) {
			t.Errorf("second step prompt missing %q: %q", want, second)
		}
	}
}

func TestExecuteTwiceStartsFresh(t *testing.T) {
	cfg := hatConfig(
		&types.WorkflowSpec{Type: "sequential", Steps: []types.Step{{Agent: "first"}, {Agent: "second"}}},
		types.Agent{ID: "first", Model: "main", Instruction: "FIRST"},
		types.Agent{ID: "second", Model: "main", Instruction: "SECOND"},
	)
	c := newScriptedClient()
	e := newTestExecutor(cfg, c)

	for i := 0; i < 2; i++ {
		if _, err := e.Execute(context.Background(), "go"); err != nil {
			t.Fatal(err)
		}
	}
	if n := strings.Count(c.promptFor("SECOND"), "[first]:"); n != 1 {
		t.Errorf("second run saw %d earlier answers from first", n)
	}
}

func TestExecuteLogsCompletion(t *testing.T) {
	cfg := hatConfig(
		&types.WorkflowSpec{Type: "sequential", Steps: []types.Step{{Agent: "first"}, {Agent: "second"}}},
		types.Agent{ID: "first", Model: "main", Instruction: "FIRST", OutputKey: "first_findings"},
		types.Agent{ID: "second", Model: "main", Instruction: "SECOND"},
	)
	e := newTestExecutor(cfg, newScriptedClient())
	core, logs := observer.New(zapcore.DebugLevel)
	e.SetZapLogger(zap.New(core))

	if _, err := e.Execute(context.Background(), "go"); err != nil {
		t.Fatal(err)
	}

	entries := logs.FilterMessage("workflow complete").All()
	if len(entries) != 1 {
		t.Fatalf("completion entries = %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["agents"] != int64(2) {
		t.Errorf("agents = %v", fields["agents"])
	}
	if got := fmt.Sprint(fields["published"]); got != "[first_findings second user_prompt]" {
		t.Errorf("published = %s", got)
	}
}

func TestExecuteSupervisorFallback(t *testing.T) {
	tests := []struct {
		name   string
		agents []types.Agent
		want   string
	}{
		{"first supervisor wins", []types.Agent{
			{ID: "worker", Model: "main", Instruction: "WORKER"},
			{ID: "boss", Model: "main", Instruction: "BOSS", SubAgents: []string{"worker"}},
		}, "answer to BOSS"},
		{"first agent otherwise", []types.Agent{
			{ID: "solo", Model: "main", Instruction: "SOLO"},
		}, "answer to SOLO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExecutor(hatConfig(nil, tt.agents...), newScriptedClient())
			out, err := e.Execute(context.Background(), "")
			if err != nil {
				t.Fatal(err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}

	e := newTestExecutor(hatConfig(nil), newScriptedClient())
	if _, err := e.Execute(context.Background(), ""); err == nil {
		t.Error("expected error with no agents")
	}
}

func TestExecuteUnknownAgent(t *testing.T) {
	for _, wf := range []*types.WorkflowSpec{
		{Type: "sequential", Steps: []types.Step{{Agent: "ghost"}}},
		{Type: "parallel", Branches: []string{"ghost"}},
		{Type: "parallel", Branches: []string{"a"}, Then: &types.Step{Agent: "ghost"}},
	} {
		cfg := hatConfig(wf, types.Agent{ID: "a", Model: "main", Instruction: "A"})
		e := newTestExecutor(cfg, newScriptedClient())
		if _, err := e.Execute(context.Background(), "q"); !errors.Is(err, agent.ErrAgentNotFound) {
			t.Errorf("%s: err = %v, want ErrAgentNotFound", wf.Type, err)
		}
	}

	cfg := hatConfig(&types.WorkflowSpec{Type: "loop"}, types.Agent{ID: "a", Model: "main"})
	if _, err := newTestExecutor(cfg, newScriptedClient()).Execute(context.Background(), ""); err == nil || !strings.Contains(err.Error(), "unknown workflow type") {
		t.Errorf("err = %v", err)
	}
}

func TestExecuteCancelled(t *testing.T) {
	cfg := hatConfig(
		&types.WorkflowSpec{Type: "parallel", Branches: []string{"a"}},
		types.Agent{ID: "a", Model: "main", Instruction: "A"},
	)
	c := newScriptedClient()
	c.fail["A"] = fmt.Errorf("call: %w", context.Canceled)
	e := newTestExecutor(cfg, c)

	if _, err := e.Execute(context.Background(), "q"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}

func TestEstimateTokens(t *testing.T) {
	for in, want := range map[string]int{"": 0, "abc": 1, "abcd": 1, "abcde": 2} {
		if got := EstimateTokens(in); got != want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", in, got, want)
		}
	}
}
