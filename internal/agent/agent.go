// Package agent runs a single persona against its model: prompt assembly,
// rate limiting, retry, and the tool-call loop.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"sixhats/internal/logging"
	"sixhats/internal/memory"
	"sixhats/internal/prompts"
	"sixhats/internal/tools"
	"sixhats/pkg/types"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	ErrAgentNotFound = errors.New("agent not found")
	ErrModelNotFound = errors.New("model not found")
)

const (
	// maxToolTurns bounds how many times an agent may call tools before
	// its answer is taken as final.
	maxToolTurns = 3

	requireTimeout = 5 * time.Minute
)

type Runner struct {
	Config  *types.WorkflowConfig
	Context *ContextManager
	Clients map[string]LLMClient
	Tools   *tools.Registry
	Memory  *memory.SharedMemory
	ExecLog logging.ExecutionLogger

	logger   *zap.Logger
	limiters map[string]*rate.Limiter
	sleep    func(ctx context.Context, d time.Duration) error
}

type Option func(*Runner)

// WithLogger sets the process logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithTools sets the registry agents resolve their tools from. The runner
// works on a clone so agent tools do not leak into it.
func WithTools(reg *tools.Registry) Option {
	return func(r *Runner) { r.Tools = reg.Clone() }
}

// WithMemory shares an existing output-key store.
func WithMemory(sm *memory.SharedMemory) Option {
	return func(r *Runner) { r.Memory = sm }
}

// WithClient overrides the client used for a model name.
func WithClient(model string, c LLMClient) Option {
	return func(r *Runner) { r.Clients[model] = c }
}

// WithSleep replaces the wait between retries.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(r *Runner) { r.sleep = fn }
}

func NewRunner(config *types.WorkflowConfig, opts ...Option) *Runner {
	runner := &Runner{
		Config:   config,
		Context:  NewContextManager(),
		Clients:  make(map[string]LLMClient),
		ExecLog:  &logging.NullLogger{},
		logger:   zap.NewNop(),
		limiters: make(map[string]*rate.Limiter),
		sleep:    sleepContext,
	}

	for name, model := range config.Models {
		runner.Clients[name] = NewLLMClient(model)
		if model.RPM > 0 {
			runner.limiters[name] = rate.NewLimiter(rate.Every(time.Minute/time.Duration(model.RPM)), 1)
		}
	}

	for _, opt := range opts {
		opt(runner)
	}

	if runner.Tools == nil {
		runner.Tools = tools.Default().Clone()
	}
	if runner.Memory == nil {
		runner.Memory = memory.NewSharedMemory("")
	}
	runner.logger = runner.logger.Named("agent")

	// Every agent can be called as a tool by the agents that list it.
	for i := range config.Agents {
		def := &config.Agents[i]
		if _, taken := runner.Tools.Get(def.ID); taken {
			runner.logger.Warn("agent id shadows a tool, not exposed as agent tool", zap.String("agent", def.ID))
			continue
		}
		runner.Tools.Register(NewAgentTool(runner, def))
	}

	return runner
}

// RunAgent runs one agent on input and publishes its answer under the
// agent's output key.
func (r *Runner) RunAgent(ctx context.Context, agentDef *types.Agent, input string) (string, error) {
	client, ok := r.Clients[agentDef.Model]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrModelNotFound, agentDef.Model)
	}

	log := r.logger.With(zap.String("agent", agentDef.ID), zap.String("session", r.Memory.GetSessionID()))

	if len(agentDef.Requires) > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, requireTimeout)
		defer cancel()
		for _, key := range agentDef.Requires {
			log.Debug("waiting for key", zap.String("key", key))
			if _, err := r.Memory.WaitForContext(waitCtx, key); err != nil {
				return "", fmt.Errorf("agent %s: %w", agentDef.ID, err)
			}
		}
	}

	available := r.agentTools(agentDef, log)
	prompt := r.buildPrompt(agentDef, available, input)
	log.Info("running agent", zap.String("role", agentDef.Role), zap.Int("tools", len(available)))

	response, err := r.generate(ctx, agentDef, client, prompt)
	if err != nil {
		return "", err
	}

	for turn := 0; turn < maxToolTurns && len(available) > 0 && tools.HasToolCalls(response); turn++ {
		calls := tools.ParseToolCalls(response)
		if len(calls) == 0 {
			break
		}
		results := tools.ExecuteToolCalls(ctx, available, calls)
		for _, res := range results {
			output := res.Output
			if res.Error != nil {
				output = "ERROR: " + res.Error.Error()
				log.Warn("tool call failed", zap.String("tool", res.ToolName), zap.Error(res.Error))
			}
			r.ExecLog.LogToolCall(res.ToolName, res.Input, output)
		}

		prompt = prompt + "\n\n" + response + tools.FormatToolResults(results) +
			"\n\nUse the tool results above to continue. Only call another tool if you still need it."
		response, err = r.generate(ctx, agentDef, client, prompt)
		if err != nil {
			return "", err
		}
	}

	r.Context.AddOutput(agentDef.ID, agentDef.Role, response)
	r.Memory.Set(agentDef.GetOutputKey(), response)
	return response, nil
}

// generate calls the model, waiting on the model's rate limiter and
// retrying per its retry settings.
func (r *Runner) generate(ctx context.Context, agentDef *types.Agent, client LLMClient, prompt string) (string, error) {
	rc := r.Config.Models[agentDef.Model].Retry
	attempts := max(rc.Attempts, 1)
	limiter := r.limiters[agentDef.Model]

	for attempt := 1; ; attempt++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		response, err := client.Generate(ctx, prompt)
		if err == nil {
			return response, nil
		}

		if attempt >= attempts || !Retryable(err, rc.HTTPStatusCodes) {
			if attempt > 1 {
				return "", fmt.Errorf("agent %s failed after %d attempts: %w", agentDef.ID, attempt, err)
			}
			return "", fmt.Errorf("agent %s: %w", agentDef.ID, err)
		}

		delay := RetryDelay(rc, attempt)
		r.logger.Warn("model call failed, retrying",
			zap.String("agent", agentDef.ID),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
		r.ExecLog.LogAgent(agentDef.ID, "RETRY", fmt.Sprintf("attempt %d failed: %v", attempt, err))

		if err := r.sleep(ctx, delay); err != nil {
			return "", err
		}
	}
}

// agentTools resolves the agent's declared tools, sub-agents and toolsets.
// Declared tools that are not available in this run are skipped.
func (r *Runner) agentTools(agentDef *types.Agent, log *zap.Logger) []tools.Tool {
	var result []tools.Tool
	seen := map[string]bool{agentDef.ID: true}
	for _, name := range slices.Concat(agentDef.Tools, agentDef.SubAgents) {
		if seen[name] {
			continue
		}
		seen[name] = true
		t, ok := r.Tools.Get(name)
		if !ok {
			log.Warn("tool not available, skipping", zap.String("tool", name))
			continue
		}
		result = append(result, t)
	}
	for _, set := range agentDef.Toolsets {
		result = append(result, r.Tools.GetByPrefix(set+".")...)
	}
	return result
}

func (r *Runner) buildPrompt(agentDef *types.Agent, available []tools.Tool, input string) string {
	var sb strings.Builder
	sb.WriteString(prompts.Render(agentDef.GetPrompt(), r.lookup))

	if catalogue := tools.FormatToolsForPrompt(available); catalogue != "" {
		sb.WriteString("\n\n")
		sb.WriteString(catalogue)
	}
	if input != "" {
		sb.WriteString("\n\n")
		sb.WriteString(input)
	}
	return sb.String()
}

func (r *Runner) lookup(key string) (string, bool) {
	if _, ok := r.Memory.Get(key); !ok {
		return "", false
	}
	return r.Memory.GetString(key), true
}

func (r *Runner) GetAgent(id string) *types.Agent {
	for i := range r.Config.Agents {
		if r.Config.Agents[i].ID == id {
			return &r.Config.Agents[i]
		}
	}
	return nil
}

func (r *Runner) GetFinalOutput() string {
	return r.Context.GetLastOutput()
}

// Close releases clients that hold connections.
func (r *Runner) Close() error {
	var errs []error
	for _, c := range r.Clients {
		if closer, ok := c.(io.Closer); ok {
			errs = append(errs, closer.Close())
		}
	}
	return errors.Join(errs...)
}
