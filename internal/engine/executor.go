// Package engine drives a workflow: sequential steps, parallel branches
// with a manager stage, or a single supervisor agent.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"sixhats/internal/agent"
	"sixhats/internal/logging"
	"sixhats/internal/prompts"
	"sixhats/pkg/types"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// UserPromptKey is the shared memory key holding the user's problem.
const UserPromptKey = "user_prompt"

// MessageCallback receives every agent answer as it completes.
type MessageCallback func(agentID, role, content string)

type Executor struct {
	Config *types.WorkflowConfig
	Runner *agent.Runner
	State  *State
	Stats  *ExecutionStats

	logger         *zap.Logger
	execLog        logging.ExecutionLogger
	sessionHistory string

	cbMu      sync.Mutex
	onMessage MessageCallback
}

func NewExecutor(config *types.WorkflowConfig, opts ...agent.Option) *Executor {
	totalSteps := 0
	if config.Workflow != nil {
		totalSteps = len(config.Workflow.Steps) + len(config.Workflow.Branches)
		if config.Workflow.Then != nil {
			totalSteps++
		}
	} else if len(config.Agents) > 0 {
		totalSteps = 1
	}

	return &Executor{
		Config:  config,
		Runner:  agent.NewRunner(config, opts...),
		State:   NewState(totalSteps),
		Stats:   NewExecutionStats(),
		logger:  zap.NewNop(),
		execLog: &logging.NullLogger{},
	}
}

// SetLogger attaches a transcript logger to the executor and its runner.
func (e *Executor) SetLogger(l logging.ExecutionLogger) {
	e.execLog = l
	e.Runner.ExecLog = l
}

// SetZapLogger sets the process logger.
func (e *Executor) SetZapLogger(l *zap.Logger) {
	e.logger = l.Named("engine")
}

// SetSessionHistory sets context from earlier runs of the session.
func (e *Executor) SetSessionHistory(history string) {
	e.sessionHistory = history
}

// SetMessageCallback registers fn to receive each agent answer. Calls are
// serialized even when branches finish together.
func (e *Executor) SetMessageCallback(fn MessageCallback) {
	e.onMessage = fn
}

// Execute runs the workflow for prompt and returns the final answer.
func (e *Executor) Execute(ctx context.Context, prompt string) (string, error) {
	if prompt != "" {
		e.Runner.Memory.Set(UserPromptKey, prompt)
	}
	base := e.baseInput(prompt)

	// answers from an earlier Execute on this executor are not carried over
	e.Runner.Context.Clear()
	e.State.Start()

	var (
		output string
		err    error
	)
	if e.Config.Workflow == nil {
		output, err = e.executeSupervisor(ctx, base)
	} else {
		switch e.Config.Workflow.Type {
		case "sequential":
			output, err = e.executeSequential(ctx, base)
		case "parallel":
			output, err = e.executeParallel(ctx, base)
		default:
			err = fmt.Errorf("unknown workflow type: %s", e.Config.Workflow.Type)
		}
	}

	if err != nil {
		e.State.Fail(err)
		e.execLog.LogError(err)
		return "", err
	}

	e.State.Complete()
	e.logger.Debug("workflow complete",
		zap.Int("agents", e.Stats.GetCompletedCount()),
		zap.Strings("published", e.Runner.Memory.Keys()))
	return output, nil
}

func (e *Executor) baseInput(prompt string) string {
	var parts []string
	if e.sessionHistory != "" {
		parts = append(parts, e.sessionHistory)
	}
	if prompt != "" {
		parts = append(parts, "User request:\n"+prompt)
	}
	return strings.Join(parts, "\n\n")
}

func (e *Executor) agentByID(id string) (*types.Agent, error) {
	def := e.Runner.GetAgent(id)
	if def == nil {
		return nil, fmt.Errorf("%w: %s", agent.ErrAgentNotFound, id)
	}
	return def, nil
}

// runAgent wraps a runner call with stats, transcript and callback.
func (e *Executor) runAgent(ctx context.Context, def *types.Agent, input string) (string, error) {
	modelName := def.Model
	if m, ok := e.Config.Models[def.Model]; ok {
		modelName = m.Model
	}

	e.Stats.StartAgent(def.ID, def.Role, modelName)
	e.execLog.LogAgent(def.ID, "START", def.Role)
	e.logger.Debug("agent started", zap.String("agent", def.ID))

	response, err := e.Runner.RunAgent(ctx, def, input)
	if err != nil {
		e.execLog.LogAgent(def.ID, "FAILED", err.Error())
		return "", err
	}

	e.Stats.CompleteAgent(def.ID, EstimateTokens(input)+EstimateTokens(def.GetPrompt()), EstimateTokens(response))
	e.execLog.LogAgentOutput(def.ID, def.Role, response)
	e.State.NextStep()

	if e.onMessage != nil {
		e.cbMu.Lock()
		e.onMessage(def.ID, def.Role, response)
		e.cbMu.Unlock()
	}
	return response, nil
}

// Each step sees the request plus every earlier answer.
func (e *Executor) executeSequential(ctx context.Context, base string) (string, error) {
	e.execLog.LogSection("SEQUENTIAL WORKFLOW")

	for _, step := range e.Config.Workflow.Steps {
		def, err := e.agentByID(step.Agent)
		if err != nil {
			return "", err
		}

		if _, err := e.runAgent(ctx, def, joinInput(base, e.Runner.Context.GetContext())); err != nil {
			return "", err
		}
	}

	return e.Runner.GetFinalOutput(), nil
}

// Branches run concurrently and see only the request. The then agent
// reads their answers through output-key placeholders, or as appended
// context when its instruction has none.
func (e *Executor) executeParallel(ctx context.Context, base string) (string, error) {
	e.execLog.LogSection("PARALLEL BRANCHES")

	branches := make([]*types.Agent, 0, len(e.Config.Workflow.Branches))
	for _, branchID := range e.Config.Workflow.Branches {
		def, err := e.agentByID(branchID)
		if err != nil {
			return "", err
		}
		branches = append(branches, def)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, def := range branches {
		g.Go(func() error {
			_, err := e.runAgent(gctx, def, base)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	if e.Config.Workflow.Then == nil {
		return e.Runner.GetFinalOutput(), nil
	}

	e.execLog.LogSection("MANAGER")
	thenAgent, err := e.agentByID(e.Config.Workflow.Then.Agent)
	if err != nil {
		return "", fmt.Errorf("then %w", err)
	}

	input := base
	if len(prompts.Placeholders(thenAgent.GetPrompt())) == 0 {
		input = joinInput(base, e.Runner.Context.GetContext())
	}
	return e.runAgent(ctx, thenAgent, input)
}

func (e *Executor) executeSupervisor(ctx context.Context, base string) (string, error) {
	var rootAgent *types.Agent
	for i := range e.Config.Agents {
		if e.Config.Agents[i].IsSupervisor() {
			rootAgent = &e.Config.Agents[i]
			break
		}
	}

	if rootAgent == nil && len(e.Config.Agents) > 0 {
		rootAgent = &e.Config.Agents[0]
	}

	if rootAgent == nil {
		return "", fmt.Errorf("no root agent found")
	}

	e.execLog.LogSection("SUPERVISOR " + rootAgent.ID)
	return e.runAgent(ctx, rootAgent, base)
}

// Close releases model clients.
func (e *Executor) Close() error {
	return e.Runner.Close()
}

func joinInput(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}
