/*
Copyright © 2026 sixhats Authors
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"sixhats/internal/agent"
	"sixhats/internal/engine"
	"sixhats/internal/logging"
	"sixhats/internal/mcp"
	"sixhats/internal/memory"
	"sixhats/internal/tools"
	"sixhats/internal/vectorstore"
	"sixhats/pkg/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	embeddingModel = "nomic-embed-text"
	envEmbedder    = "SIXHATS_EMBEDDER"
	indexTimeout   = 30 * time.Second
	contextResults = 3
)

var (
	sessionID      string
	continueLatest bool
	userPrompt     string
	useProvider    string
	useModel       string
	promptsDir     string
	smartContext   bool
	enableLogging  bool
)

var runCmd = &cobra.Command{
	Use:   "run [workflow.yaml]",
	Short: "Brainstorm a problem",
	Long: `Run puts a problem in front of the Six Thinking Hats.

Without a workflow file the built-in workflow runs: the White, Red, Black,
Yellow and Green hats work in parallel, then the Blue hat combines their
findings into a final plan. A workflow YAML file replaces the built-in
agents with your own.

Session Options:
  --session <id>    Continue a specific session
  --continue        Continue the most recent session
  --prompt <text>   The problem to brainstorm
  --smart-context   Inject relevant context from past sessions (requires Ollama)

Model Override:
  --use-provider    Override provider for all agents (e.g., ollama, gemini)
  --use-model       Override model name for all agents
  --prompts-dir     Directory with hat prompt overrides

Logging:
  --log             Write an execution transcript to ~/.sixhats/logs

Examples:
  sixhats run -p "Should we launch the product in Q3?"
  sixhats run -p "..." --use-provider openai --use-model gpt-4o-mini
  sixhats run team.yaml -p "..." --smart-context
  sixhats run --continue -p "Follow up question"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var workflowFile string
		if len(args) == 1 {
			workflowFile = args[0]
		}
		return runWorkflow(ctx, workflowFile)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&sessionID, "session", "", "Continue a specific session by ID")
	runCmd.Flags().BoolVar(&continueLatest, "continue", false, "Continue the most recent session")
	runCmd.Flags().StringVarP(&userPrompt, "prompt", "p", "", "The problem to brainstorm")
	runCmd.Flags().BoolVar(&smartContext, "smart-context", false, "Auto-inject relevant context from past sessions")
	runCmd.Flags().StringVar(&useProvider, "use-provider", "", "Override provider for all agents (e.g., ollama, gemini)")
	runCmd.Flags().StringVar(&useModel, "use-model", "", "Override model for all agents (e.g., llama3, gemini-2.5-flash)")
	runCmd.Flags().StringVar(&promptsDir, "prompts-dir", "", "Directory with prompt overrides for the built-in hats")
	runCmd.Flags().BoolVar(&enableLogging, "log", false, "Enable file-based execution logging")
	runCmd.MarkFlagsMutuallyExclusive("session", "continue")
}

func runWorkflow(ctx context.Context, workflowFile string) error {
	cliConfig := LoadEffectiveConfig()

	config, workflowName, err := loadWorkflow(workflowFile, cliConfig, promptsDir)
	if err != nil {
		return err
	}
	logger.Debug("workflow loaded", zap.String("workflow", workflowName), zap.Int("agents", len(config.Agents)))

	applyOverrides(config, useProvider, useModel, os.Stdout)

	if err := ensureAPIKeys(config, cliConfig); err != nil {
		return err
	}

	store := memory.NewStore("")
	session, err := openSession(store, workflowName)
	if err != nil {
		return err
	}

	problem := strings.TrimSpace(userPrompt)
	if problem == "" && session.Problem == "" {
		return errors.New("no problem to brainstorm: pass one with --prompt")
	}
	if session.Problem == "" {
		session.Problem = problem
	}

	// history excludes the prompt itself; Execute adds it as the request
	history := session.GetHistory()
	if smartContext {
		history = joinNonEmpty(history, findPastContext(ctx, problem))
	}
	if problem != "" {
		session.AddMessage("user", "input", problem)
		fmt.Printf("💬 Problem: %s\n", problem)
	}

	var execLog logging.ExecutionLogger = &logging.NullLogger{}
	if enableLogging {
		fileLog, err := logging.NewLogger(session.ID, "")
		if err != nil {
			logger.Warn("failed to create transcript", zap.Error(err))
		} else {
			fmt.Printf("📝 Logging execution to: %s\n", fileLog.GetFilePath())
			execLog = fileLog
		}
	}
	defer execLog.Close()

	reg, mcpClient := buildRegistry(ctx, config, cliConfig)
	defer mcpClient.Close()

	executor := engine.NewExecutor(config,
		agent.WithTools(reg),
		agent.WithLogger(logger),
		agent.WithMemory(memory.NewSharedMemory(session.ID)),
	)
	defer executor.Close()
	executor.SetZapLogger(logger)
	executor.SetLogger(execLog)
	executor.SetSessionHistory(history)

	index := 0
	executor.SetMessageCallback(func(agentID, role, content string) {
		session.AddMessage(agentID, role, content)
		current, total := executor.State.Progress()
		fmt.Printf("%s %-16s %s\n", agentEmoji(index, agentID), truncateStr(agentID, 16),
			ColorText(ProgressBar(current, total, 20), ColorDim))
		index++
	})

	fmt.Println()
	banner("🎩 STARTING BRAINSTORM 🎩", ColorGreen)
	printWorkflowDiagram(config)

	output, err := executor.Execute(ctx, problem)
	if err != nil {
		if saveErr := store.Save(session); saveErr != nil {
			logger.Warn("could not save session", zap.Error(saveErr))
		} else {
			fmt.Printf("💾 Partial session saved: %s (use --continue to retry)\n", session.ID)
		}
		return fmt.Errorf("error executing workflow: %w", err)
	}

	if err := store.Save(session); err != nil {
		logger.Warn("could not save session", zap.Error(err))
	}
	if n, err := store.Cleanup(time.Now()); err != nil {
		logger.Warn("session cleanup failed", zap.Error(err))
	} else if n > 0 {
		logger.Debug("removed old sessions", zap.Int("count", n))
	}
	indexSession(ctx, session)

	fmt.Println()
	banner("✨ FINAL PLAN ✨", ColorCyan)
	fmt.Println()
	fmt.Println(output)
	fmt.Println()

	printSummary(session.ID, executor.Stats)
	return nil
}

func openSession(store *memory.Store, workflowName string) (*memory.Session, error) {
	switch {
	case sessionID != "":
		session, err := store.Load(sessionID)
		if err != nil {
			return nil, fmt.Errorf("error loading session %s: %w", sessionID, err)
		}
		fmt.Printf("📚 Continuing session: %s\n", session.ID)
		return session, nil
	case continueLatest:
		session, err := store.Latest()
		if err != nil {
			return nil, err
		}
		if session != nil {
			fmt.Printf("📚 Continuing latest session: %s\n", session.ID)
			return session, nil
		}
		fmt.Println("No previous session found. Starting new session.")
	}

	session := memory.NewSession(workflowName)
	fmt.Printf("📝 New session: %s\n", session.ID)
	return session, nil
}

// buildRegistry clones the default tools, adds web search when a key is
// configured and registers the tools of every MCP server in the workflow.
func buildRegistry(ctx context.Context, config *types.WorkflowConfig, cliConfig *Config) (*tools.Registry, *mcp.Client) {
	reg := tools.Default().Clone()

	if key := searchKey(config.Search, cliConfig, os.Getenv); key != "" {
		reg.Register(tools.NewSearchTool(key, config.Search.MaxResults))
	} else {
		logger.Debug("web_search disabled: no API key")
	}

	client := mcp.NewClient(Version, logger)
	for name, server := range config.MCPServers {
		if err := client.Connect(ctx, name, server); err != nil {
			logger.Warn("MCP server unavailable", zap.String("server", name), zap.Error(err))
			continue
		}
		names, err := mcp.RegisterTools(reg, client, name)
		if err != nil {
			logger.Warn("could not list MCP tools", zap.String("server", name), zap.Error(err))
			continue
		}
		logger.Debug("MCP tools registered", zap.String("server", name), zap.Strings("tools", names))
	}
	return reg, client
}

// openVectorStore embeds with OpenAI when SIXHATS_EMBEDDER=openai and with
// a local Ollama model otherwise.
func openVectorStore() (*vectorstore.ChromemStore, error) {
	if strings.EqualFold(os.Getenv(envEmbedder), "openai") {
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("%s=openai requires OPENAI_API_KEY", envEmbedder)
		}
		return vectorstore.NewChromemStoreWithOpenAI(key)
	}
	return vectorstore.NewChromemStoreWithOllama(embeddingModel)
}

// findPastContext searches indexed sessions for messages related to query.
func findPastContext(ctx context.Context, query string) string {
	fmt.Println("🧠 Smart Context: Searching past sessions...")
	store, err := openVectorStore()
	if err != nil {
		fmt.Printf("   Warning: Smart context failed: %v\n", err)
		return ""
	}
	defer store.Close()

	if query == "" {
		query = "brainstorm plan"
	}
	results, err := store.Search(ctx, query, contextResults)
	if err != nil {
		fmt.Printf("   Warning: Smart context failed (is Ollama running?): %v\n", err)
		return ""
	}
	if len(results) == 0 {
		fmt.Println("   No relevant context found.")
		return ""
	}

	fmt.Printf("   Found %d relevant past messages. Injecting into context.\n", len(results))
	var sb strings.Builder
	sb.WriteString("=== RELEVANT PAST CONTEXT ===\n")
	for _, r := range results {
		fmt.Fprintf(&sb, "From Session %s:\n%s\n---\n", r.Metadata["session_id"], r.Content)
	}
	return sb.String()
}

// indexSession adds the finished session to the vector store. Failures
// only matter to smart context, so they are logged at debug.
func indexSession(ctx context.Context, session *memory.Session) {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	store, err := openVectorStore()
	if err != nil {
		logger.Debug("vector store unavailable", zap.Error(err))
		return
	}
	defer store.Close()

	if err := vectorstore.IndexSession(ctx, store, session); err != nil {
		logger.Debug("session not indexed", zap.String("session", session.ID), zap.Error(err))
	}
}

func printSummary(id string, stats *engine.ExecutionStats) {
	printHatStats(os.Stdout, stats.Snapshot())

	elapsed := stats.GetElapsedTime()
	cost := stats.EstimateCost()

	fmt.Printf("💾 Session: %s\n", ColorText(id, ColorBold))
	fmt.Printf("⏱️  Time: %s\n", FormatDuration(elapsed.Seconds()))
	if cost > 0 {
		fmt.Printf("💰 Est. Cost: %s\n", ColorText(fmt.Sprintf("$%.6f", cost), ColorYellow))
	}
}

func printHatStats(w io.Writer, hats []engine.AgentStat) {
	if len(hats) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "AGENT\tMODEL\tTIME\tTOKENS IN/OUT")
	for i, h := range hats {
		took := "-"
		if h.Completed {
			took = FormatDuration(h.Duration.Seconds())
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%d/%d\n", agentEmoji(i, h.AgentID), h.AgentID, h.Model, took, h.InputTokens, h.OutputTokens)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
