/*
Copyright © 2026 sixhats Authors
*/
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"sixhats/internal/memory"
	"sixhats/internal/vectorstore"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const previewLen = 300

var showFull bool
var showAgentsOnly bool

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage brainstorming sessions",
	Long:  `List, view, search and manage saved brainstorming sessions.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := memory.NewStore("").List()
		if err != nil {
			return fmt.Errorf("error listing sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No saved sessions found.")
			fmt.Println("Run sixhats run -p \"...\" to create a session.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tWORKFLOW\tPROBLEM\tMESSAGES\tLAST UPDATED")
		fmt.Fprintln(w, "--\t--------\t-------\t--------\t------------")

		for _, s := range sessions {
			ago := time.Since(s.UpdatedAt).Round(time.Minute)
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s ago\n", s.ID, s.Workflow, truncateStr(s.Problem, 40), len(s.Messages), ago)
		}
		return w.Flush()
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show details of a session",
	Long: `Show the problem and every hat's answer in a session.

Use --full to display complete message content instead of truncated.

Examples:
  sixhats sessions show abc123
  sixhats sessions show abc123 --full`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := memory.NewStore("").Load(args[0])
		if err != nil {
			return fmt.Errorf("error loading session: %w", err)
		}

		fmt.Println()
		fmt.Printf("📋 Session:  %s\n", session.ID)
		fmt.Printf("📁 Workflow: %s\n", session.Workflow)
		fmt.Printf("🕐 Created:  %s\n", session.CreatedAt.Format("Jan 02 15:04"))
		fmt.Printf("📨 Messages: %d\n", len(session.Messages))
		if session.Problem != "" {
			fmt.Printf("❓ Problem:  %s\n", session.Problem)
		}
		fmt.Println()

		agents := 0
		for _, msg := range session.Messages {
			if msg.AgentID == "user" || msg.AgentID == "system" {
				continue
			}
			fmt.Printf("  %s %-16s %s\n", agentEmoji(agents, msg.AgentID), msg.AgentID, ColorText(msg.Role, ColorDim))
			agents++
		}
		if showAgentsOnly {
			return nil
		}

		fmt.Println()
		for i, msg := range session.Messages {
			printMessage(i, msg)
		}
		return nil
	},
}

func printMessage(i int, msg memory.Message) {
	rule := strings.Repeat("─", 62)
	fmt.Printf("┌%s┐\n", rule)
	fmt.Printf("│ %s Message %d: [%s] - %s\n", agentEmoji(i, msg.AgentID), i+1, msg.AgentID, msg.Role)
	fmt.Printf("│ 🕐 %s\n", msg.Timestamp.Format("15:04:05"))
	fmt.Printf("├%s┤\n", rule)

	content := msg.Content
	if !showFull && len(content) > previewLen {
		content = content[:previewLen] + "\n... [truncated - use --full to see complete content]"
	}
	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wordWrap(line, 60) {
			fmt.Printf("│ %s\n", wrapped)
		}
	}
	fmt.Printf("└%s┘\n\n", rule)
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := memory.NewStore("").Delete(args[0]); err != nil {
			return fmt.Errorf("error deleting session: %w", err)
		}
		forgetSession(cmd.Context(), args[0])
		fmt.Printf("Session %s deleted.\n", args[0])
		return nil
	},
}

var sessionsCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove expired and excess sessions",
	Long: fmt.Sprintf(`Remove sessions older than %d days and keep at most the %d most recent.`,
		memory.ExpiryDays, memory.MaxSessions),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := memory.NewStore("").Cleanup(time.Now())
		if err != nil {
			return fmt.Errorf("error cleaning sessions: %w", err)
		}
		fmt.Printf("Sessions cleaned up (%d removed).\n", n)
		return nil
	},
}

// forgetSession drops a deleted session from the search index.
func forgetSession(ctx context.Context, id string) {
	store, err := openVectorStore()
	if err != nil {
		logger.Debug("vector store unavailable", zap.Error(err))
		return
	}
	defer store.Close()
	if err := vectorstore.DeleteSession(ctx, store, id); err != nil {
		logger.Debug("session not removed from index", zap.String("session", id), zap.Error(err))
	}
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsCleanCmd)

	sessionsShowCmd.Flags().BoolVarP(&showFull, "full", "f", false, "Show complete message content")
	sessionsShowCmd.Flags().BoolVarP(&showAgentsOnly, "agents", "a", false, "Show only the agents that answered")
}
