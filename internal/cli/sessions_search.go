/*
Copyright © 2026 sixhats Authors
*/
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchLimit int

var sessionsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search sessions semantically",
	Long: `Search through past session messages using semantic similarity.

Requires Ollama running locally with an embedding model (nomic-embed-text),
or SIXHATS_EMBEDDER=openai with OPENAI_API_KEY set.

Examples:
  sixhats sessions search "four-day week risks"
  sixhats sessions search "pilot results" --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]

		store, err := openVectorStore()
		if err != nil {
			return fmt.Errorf("could not open vector store: %w", err)
		}
		defer store.Close()

		fmt.Printf("🔍 Searching for: %q\n\n", query)

		results, err := store.Search(cmd.Context(), query, searchLimit)
		if err != nil {
			return fmt.Errorf("error searching (is Ollama running? ollama pull %s): %w", embeddingModel, err)
		}

		if len(results) == 0 {
			fmt.Println("No matching sessions found.")
			fmt.Println("Run some brainstorms first to build up session history.")
			return nil
		}

		for i, r := range results {
			fmt.Printf("─── Result %d (%.1f%% match) ───\n", i+1, r.Score*100)
			if sessionID, ok := r.Metadata["session_id"]; ok {
				fmt.Printf("Session: %s\n", sessionID)
			}
			if agentID, ok := r.Metadata["agent_id"]; ok {
				fmt.Printf("Agent: %s\n", agentID)
			}

			content := r.Content
			if len(content) > previewLen {
				content = content[:previewLen] + "..."
			}
			fmt.Printf("\n%s\n\n", content)
		}
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsSearchCmd)
	sessionsSearchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 3, "Number of results to return")
}
