/*
Copyright © 2026 sixhats Authors
*/
package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"sixhats/internal/tools"

	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Inspect and try the hats' tools",
	Long: `List the tools agents can call, or run one directly.

Examples:
  sixhats tools list
  sixhats tools tone "What a great and exciting launch!"
  sixhats tools positive "team pilot"`,
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDESCRIPTION")
		for _, t := range tools.Default().GetAll() {
			fmt.Fprintf(w, "%s\t%s\n", t.Name(), truncateStr(t.Description(), 70))
		}
		fmt.Fprintf(w, "%s\t%s\n", "web_search", "Tavily web search (needs TAVILY_API_KEY)")
		return w.Flush()
	},
}

var toolsToneCmd = &cobra.Command{
	Use:   "tone <text>",
	Short: "Read the emotional tone of a text (Red Hat)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, (&tools.ToneTool{}).Name(), strings.Join(args, " "))
	},
}

var toolsPositiveCmd = &cobra.Command{
	Use:   "positive <topic>",
	Short: "Look up encouraging internal data for a topic (Yellow Hat)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, (&tools.PositiveDataTool{}).Name(), strings.Join(args, " "))
	},
}

func runTool(cmd *cobra.Command, name, input string) error {
	tool, ok := tools.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", tools.ErrUnknownTool, name)
	}
	out, err := tool.Execute(cmd.Context(), input)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsToneCmd)
	toolsCmd.AddCommand(toolsPositiveCmd)
}
