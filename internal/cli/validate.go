/*
Copyright © 2026 sixhats Authors
*/
package cli

import (
	"fmt"

	"sixhats/internal/parser"

	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <workflow.yaml>",
	Short: "Validate a workflow file",
	Long: `Validate checks a workflow YAML file for syntax errors and
structural issues without executing it: required fields, duplicate agent
IDs, and references to unknown agents or models.

Examples:
  sixhats validate workflow.yaml
  sixhats validate examples/six_hats.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workflowFile := args[0]
		fmt.Printf("Validating workflow: %s\n", workflowFile)

		config, err := parser.ParseYAML(workflowFile)
		if err != nil {
			return err
		}

		kind := "supervisor"
		if config.Workflow != nil {
			kind = config.Workflow.Type
		}
		fmt.Printf("✓ %d agents, %d models, %s workflow\n", len(config.Agents), len(config.Models), kind)
		if verbose {
			writeWorkflowDiagram(cmd.OutOrStdout(), config)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
