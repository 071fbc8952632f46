/*
Copyright © 2026 sixhats Authors
*/
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"sixhats/internal/agent"
	"sixhats/pkg/types"
)

const boxWidth = 15

func agentLabel(config *types.WorkflowConfig, id string) string {
	label := id
	if a := getAgentByID(config.Agents, id); a != nil && a.Role != "" {
		label = a.Role
	}
	return truncateStr(label, boxWidth)
}

func box(label string) [3]string {
	edge := strings.Repeat("─", boxWidth+2)
	return [3]string{
		"┌" + edge + "┐",
		fmt.Sprintf("│ %-*s │", boxWidth, label),
		"└" + edge + "┘",
	}
}

func printWorkflowDiagram(config *types.WorkflowConfig) {
	writeWorkflowDiagram(os.Stdout, config)
}

// writeWorkflowDiagram draws the steps of a workflow as boxes: a column
// for sequential steps, a row of branches over the manager for parallel.
func writeWorkflowDiagram(w io.Writer, config *types.WorkflowConfig) {
	wf := config.Workflow
	if wf == nil {
		return
	}
	fmt.Fprintln(w)

	const indent = "    "
	switch wf.Type {
	case "sequential":
		for i, step := range wf.Steps {
			b := box(agentLabel(config, step.Agent))
			for _, line := range b {
				fmt.Fprintln(w, indent+line)
			}
			if i < len(wf.Steps)-1 {
				fmt.Fprintln(w, indent+strings.Repeat(" ", boxWidth/2+2)+"▼")
			}
		}
	case "parallel":
		rows := [3][]string{}
		for _, id := range wf.Branches {
			b := box(agentLabel(config, id))
			for i := range b {
				rows[i] = append(rows[i], b[i])
			}
		}
		for _, row := range rows {
			fmt.Fprintln(w, indent+strings.Join(row, " "))
		}
		if wf.Then != nil {
			fmt.Fprintln(w, indent+strings.Repeat(" ", boxWidth/2+2)+"▼")
			for _, line := range box(agentLabel(config, wf.Then.Agent)) {
				fmt.Fprintln(w, indent+line)
			}
		}
	}
	fmt.Fprintln(w)
}

// printError reports a failed command with a hint for the common cases.
func printError(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", ColorText("Error:", ColorRed), err)
	if hint := errorHint(err); hint != "" {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, hint)
	}
}

func errorHint(err error) string {
	var apiErr *agent.APIError
	status := 0
	if errors.As(err, &apiErr) {
		status = apiErr.StatusCode
	}

	switch {
	case status == 429 || strings.Contains(err.Error(), "QUOTA_EXCEEDED"):
		return `💡 QUOTA EXCEEDED - switch to a different model
   --use-provider openai --use-model gpt-4o-mini
   or wait a few minutes and retry with --continue`
	case status == 401 || status == 403 ||
		strings.Contains(err.Error(), "API key") || strings.Contains(err.Error(), "invalid_api_key"):
		return `🔑 API KEY ERROR - check your credentials
   export GEMINI_API_KEY='...'
   export OPENAI_API_KEY='...'
   or sixhats config --api '...' --provider <provider>`
	}
	return ""
}
