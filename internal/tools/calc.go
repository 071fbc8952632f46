package tools

import (
	"context"
	"fmt"

	"github.com/expr-lang/expr"
)

// CalcTool evaluates arithmetic over figures the White Hat has collected.
type CalcTool struct{}

func init() {
	Register(&CalcTool{})
}

func (c *CalcTool) Name() string {
	return "calc"
}

func (c *CalcTool) Description() string {
	return "Evaluate arithmetic on collected figures, e.g. growth rates, totals or percentages. Supports +, -, *, /, %, ^, comparisons, and functions like abs(), max(), min(), round()."
}

func (c *CalcTool) Execute(ctx context.Context, input string) (string, error) {
	program, err := expr.Compile(input)
	if err != nil {
		return "", fmt.Errorf("expression error: %w", err)
	}

	result, err := expr.Run(program, nil)
	if err != nil {
		return "", fmt.Errorf("evaluation error: %w", err)
	}

	return fmt.Sprintf("%v", result), nil
}
