package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const claudeEndpoint = "https://api.anthropic.com/v1/messages"

type ClaudeClient struct {
	APIKey     string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
}

func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]interface{}{
		"model":      c.Model,
		"max_tokens": 4096,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	url := c.Endpoint
	if url == "" {
		url = claudeEndpoint
	}
	body, err := postJSON(ctx, c.HTTPClient, "claude", url, map[string]string{
		"x-api-key":         c.APIKey,
		"anthropic-version": "2023-06-01",
	}, payload)
	if err != nil {
		return "", err
	}

	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("claude: failed to parse response: %w", err)
	}

	if len(result.Content) == 0 {
		return "", fmt.Errorf("no response from claude")
	}

	return result.Content[0].Text, nil
}
