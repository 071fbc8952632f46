package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type OllamaClient struct {
	Endpoint   string
	Model      string
	HTTPClient *http.Client
}

func (o *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]interface{}{
		"model":  o.Model,
		"prompt": prompt,
		"stream": false,
	}

	url := strings.TrimRight(o.Endpoint, "/") + "/api/generate"
	body, err := postJSON(ctx, o.HTTPClient, "ollama", url, nil, payload)
	if err != nil {
		return "", err
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("ollama: failed to parse response: %w", err)
	}

	return result.Response, nil
}
