package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// OpenAI-compatible chat endpoints by provider name.
var knownEndpoints = map[string]string{
	"groq":       "https://api.groq.com/openai/v1/chat/completions",
	"mistral":    "https://api.mistral.ai/v1/chat/completions",
	"together":   "https://api.together.xyz/v1/chat/completions",
	"perplexity": "https://api.perplexity.ai/chat/completions",
	"openrouter": "https://openrouter.ai/api/v1/chat/completions",
	"deepseek":   "https://api.deepseek.com/v1/chat/completions",
	"fireworks":  "https://api.fireworks.ai/inference/v1/chat/completions",
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// chatCompletion sends a single user turn to a chat completions endpoint.
// An empty apiKey sends no Authorization header, which local proxies accept.
func chatCompletion(ctx context.Context, client *http.Client, provider, url, apiKey, model, prompt string) (string, error) {
	headers := map[string]string{}
	if apiKey != "" {
		headers["Authorization"] = "Bearer " + apiKey
	}

	body, err := postJSON(ctx, client, provider, url, headers, chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%s: failed to parse response: %w", provider, err)
	}
	if result.Error != nil && result.Error.Message != "" {
		return "", fmt.Errorf("%s error: %s", provider, result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", provider)
	}
	return result.Choices[0].Message.Content, nil
}

// GenericClient talks to any OpenAI-compatible API, a LiteLLM proxy included.
type GenericClient struct {
	APIKey     string
	Model      string
	Endpoint   string
	Provider   string
	HTTPClient *http.Client
}

// NewGenericClient resolves the endpoint from knownEndpoints when none is
// given, falling back to https://api.<provider>.com/v1/chat/completions.
func NewGenericClient(provider, model, apiKey, endpoint string) *GenericClient {
	if endpoint == "" {
		name := strings.ToLower(provider)
		var ok bool
		if endpoint, ok = knownEndpoints[name]; !ok {
			endpoint = fmt.Sprintf("https://api.%s.com/v1/chat/completions", name)
		}
	}
	return &GenericClient{
		APIKey:   apiKey,
		Model:    model,
		Endpoint: endpoint,
		Provider: provider,
	}
}

func (g *GenericClient) Generate(ctx context.Context, prompt string) (string, error) {
	return chatCompletion(ctx, g.HTTPClient, g.Provider, g.Endpoint, g.APIKey, g.Model, prompt)
}
