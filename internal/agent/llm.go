package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"sixhats/pkg/types"
)

// Default LiteLLM proxy address when use_proxy is set without a base URL.
const defaultProxyBaseURL = "http://localhost:4000"

type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// APIError is a non-200 response from a model provider.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	switch e.StatusCode {
	case http.StatusTooManyRequests:
		// The QUOTA_EXCEEDED prefix is matched by the CLI to print a hint.
		return fmt.Sprintf("QUOTA_EXCEEDED[%s]: quota limit reached", e.Provider)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Sprintf("%s: invalid API key (%d)", e.Provider, e.StatusCode)
	default:
		return fmt.Sprintf("%s api error (%d): %s", e.Provider, e.StatusCode, e.Body)
	}
}

// NewLLMClient builds a client for a model handle. Proxy routing is decided
// here from the model's own use_proxy field.
func NewLLMClient(m types.Model) LLMClient {
	if m.UseProxy || m.Provider == "litellm" {
		base := m.ProxyBaseURL
		if base == "" {
			base = m.Endpoint
		}
		if base == "" {
			base = defaultProxyBaseURL
		}
		return NewGenericClient("litellm", m.Model, m.APIKey, strings.TrimRight(base, "/")+"/chat/completions")
	}

	switch m.Provider {
	case "anthropic":
		return &ClaudeClient{
			APIKey:   m.APIKey,
			Model:    m.Model,
			Endpoint: m.Endpoint,
		}
	case "openai":
		return &OpenAIClient{
			APIKey:   m.APIKey,
			Model:    m.Model,
			Endpoint: m.Endpoint,
		}
	case "gemini", "google":
		return &GeminiClient{
			APIKey: m.APIKey,
			Model:  m.Model,
		}
	case "ollama":
		ep := m.Endpoint
		if ep == "" {
			ep = "http://localhost:11434"
		}
		return &OllamaClient{
			Endpoint: ep,
			Model:    m.Model,
		}
	default:
		// Use generic OpenAI-compatible client for any other provider
		// This auto-handles: groq, mistral, together, perplexity, openrouter, etc.
		if m.APIKey != "" {
			return NewGenericClient(m.Provider, m.Model, m.APIKey, m.Endpoint)
		}
		// Fallback to Ollama if no API key
		return &OllamaClient{
			Endpoint: "http://localhost:11434",
			Model:    m.Model,
		}
	}
}

// postJSON sends payload and returns the raw body of a 200 response.
func postJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s connection error: %w", provider, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", provider, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Provider: provider, StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}
