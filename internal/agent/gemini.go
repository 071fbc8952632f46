package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiClient talks to the Gemini API through the official SDK.
// The SDK client is created on first use.
type GeminiClient struct {
	APIKey string
	Model  string

	once   sync.Once
	client *genai.Client
	err    error
}

func (g *GeminiClient) init(ctx context.Context) error {
	g.once.Do(func() {
		g.client, g.err = genai.NewClient(ctx, option.WithAPIKey(g.APIKey))
	})
	return g.err
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.init(ctx); err != nil {
		return "", fmt.Errorf("gemini: create client: %w", err)
	}

	resp, err := g.client.GenerativeModel(g.Model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", geminiError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no response from gemini")
	}
	return sb.String(), nil
}

// Close releases the SDK connection, if one was opened.
func (g *GeminiClient) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// geminiError maps SDK HTTP failures onto APIError so retry and the
// quota hint treat Gemini like every other provider.
func geminiError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &APIError{Provider: "gemini", StatusCode: gerr.Code, Body: gerr.Message}
	}
	return fmt.Errorf("gemini: %w", err)
}
