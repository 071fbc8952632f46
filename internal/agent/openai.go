package agent

import (
	"context"
	"net/http"
)

const openAIEndpoint = "https://api.openai.com/v1/chat/completions"

type OpenAIClient struct {
	APIKey     string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
}

func (o *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	url := o.Endpoint
	if url == "" {
		url = openAIEndpoint
	}
	return chatCompletion(ctx, o.HTTPClient, "openai", url, o.APIKey, o.Model, prompt)
}
