package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const tavilySearchURL = "https://api.tavily.com/search"

// SearchTool runs a web search through the Tavily API.
// It is not registered globally; callers add it when an API key is configured.
type SearchTool struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	HTTPClient *http.Client
}

// NewSearchTool creates a Tavily-backed web_search tool
func NewSearchTool(apiKey string, maxResults int) *SearchTool {
	return &SearchTool{
		APIKey:     apiKey,
		BaseURL:    tavilySearchURL,
		MaxResults: maxResults,
		HTTPClient: http.DefaultClient,
	}
}

type searchRequest struct {
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth,omitempty"`
	Topic         string `json:"topic,omitempty"`
	MaxResults    int    `json:"max_results,omitempty"`
	IncludeAnswer bool   `json:"include_answer,omitempty"`
}

// SearchResponse is the subset of the Tavily response used here
type SearchResponse struct {
	Query   string         `json:"query"`
	Answer  string         `json:"answer"`
	Results []SearchResult `json:"results"`
}

// SearchResult is a single hit
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

func (s *SearchTool) Name() string {
	return "web_search"
}

func (s *SearchTool) Description() string {
	return "Search the web for current facts, figures and public sentiment. Input: a search query."
}

// Search performs a single query
func (s *SearchTool) Search(ctx context.Context, query string) (*SearchResponse, error) {
	maxResults := s.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	payload, err := json.Marshal(searchRequest{
		Query:         query,
		SearchDepth:   "basic",
		Topic:         "general",
		MaxResults:    maxResults,
		IncludeAnswer: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	url := s.BaseURL
	if url == "" {
		url = tavilySearchURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily api error (status %d): %s", resp.StatusCode, string(body))
	}

	var out SearchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}
	return &out, nil
}

func (s *SearchTool) Execute(ctx context.Context, input string) (string, error) {
	query := strings.TrimSpace(input)
	if query == "" {
		return "", fmt.Errorf("empty search query")
	}

	resp, err := s.Search(ctx, query)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if resp.Answer != "" {
		fmt.Fprintf(&sb, "Answer: %s\n\n", resp.Answer)
	}
	if len(resp.Results) == 0 {
		sb.WriteString("No results found.")
		return sb.String(), nil
	}
	for i, r := range resp.Results {
		fmt.Fprintf(&sb, "%d. %s\n   %s\n   %s\n", i+1, r.Title, r.URL, r.Content)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
