// Package vectorstore indexes past brainstorming sessions for semantic
// search and smart context.
package vectorstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/philippgille/chromem-go"
)

const (
	CollectionName = "sixhats_sessions"
	VectorDBPath   = ".sixhats/vectordb"
)

// VectorStore interface for vector storage backends
type VectorStore interface {
	AddDocument(ctx context.Context, id string, content string, metadata map[string]string) error
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
	DeleteDocument(ctx context.Context, id string) error
	Close() error
}

// SearchResult represents a search result from vector store
type SearchResult struct {
	ID       string
	Content  string
	Score    float32
	Metadata map[string]string
}

// ChromemStore implements VectorStore using chromem-go (embedded)
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
}

var _ VectorStore = (*ChromemStore)(nil)

// DefaultPath returns ~/.sixhats/vectordb.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, VectorDBPath)
}

// NewChromemStoreWithOllama creates a store with Ollama embeddings
func NewChromemStoreWithOllama(model string) (*ChromemStore, error) {
	return NewChromemStore(DefaultPath(), chromem.NewEmbeddingFuncOllama(model, ""))
}

// NewChromemStoreWithOpenAI creates a store with OpenAI embeddings
func NewChromemStoreWithOpenAI(apiKey string) (*ChromemStore, error) {
	return NewChromemStore(DefaultPath(), chromem.NewEmbeddingFuncOpenAI(apiKey, chromem.EmbeddingModelOpenAI3Small))
}

// NewChromemStore opens or creates a persistent store at path.
func NewChromemStore(path string, ef chromem.EmbeddingFunc) (*ChromemStore, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create vectordb directory: %w", err)
	}

	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create chromem db: %w", err)
	}

	collection, err := db.GetOrCreateCollection(CollectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("failed to get/create collection: %w", err)
	}

	return &ChromemStore{
		db:         db,
		collection: collection,
	}, nil
}

// AddDocument adds a document to the vector store
func (c *ChromemStore) AddDocument(ctx context.Context, id string, content string, metadata map[string]string) error {
	return c.collection.AddDocument(ctx, chromem.Document{
		ID:       id,
		Content:  content,
		Metadata: metadata,
	})
}

// AddDocuments adds multiple documents at once
func (c *ChromemStore) AddDocuments(ctx context.Context, docs []chromem.Document) error {
	return c.collection.AddDocuments(ctx, docs, 4)
}

// Search finds similar documents. limit is capped at the collection size.
func (c *ChromemStore) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	limit = min(limit, c.collection.Count())
	if limit <= 0 {
		return nil, nil
	}

	results, err := c.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	searchResults := make([]SearchResult, 0, len(results))
	for _, r := range results {
		searchResults = append(searchResults, SearchResult{
			ID:       r.ID,
			Content:  r.Content,
			Score:    r.Similarity,
			Metadata: r.Metadata,
		})
	}

	return searchResults, nil
}

// DeleteDocument removes a document from the store
func (c *ChromemStore) DeleteDocument(ctx context.Context, id string) error {
	return c.collection.Delete(ctx, nil, nil, id)
}

// Count returns the number of indexed documents
func (c *ChromemStore) Count() int {
	return c.collection.Count()
}

// Close is a no-op for chromem-go (persistent storage handles cleanup)
func (c *ChromemStore) Close() error {
	return nil
}
