// Package llm holds the Gemini-backed embedding and generation adapters.
package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/googleai"
)

// EmbedderConfig represents the configuration for the embedding backend.
type EmbedderConfig struct {
	APIKey string
	Model  string
}

// Embedder maps text to fixed-dimension vectors via the Gemini embedding
// API. An Embedder built without a credential is still usable as a value;
// every call on it fails with ConfigurationError, and IsConfigured lets
// callers check up front instead of using the error for control flow.
type Embedder struct {
	config EmbedderConfig
	client *googleai.GoogleAI
}

func NewEmbedderWithConfig(ctx context.Context, config EmbedderConfig) (*Embedder, error) {
	if config.Model == "" {
		config.Model = "text-embedding-004"
	}

	e := &Embedder{config: config}
	if config.APIKey == "" {
		return e, nil
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(config.APIKey),
		googleai.WithDefaultEmbeddingModel(config.Model))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding backend: %w", err)
	}

	e.client = client
	return e, nil
}

// IsConfigured reports whether a backend credential is present.
func (e *Embedder) IsConfigured() bool {
	return e.client != nil
}

// Embed generates a document embedding for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text)
}

// EmbedQuery generates a retrieval-optimized embedding for a query. The
// Gemini API distinguishes document and query task types; the backend client
// exposes a single embedding call, so both modes share it, but the two
// entry points are kept separate so a task-aware backend can be swapped in.
func (e *Embedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	return e.embed(ctx, query)
}

// EmbedBatch generates embeddings for multiple texts with independent
// per-text calls, in input order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if !e.IsConfigured() {
		return nil, errNotConfigured()
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		embeddings[i] = vec
	}
	return embeddings, nil
}

func (e *Embedder) embed(ctx context.Context, text string) ([]float32, error) {
	if !e.IsConfigured() {
		return nil, errNotConfigured()
	}

	vectors, err := e.client.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, &EmbeddingError{Err: err}
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, &EmbeddingError{Err: fmt.Errorf("no embedding returned")}
	}
	return vectors[0], nil
}
