// Package types defines the interfaces the service core is wired with.
// Adapters implement these; the rag facade and the session store depend on
// the abstractions, not on concrete backends.
package types

import (
	"context"

	"github.com/studyrag/studyrag/internal/models"
)

// Extractor normalizes a content source into plain text and a title.
type Extractor interface {
	Extract(ctx context.Context, src models.Source) (text string, title string, err error)
}

// Chunker splits normalized text into overlapping, size-bounded segments.
type Chunker interface {
	Chunk(text string) []string
}

// Embedder maps text to fixed-dimension vectors. EmbedQuery is the
// retrieval-optimized variant; EmbedBatch makes independent per-text calls.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	IsConfigured() bool
}

// Generator produces summaries and grounded chat responses.
type Generator interface {
	GenerateSummary(ctx context.Context, content string) (string, error)
	GenerateChatResponse(ctx context.Context, question string, contextChunks []string, history []models.ChatMessage) (string, error)
	IsConfigured() bool
}
