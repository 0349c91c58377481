// Package rag wires extraction, chunking, embedding, retrieval and
// generation into the public ingest/ask/describe/forget surface.
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/studyrag/studyrag/internal/models"
	"github.com/studyrag/studyrag/internal/types"
	"github.com/studyrag/studyrag/pkg/llm"
	"github.com/studyrag/studyrag/pkg/store"
)

type ServiceConfig struct {
	TopK             int // chunks retrieved per question
	MinContentLength int // minimum extracted content length to ingest
	MaxSourceCount   int // source excerpts returned per answer
	MaxSourceLength  int // characters per excerpt before truncation
}

// Service is the session-scoped RAG pipeline facade.
type Service struct {
	config    ServiceConfig
	extractor types.Extractor
	store     *store.SessionStore
	generator types.Generator
}

func NewWithConfig(config ServiceConfig, extractor types.Extractor, sessions *store.SessionStore, generator types.Generator) *Service {
	if config.TopK == 0 {
		config.TopK = 5
	}
	if config.MinContentLength == 0 {
		config.MinContentLength = 100
	}
	if config.MaxSourceCount == 0 {
		config.MaxSourceCount = 3
	}
	if config.MaxSourceLength == 0 {
		config.MaxSourceLength = 200
	}

	return &Service{
		config:    config,
		extractor: extractor,
		store:     sessions,
		generator: generator,
	}
}

// Ingest extracts the source, builds a session index over its chunks and
// returns a generated summary along with the session handle.
func (s *Service) Ingest(ctx context.Context, src models.Source) (models.IngestResult, error) {
	if !s.generator.IsConfigured() {
		return models.IngestResult{}, &llm.ConfigurationError{
			Message: "AI service not configured. Set GOOGLE_API_KEY in environment.",
		}
	}

	text, derivedTitle, err := s.extractor.Extract(ctx, src)
	if err != nil {
		return models.IngestResult{}, err
	}

	title := src.Title
	if title == "" {
		title = derivedTitle
	}

	if len(strings.TrimSpace(text)) < s.config.MinContentLength {
		return models.IngestResult{}, &ValidationError{
			Message: "extracted content is too short; please provide more substantial content",
		}
	}

	sessionID, err := s.store.CreateSession(ctx, text, title, src.Kind)
	if err != nil {
		return models.IngestResult{}, err
	}

	summary, err := s.generator.GenerateSummary(ctx, text)
	if err != nil {
		// A session without its summary is useless to the caller; do not
		// leave it registered.
		s.store.DeleteSession(sessionID)
		return models.IngestResult{}, err
	}

	info, ok := s.store.GetSessionInfo(sessionID)
	if !ok {
		return models.IngestResult{}, fmt.Errorf("session %s vanished during ingest", sessionID)
	}

	return models.IngestResult{
		SessionID:  sessionID,
		Summary:    summary,
		Title:      info.Title,
		SourceKind: info.SourceKind,
		ChunkCount: info.ChunkCount,
		WordCount:  info.WordCount,
	}, nil
}

// Ask retrieves the chunks most similar to the question and generates an
// answer grounded in them. The returned source excerpts are bounded both in
// count and in length.
func (s *Service) Ask(ctx context.Context, sessionID, question string, history []models.ChatMessage) (models.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return models.Answer{}, &ValidationError{Message: "question must not be empty"}
	}

	results, err := s.store.Query(ctx, sessionID, question, s.config.TopK)
	if err != nil {
		return models.Answer{}, err
	}

	chunks := make([]string, len(results))
	for i, r := range results {
		chunks[i] = r.Text
	}

	response, err := s.generator.GenerateChatResponse(ctx, question, chunks, history)
	if err != nil {
		return models.Answer{}, err
	}

	return models.Answer{
		Response: response,
		Sources:  s.sourceExcerpts(chunks),
	}, nil
}

// Describe is a non-throwing metadata lookup.
func (s *Service) Describe(sessionID string) (models.Session, bool) {
	return s.store.GetSessionInfo(sessionID)
}

// Forget deletes the session and its index; it reports whether the session
// existed.
func (s *Service) Forget(sessionID string) bool {
	return s.store.DeleteSession(sessionID)
}

func (s *Service) sourceExcerpts(chunks []string) []string {
	if len(chunks) > s.config.MaxSourceCount {
		chunks = chunks[:s.config.MaxSourceCount]
	}

	excerpts := make([]string, len(chunks))
	for i, chunk := range chunks {
		if len(chunk) > s.config.MaxSourceLength {
			chunk = chunk[:s.config.MaxSourceLength] + "..."
		}
		excerpts[i] = chunk
	}
	return excerpts
}
