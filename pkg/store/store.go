// Package store owns the session lifecycle: one isolated in-memory vector
// index plus metadata per ingested document, behind a concurrency-safe
// registry. Nothing survives a process restart.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/studyrag/studyrag/internal/models"
	"github.com/studyrag/studyrag/internal/types"
)

type SessionStoreConfig struct {
	TopK              int // default result count for Query
	CachedContextSize int // characters of raw text cached per session
}

// SessionStore maps session ids to their vector index and metadata. It is
// constructed once at service start and torn down with Close; the registry
// supports concurrent insert, lookup and delete.
type SessionStore struct {
	config   SessionStoreConfig
	chunker  types.Chunker
	embedder types.Embedder

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	meta  models.Session
	index *sessionIndex
}

func NewWithConfig(config SessionStoreConfig, chunker types.Chunker, embedder types.Embedder) *SessionStore {
	if config.TopK == 0 {
		config.TopK = 5
	}
	if config.CachedContextSize == 0 {
		config.CachedContextSize = 5000
	}

	return &SessionStore{
		config:   config,
		chunker:  chunker,
		embedder: embedder,
		sessions: make(map[string]*sessionEntry),
	}
}

// CreateSession chunks the text, embeds every chunk in order and registers a
// new session. If any embedding call fails the whole ingest fails and no
// partial state survives. Session ids are generated here, never supplied by
// callers, so concurrent ingests cannot collide.
func (s *SessionStore) CreateSession(ctx context.Context, text, title string, sourceKind models.SourceKind) (string, error) {
	chunks := s.chunker.Chunk(text)
	if len(chunks) == 0 {
		return "", &EmptyContentError{}
	}

	index := newSessionIndex(sourceKind)
	for i, chunk := range chunks {
		vector, err := s.embedder.Embed(ctx, chunk)
		if err != nil {
			return "", fmt.Errorf("embedding chunk %d: %w", i, err)
		}
		if err := index.add(chunk, vector); err != nil {
			return "", fmt.Errorf("indexing chunk %d: %w", i, err)
		}
	}

	sessionID := uuid.NewString()

	cached := text
	if len(cached) > s.config.CachedContextSize {
		cached = cached[:s.config.CachedContextSize]
	}

	meta := models.Session{
		ID:         sessionID,
		Title:      title,
		SourceKind: sourceKind,
		ChunkCount: len(chunks),
		WordCount:  estimateWordCount(text),
		CachedText: cached,
	}

	s.mu.Lock()
	s.sessions[sessionID] = &sessionEntry{meta: meta, index: index}
	s.mu.Unlock()

	return sessionID, nil
}

// Query embeds the query text and returns up to topK results sorted by
// ascending distance. topK <= 0 falls back to the configured default; it is
// always clamped to the number of indexed vectors.
func (s *SessionStore) Query(ctx context.Context, sessionID, queryText string, topK int) ([]models.RetrievalResult, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{SessionID: sessionID}
	}
	index := entry.index

	if topK <= 0 {
		topK = s.config.TopK
	}

	queryVector, err := s.embedder.EmbedQuery(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	return index.search(queryVector, topK), nil
}

// GetSessionInfo is a non-throwing lookup.
func (s *SessionStore) GetSessionInfo(sessionID string) (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return models.Session{}, false
	}
	return entry.meta, true
}

// GetSessionContext returns the cached raw-text prefix for a session, or ""
// when the session does not exist.
func (s *SessionStore) GetSessionContext(sessionID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if entry, ok := s.sessions[sessionID]; ok {
		return entry.meta.CachedText
	}
	return ""
}

// DeleteSession removes both the vector index and the metadata. It returns
// whether the session existed; an already-gone index is not an error.
func (s *SessionStore) DeleteSession(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return false
	}

	// Only unregister. A query that already resolved this entry keeps
	// searching its immutable index snapshot; nilling the index out from
	// under it would crash that reader.
	delete(s.sessions, sessionID)
	return true
}

// SessionExists reports whether the session id is registered.
func (s *SessionStore) SessionExists(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.sessions[sessionID]
	return ok
}

// Sessions returns all active session ids.
func (s *SessionStore) Sessions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Close tears down every session.
func (s *SessionStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]*sessionEntry)
}

// estimateWordCount derives an approximate word count from an estimated
// token count (~4 characters per token, ~5 characters per word).
func estimateWordCount(text string) int {
	return len(text) / 4 * 4 / 5
}
