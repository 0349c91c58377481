package rag

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyrag/studyrag/internal/models"
	"github.com/studyrag/studyrag/pkg/chunker"
	"github.com/studyrag/studyrag/pkg/extractor"
	"github.com/studyrag/studyrag/pkg/llm"
	"github.com/studyrag/studyrag/pkg/store"
)

// fakeEmbedder hashes text into a deterministic vector so retrieval order is
// stable across runs.
type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, 16)
	for i, r := range text {
		vec[i%16] += float32(r) / 1000
	}
	return vec, nil
}

func (e fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.Embed(ctx, text)
}

func (e fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		vec, _ := e.Embed(ctx, t)
		out = append(out, vec)
	}
	return out, nil
}

func (fakeEmbedder) IsConfigured() bool { return true }

// fakeGenerator echoes its inputs so tests can see what it was given.
type fakeGenerator struct {
	configured bool
}

func (g fakeGenerator) GenerateSummary(ctx context.Context, content string) (string, error) {
	return "Summary: " + content[:20], nil
}

func (g fakeGenerator) GenerateChatResponse(ctx context.Context, question string, chunks []string, history []models.ChatMessage) (string, error) {
	return "Answer from context: " + strings.Join(chunks, " | "), nil
}

func (g fakeGenerator) IsConfigured() bool { return g.configured }

func testService(generator fakeGenerator) (*Service, *store.SessionStore) {
	c := chunker.NewWithConfig(chunker.ChunkerConfig{ChunkSize: 120, ChunkOverlap: 20})
	sessions := store.NewWithConfig(store.SessionStoreConfig{}, c, fakeEmbedder{})
	service := NewWithConfig(ServiceConfig{MinContentLength: 50}, extractor.New(), sessions, generator)
	return service, sessions
}

const studyText = "Mitochondria produce ATP through cellular respiration. " +
	"The nucleus stores genetic material as DNA wound around histone proteins. " +
	"Ribosomes assemble proteins by translating messenger RNA. " +
	"The cell membrane controls what enters and leaves the cell through selective permeability. " +
	"Lysosomes break down waste material and cellular debris."

func TestIngestAndAsk(t *testing.T) {
	service, _ := testService(fakeGenerator{configured: true})
	ctx := context.Background()

	src, err := models.NewTextSource(studyText, "Cell Biology")
	require.NoError(t, err)

	result, err := service.Ingest(ctx, src)
	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, "Cell Biology", result.Title)
	assert.Equal(t, models.SourceText, result.SourceKind)
	assert.GreaterOrEqual(t, result.ChunkCount, 1)
	assert.Greater(t, result.WordCount, 0)
	assert.True(t, strings.HasPrefix(result.Summary, "Summary:"))

	answer, err := service.Ask(ctx, result.SessionID, "What produces ATP?", nil)
	require.NoError(t, err)
	assert.Contains(t, answer.Response, "Answer from context:")
	require.NotEmpty(t, answer.Sources)
	assert.LessOrEqual(t, len(answer.Sources), 3)
	for _, excerpt := range answer.Sources {
		assert.LessOrEqual(t, len(excerpt), 203)
	}
}

func TestIngestDerivesTitleWhenAbsent(t *testing.T) {
	service, _ := testService(fakeGenerator{configured: true})

	src, err := models.NewTextSource(studyText, "")
	require.NoError(t, err)

	result, err := service.Ingest(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "Mitochondria produce ATP through cellular respirat...", result.Title)
}

func TestIngestRejectsShortContent(t *testing.T) {
	service, sessions := testService(fakeGenerator{configured: true})

	src, err := models.NewTextSource("too short", "Title")
	require.NoError(t, err)

	_, err = service.Ingest(context.Background(), src)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, sessions.Sessions())
}

func TestIngestUnconfiguredBackend(t *testing.T) {
	service, sessions := testService(fakeGenerator{configured: false})

	src, err := models.NewTextSource(studyText, "Cell Biology")
	require.NoError(t, err)

	_, err = service.Ingest(context.Background(), src)
	var configErr *llm.ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Empty(t, sessions.Sessions())
}

func TestIngestIdenticalContentGetsDistinctSessions(t *testing.T) {
	service, _ := testService(fakeGenerator{configured: true})
	ctx := context.Background()

	src, err := models.NewTextSource(studyText, "Cell Biology")
	require.NoError(t, err)

	first, err := service.Ingest(ctx, src)
	require.NoError(t, err)
	second, err := service.Ingest(ctx, src)
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)
}

func TestAskValidation(t *testing.T) {
	service, _ := testService(fakeGenerator{configured: true})
	ctx := context.Background()

	_, err := service.Ask(ctx, "any-session", "   ", nil)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = service.Ask(ctx, "missing-session", "real question", nil)
	var notFound *store.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDescribeAndForget(t *testing.T) {
	service, _ := testService(fakeGenerator{configured: true})
	ctx := context.Background()

	src, err := models.NewTextSource(studyText, "Cell Biology")
	require.NoError(t, err)

	result, err := service.Ingest(ctx, src)
	require.NoError(t, err)

	meta, ok := service.Describe(result.SessionID)
	require.True(t, ok)
	assert.Equal(t, "Cell Biology", meta.Title)
	assert.Equal(t, result.ChunkCount, meta.ChunkCount)

	assert.True(t, service.Forget(result.SessionID))
	_, ok = service.Describe(result.SessionID)
	assert.False(t, ok)
	assert.False(t, service.Forget(result.SessionID))
}

func TestForgetLeavesOtherSessionsIntact(t *testing.T) {
	service, _ := testService(fakeGenerator{configured: true})
	ctx := context.Background()

	src, err := models.NewTextSource(studyText, "Cell Biology")
	require.NoError(t, err)

	keep, err := service.Ingest(ctx, src)
	require.NoError(t, err)
	drop, err := service.Ingest(ctx, src)
	require.NoError(t, err)

	service.Forget(drop.SessionID)

	answer, err := service.Ask(ctx, keep.SessionID, "What produces ATP?", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, answer.Sources)
}

func TestSourceExcerptBounds(t *testing.T) {
	service, _ := testService(fakeGenerator{configured: true})

	long := strings.Repeat("a", 500)
	chunks := []string{long, "short", long, long, long}

	excerpts := service.sourceExcerpts(chunks)
	require.Len(t, excerpts, 3)
	assert.Equal(t, strings.Repeat("a", 200)+"...", excerpts[0])
	assert.Equal(t, "short", excerpts[1])
}
