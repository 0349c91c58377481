package store

import (
	"fmt"
	"math"
	"sort"

	"github.com/studyrag/studyrag/internal/models"
)

// sessionIndex is the isolated vector collection for one session. It is
// built completely before the session is registered and never mutated
// afterwards, so searches need no locking of their own.
type sessionIndex struct {
	dim        int
	vectors    [][]float32
	chunks     []string
	sourceKind models.SourceKind
}

func newSessionIndex(sourceKind models.SourceKind) *sessionIndex {
	return &sessionIndex{sourceKind: sourceKind}
}

// add appends one chunk vector. Vectors arrive in chunk order and the first
// one fixes the index dimensionality.
func (idx *sessionIndex) add(chunk string, vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("empty embedding vector")
	}
	if idx.dim == 0 {
		idx.dim = len(vector)
	} else if len(vector) != idx.dim {
		return fmt.Errorf("embedding dimension mismatch: got %d, index has %d", len(vector), idx.dim)
	}

	idx.chunks = append(idx.chunks, chunk)
	idx.vectors = append(idx.vectors, vector)
	return nil
}

func (idx *sessionIndex) count() int {
	return len(idx.vectors)
}

// search returns the topK closest chunks by cosine distance, ascending.
// topK is clamped to the number of indexed vectors.
func (idx *sessionIndex) search(query []float32, topK int) []models.RetrievalResult {
	if topK > idx.count() {
		topK = idx.count()
	}
	if topK <= 0 {
		return nil
	}

	results := make([]models.RetrievalResult, idx.count())
	for i, vec := range idx.vectors {
		results[i] = models.RetrievalResult{
			Text:       idx.chunks[i],
			Distance:   cosineDistance(query, vec),
			ChunkIndex: i,
			SourceKind: idx.sourceKind,
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	return results[:topK]
}

// cosineDistance is 1 minus cosine similarity; lower means closer. A zero
// vector has no direction and gets the maximum distance.
func cosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
