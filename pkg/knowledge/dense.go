package knowledge

import (
	"context"
	"math"
	"sort"

	"dairy-assistant-be/internal/pkg/logger"
	"dairy-assistant-be/pkg/embedding"
)

// denseIndex holds one embedding vector per chunk position. A nil vector
// means embedding failed for that chunk at build time and it is simply
// invisible to semantic search.
type denseIndex struct {
	embedder embedding.Provider
	vectors  [][]float32
}

func buildDenseIndex(ctx context.Context, embedder embedding.Provider, chunks []Chunk, log logger.ILogger) *denseIndex {
	vectors := make([][]float32, len(chunks))
	for i, chunk := range chunks {
		vec, err := embedder.Embed(ctx, chunk.Text, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Warn("knowledge", "chunk embedding failed, excluded from dense index", map[string]interface{}{
				"chunk": i,
				"error": err.Error(),
			})
			continue
		}
		vectors[i] = vec
	}
	return &denseIndex{embedder: embedder, vectors: vectors}
}

// Search embeds the query and returns chunk positions ranked by cosine
// similarity, best first, at most k.
func (d *denseIndex) Search(ctx context.Context, query string, k int) ([]int, error) {
	queryVec, err := d.embedder.Embed(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}

	type scored struct {
		pos   int
		score float64
	}
	var results []scored
	for i, vec := range d.vectors {
		if vec == nil {
			continue
		}
		results = append(results, scored{pos: i, score: cosineSimilarity(queryVec, vec)})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].score > results[b].score
	})
	if len(results) > k {
		results = results[:k]
	}

	positions := make([]int, len(results))
	for i, r := range results {
		positions[i] = r.pos
	}
	return positions, nil
}

func cosineSimilarity(a, b []float32) float64 {
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
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
