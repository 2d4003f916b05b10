package knowledge

import (
	"context"

	"dairy-assistant-be/internal/pkg/logger"
)

// Retriever pools candidates from the dense and sparse indices. Dense
// candidates come first, duplicates are dropped by dedup key in
// first-seen order, and the result is truncated to k. Retrieval failure
// never propagates; a broken retrieval is an empty context, not an
// aborted conversation.
type Retriever struct {
	index  *Index
	logger logger.ILogger
}

func NewRetriever(index *Index, log logger.ILogger) *Retriever {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Retriever{index: index, logger: log}
}

func (r *Retriever) Retrieve(ctx context.Context, query string, k int) []Chunk {
	densePositions, err := r.index.dense.Search(ctx, query, k)
	if err != nil {
		r.logger.Error("retriever", "document retrieval failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return []Chunk{}
	}

	sparsePositions := r.index.sparse.Search(query, k)

	seen := make(map[string]bool)
	var combined []Chunk
	for _, pos := range append(densePositions, sparsePositions...) {
		chunk := r.index.chunks[pos]
		key := chunk.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		combined = append(combined, chunk)
	}

	if len(combined) > k {
		combined = combined[:k]
	}

	r.logger.Info("retriever", "documents retrieved", map[string]interface{}{
		"query": query,
		"count": len(combined),
	})
	return combined
}
