package knowledge

import (
	"context"

	"dairy-assistant-be/internal/pkg/logger"
	"dairy-assistant-be/pkg/embedding"
)

// Index is the hybrid knowledge base: one ordered chunk slice with a
// dense and a sparse index built over it, so positions from either
// search refer to the same logical chunk.
type Index struct {
	chunks []Chunk
	dense  *denseIndex
	sparse *sparseIndex
}

// BuildIndex loads every source, pools the chunks and builds both
// indices. The build fails open: a broken source just contributes
// nothing, and an empty pool is replaced by a single placeholder chunk
// so retrieval always has something to return.
func BuildIndex(ctx context.Context, embedder embedding.Provider, log logger.ILogger, sources ...Source) *Index {
	if log == nil {
		log = logger.NopLogger{}
	}

	var chunks []Chunk
	for _, src := range sources {
		loaded, err := src.Load()
		if err != nil {
			log.Error("knowledge", "source load failed, continuing without it", map[string]interface{}{
				"source": src.Name(),
				"error":  err.Error(),
			})
			continue
		}
		chunks = append(chunks, loaded...)
	}

	if len(chunks) == 0 {
		log.Warn("knowledge", "no chunks from any source, indexing placeholder", nil)
		chunks = []Chunk{{Text: "dummy", Metadata: map[string]string{}}}
	}

	log.Info("knowledge", "knowledge index built", map[string]interface{}{
		"chunks": len(chunks),
	})

	return &Index{
		chunks: chunks,
		dense:  buildDenseIndex(ctx, embedder, chunks, log),
		sparse: buildSparseIndex(chunks),
	}
}

func (i *Index) Size() int {
	return len(i.chunks)
}
