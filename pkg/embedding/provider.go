package embedding

import "context"

// Task types understood by the Gemini embedding API. Documents are
// embedded once at index build time, queries on every retrieval.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Provider defines the interface for generating text embeddings
type Provider interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
}
