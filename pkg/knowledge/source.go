package knowledge

import (
	"fmt"
	"os"
	"strings"
)

// Source yields normalized chunks from one knowledge document. Load is
// called once at index build time; a failing source degrades the index
// but never aborts the build.
type Source interface {
	Name() string
	Load() ([]Chunk, error)
}

// ManualSource reads a free-text manual. Pages are separated by form
// feeds; each page is split into overlapping windows so long passages
// stay retrievable.
type ManualSource struct {
	Path         string
	ChunkSize    int
	ChunkOverlap int
}

func NewManualSource(path string) *ManualSource {
	return &ManualSource{
		Path:         path,
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
	}
}

func (s *ManualSource) Name() string {
	return "manual:" + s.Path
}

func (s *ManualSource) Load() ([]Chunk, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}

	var chunks []Chunk
	for pageNum, page := range strings.Split(string(raw), "\f") {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		for i, text := range SplitText(page, s.ChunkSize, s.ChunkOverlap, DefaultSeparators) {
			chunks = append(chunks, Chunk{
				Text: text,
				Metadata: map[string]string{
					MetaSource: fmt.Sprintf("%s#page=%d&chunk=%d", s.Path, pageNum+1, i+1),
				},
			})
		}
	}
	return chunks, nil
}
