package knowledge

// Chunk is a unit of retrievable text with attached metadata.
// Chunks are produced once at index build time and never mutated.
type Chunk struct {
	Text     string
	Metadata map[string]string
}

// Metadata keys populated by the sources.
const (
	MetaGuideTitle       = "guide_title"
	MetaSectionTitle     = "section_title"
	MetaGuideDescription = "guide_description"
	MetaYoutubeLink      = "youtube_link"
	MetaSource           = "source"
)

// DedupKey identifies a chunk across the dense and sparse result sets:
// the explicit source identifier when present, otherwise the first 100
// characters of the text.
func (c Chunk) DedupKey() string {
	if src := c.Metadata[MetaSource]; src != "" {
		return src
	}
	runes := []rune(c.Text)
	if len(runes) > 100 {
		runes = runes[:100]
	}
	return string(runes)
}
