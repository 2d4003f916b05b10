package knowledge

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"dairy-assistant-be/internal/pkg/logger"
)

// GuideSource reads the structured in-app guide document: guides contain
// sections, sections contain ordered steps. Each section flattens into
// exactly one chunk.
type GuideSource struct {
	Path   string
	Logger logger.ILogger
}

func NewGuideSource(path string, log logger.ILogger) *GuideSource {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &GuideSource{Path: path, Logger: log}
}

type guideFile struct {
	Guides []guideEntry `json:"guides"`
}

type guideEntry struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Sections    []sectionEntry `json:"sections"`
}

type sectionEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	YoutubeLink string `json:"youtube_link"`
	// Steps entries are author-controlled and frequently malformed, so
	// they decode as loose values and are validated one by one.
	Steps json.RawMessage `json:"steps"`
}

func (s *GuideSource) Name() string {
	return "guide:" + s.Path
}

func (s *GuideSource) Load() ([]Chunk, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}

	var file guideFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, err
	}

	var chunks []Chunk
	for _, guide := range file.Guides {
		guideTitle := guide.Title
		if guideTitle == "" {
			guideTitle = "Untitled Guide"
		}
		guideDescription := strings.TrimSpace(guide.Description)

		for _, section := range guide.Sections {
			chunks = append(chunks, s.flattenSection(guideTitle, guideDescription, section))
		}
	}
	return chunks, nil
}

func (s *GuideSource) flattenSection(guideTitle, guideDescription string, section sectionEntry) Chunk {
	sectionTitle := strings.TrimSpace(section.Title)
	if sectionTitle == "" {
		sectionTitle = "Untitled Section"
	}
	sectionDescription := strings.TrimSpace(section.Description)
	sectionYoutube := strings.TrimSpace(section.YoutubeLink)

	metadata := map[string]string{
		MetaGuideTitle:   guideTitle,
		MetaSectionTitle: sectionTitle,
	}
	if guideDescription != "" {
		metadata[MetaGuideDescription] = guideDescription
	}
	if sectionYoutube != "" {
		metadata[MetaYoutubeLink] = sectionYoutube
	}

	var parts []string
	parts = append(parts, guideTitle, "")
	if guideDescription != "" {
		parts = append(parts, guideDescription, "")
	}
	parts = append(parts, sectionTitle, "")
	if sectionDescription != "" {
		parts = append(parts, sectionDescription, "")
	}

	parts = append(parts, s.renderSteps(sectionTitle, section.Steps)...)

	return Chunk{
		Text:     strings.TrimSpace(strings.Join(parts, "\n")),
		Metadata: metadata,
	}
}

func (s *GuideSource) renderSteps(sectionTitle string, raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var steps []any
	if err := json.Unmarshal(raw, &steps); err != nil {
		s.Logger.Warn("knowledge", "section steps is not a list, skipping steps", map[string]interface{}{
			"section": sectionTitle,
		})
		return nil
	}

	var parts []string
	for idx, rawStep := range steps {
		step, ok := rawStep.(map[string]any)
		if !ok {
			s.Logger.Warn("knowledge", "step entry is not an object, skipping", map[string]interface{}{
				"section": sectionTitle,
				"index":   idx + 1,
			})
			continue
		}

		stepNum := s.stepNumber(sectionTitle, step, idx+1)

		line := fmt.Sprintf("%d.", stepNum)
		if title, _ := step["title"].(string); strings.TrimSpace(title) != "" {
			line = fmt.Sprintf("%d. %s", stepNum, strings.TrimSpace(title))
		}

		switch desc := step["description"].(type) {
		case string:
			if desc != "" {
				line += ": " + desc
			}
		case []any:
			var bullets []string
			for _, item := range desc {
				if item == nil {
					continue
				}
				bullets = append(bullets, fmt.Sprint(item))
			}
			if len(bullets) > 0 {
				line += "\n   - " + strings.Join(bullets, "\n   - ")
			}
		}
		parts = append(parts, line)

		if imgField, _ := step["imageURL"].(string); imgField != "" {
			for _, u := range strings.Split(imgField, ",") {
				if u = strings.TrimSpace(u); u != "" {
					parts = append(parts, "   Image URL: "+u)
				}
			}
		}

		parts = append(parts, "")
	}
	return parts
}

// stepNumber uses the declared step number when it is an integer and
// falls back to the 1-based position otherwise. Guides that mix declared
// and undeclared numbering can produce duplicate step numbers; that is
// author data to surface, not to repair here.
func (s *GuideSource) stepNumber(sectionTitle string, step map[string]any, position int) int {
	raw, present := step["step"]
	if !present {
		s.Logger.Warn("knowledge", "missing step number, using position", map[string]interface{}{
			"section":  sectionTitle,
			"position": position,
		})
		return position
	}

	if num, ok := raw.(float64); ok && num == math.Trunc(num) {
		return int(num)
	}

	s.Logger.Warn("knowledge", "step number is not an integer, using position", map[string]interface{}{
		"section":  sectionTitle,
		"position": position,
		"declared": raw,
	})
	return position
}
