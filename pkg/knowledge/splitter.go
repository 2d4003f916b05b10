package knowledge

import "strings"

// DefaultSeparators orders split points from most to least semantic:
// bullet markers, blank line, newline, space, then raw characters.
var DefaultSeparators = []string{"\n- ", "\n• ", "\n\n", "\n", " ", ""}

const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 100
)

// SplitText splits a long string into overlapping chunks of roughly
// chunkSize characters, preferring the earliest separator in seps that
// occurs in the text so semantic boundaries survive where possible.
func SplitText(text string, chunkSize, overlap int, seps []string) []string {
	if len(seps) == 0 {
		seps = DefaultSeparators
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	var out []string
	for _, piece := range splitRecursive(text, chunkSize, overlap, seps) {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

func splitRecursive(text string, chunkSize, overlap int, seps []string) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	// Pick the first separator present in the text; "" always matches.
	sep := seps[len(seps)-1]
	var rest []string
	for i, s := range seps {
		if s == "" {
			sep = ""
			rest = nil
			break
		}
		if strings.Contains(text, s) {
			sep = s
			rest = seps[i+1:]
			break
		}
	}

	if sep == "" {
		return splitWindows(text, chunkSize, overlap)
	}

	splits := splitKeepSeparator(text, sep)

	var final []string
	var good []string
	for _, s := range splits {
		if len(s) <= chunkSize {
			good = append(good, s)
			continue
		}
		// Oversized piece: flush accumulated splits, recurse with the
		// remaining separators.
		if len(good) > 0 {
			final = append(final, mergeSplits(good, chunkSize, overlap)...)
			good = nil
		}
		final = append(final, splitRecursive(s, chunkSize, overlap, rest)...)
	}
	if len(good) > 0 {
		final = append(final, mergeSplits(good, chunkSize, overlap)...)
	}
	return final
}

// splitKeepSeparator splits on sep but keeps the separator attached to
// the start of the following piece, so concatenation is lossless.
func splitKeepSeparator(text, sep string) []string {
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i > 0 {
			p = sep + p
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// mergeSplits packs small pieces into chunks up to chunkSize, carrying
// roughly overlap characters of trailing context into the next chunk.
func mergeSplits(splits []string, chunkSize, overlap int) []string {
	var chunks []string
	var window []string
	total := 0

	for _, s := range splits {
		if total+len(s) > chunkSize && total > 0 {
			chunks = append(chunks, strings.Join(window, ""))
			for total > overlap && len(window) > 0 {
				total -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, s)
		total += len(s)
	}
	if total > 0 {
		chunks = append(chunks, strings.Join(window, ""))
	}
	return chunks
}

// splitWindows is the character-level fallback: fixed windows with overlap.
func splitWindows(text string, chunkSize, overlap int) []string {
	runes := []rune(text)
	totalLen := len(runes)
	if totalLen <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}
		chunks = append(chunks, string(runes[i:end]))
		if end == totalLen {
			break
		}
	}
	return chunks
}
