package knowledge

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// sparseIndex is a term-frequency lexical index over the same chunk
// slice the dense index covers. Scores are TF weighted by a BM25-style
// inverse document frequency.
type sparseIndex struct {
	termFreqs []map[string]int
	docFreq   map[string]int
	docCount  int
}

func buildSparseIndex(chunks []Chunk) *sparseIndex {
	idx := &sparseIndex{
		termFreqs: make([]map[string]int, len(chunks)),
		docFreq:   make(map[string]int),
		docCount:  len(chunks),
	}
	for i, chunk := range chunks {
		tf := make(map[string]int)
		for _, term := range tokenize(chunk.Text) {
			tf[term]++
		}
		idx.termFreqs[i] = tf
		for term := range tf {
			idx.docFreq[term]++
		}
	}
	return idx
}

// Search returns chunk positions ranked lexically, best first, at most k.
// Chunks sharing no term with the query are never returned.
func (s *sparseIndex) Search(query string, k int) []int {
	queryTerms := tokenize(query)
	if len(queryTerms) == 0 {
		return nil
	}

	type scored struct {
		pos   int
		score float64
	}
	var results []scored
	for i, tf := range s.termFreqs {
		var score float64
		for _, term := range queryTerms {
			freq := tf[term]
			if freq == 0 {
				continue
			}
			score += float64(freq) * s.idf(term)
		}
		if score > 0 {
			results = append(results, scored{pos: i, score: score})
		}
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
	return positions
}

func (s *sparseIndex) idf(term string) float64 {
	df := s.docFreq[term]
	return math.Log(1 + (float64(s.docCount)-float64(df)+0.5)/(float64(df)+0.5))
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
