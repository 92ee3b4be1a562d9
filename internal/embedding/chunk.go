package embedding

import (
	"math"
	"strings"
)

// SplitIntoChunks splits text into chunks no longer than maxChars,
// preferring paragraph boundaries, then forcibly slicing paragraphs that
// exceed maxChars on their own. At most maxChunks chunks are returned,
// keeping the earliest ones.
func SplitIntoChunks(text string, maxChars, maxChunks int) []string {
	if text == "" {
		return []string{""}
	}
	if len(text) <= maxChars {
		return []string{text}
	}

	normalized := strings.ReplaceAll(text, "\r", "\n")
	var paragraphs []string
	for _, p := range strings.Split(normalized, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var chunks []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n\n"))
			current = nil
			currentLen = 0
		}
	}

	for _, para := range paragraphs {
		pl := len(para)
		if pl > maxChars {
			start := 0
			for start < pl {
				end := start + maxChars
				if end > pl {
					end = pl
				}
				piece := para[start:end]
				if currentLen+len(piece) > maxChars {
					flush()
				}
				current = append(current, piece)
				currentLen += len(piece)
				flush()
				start = end
			}
			continue
		}
		sep := 0
		if len(current) > 0 {
			sep = 2
		}
		if currentLen+pl+sep > maxChars {
			flush()
		}
		current = append(current, para)
		currentLen += pl + sep
	}
	flush()

	if len(chunks) > maxChunks {
		chunks = chunks[:maxChunks]
	}
	if len(chunks) == 0 {
		end := maxChars
		if end > len(text) {
			end = len(text)
		}
		chunks = []string{text[:end]}
	}
	return chunks
}

// meanPool averages a set of equal-length vectors element-wise.
func meanPool(vecs [][]float32) []float32 {
	if len(vecs) == 0 {
		return nil
	}
	dim := len(vecs[0])
	out := make([]float64, dim)
	for _, v := range vecs {
		for i := 0; i < dim && i < len(v); i++ {
			out[i] += float64(v[i])
		}
	}
	n := float64(len(vecs))
	result := make([]float32, dim)
	for i, s := range out {
		result[i] = float32(s / n)
	}
	return result
}

// normalize rescales v to unit length, leaving the zero vector unchanged.
func normalize(v []float32) []float32 {
	var sumSq float64
	for _, f := range v {
		sumSq += float64(f) * float64(f)
	}
	if sumSq == 0 {
		return v
	}
	norm := math.Sqrt(sumSq)
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(float64(f) / norm)
	}
	return out
}
