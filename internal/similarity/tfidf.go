// Package similarity scores how well a resume matches a job description
// with TF-IDF vectors and cosine similarity.
package similarity

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMultiplier scales the rounded percentage. The product is not capped
// at 100.
const DefaultMultiplier = 3.0

var wordRun = regexp.MustCompile(`[\p{L}\p{N}\p{M}_]+`)

// Scorer computes TF-IDF cosine similarity over word unigrams and bigrams
// with English stop words removed.
type Scorer struct {
	multiplier float64
	stop       map[string]struct{}
}

// NewScorer returns a Scorer. A non-positive multiplier selects DefaultMultiplier.
func NewScorer(multiplier float64) *Scorer {
	if multiplier <= 0 {
		multiplier = DefaultMultiplier
	}
	stop := make(map[string]struct{}, len(englishStopWords))
	for _, w := range englishStopWords {
		stop[w] = struct{}{}
	}
	return &Scorer{multiplier: multiplier, stop: stop}
}

// Multiplier returns the configured score multiplier.
func (s *Scorer) Multiplier() float64 {
	return s.multiplier
}

// Score returns round(cosine*100, 2) * multiplier.
func (s *Scorer) Score(a, b string) float64 {
	return s.Scale(s.Cosine(a, b))
}

// Scale turns a raw cosine into the reported score.
func (s *Scorer) Scale(cosine float64) float64 {
	return math.Round(cosine*100*100) / 100 * s.multiplier
}

// Cosine returns the cosine similarity of the two documents' L2-normalized
// TF-IDF vectors. The IDF is smoothed: ln((1+n)/(1+df)) + 1 with n = 2.
// Documents without any usable term score 0.
func (s *Scorer) Cosine(a, b string) float64 {
	ta, tb := s.terms(a), s.terms(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	const n = 2.0
	idf := func(term string) float64 {
		df := 0.0
		if _, ok := ta[term]; ok {
			df++
		}
		if _, ok := tb[term]; ok {
			df++
		}
		return math.Log((1+n)/(1+df)) + 1
	}

	weights := func(tf map[string]int) (map[string]float64, float64) {
		w := make(map[string]float64, len(tf))
		norm := 0.0
		for term, count := range tf {
			v := float64(count) * idf(term)
			w[term] = v
			norm += v * v
		}
		return w, math.Sqrt(norm)
	}

	wa, na := weights(ta)
	wb, nb := weights(tb)
	if na == 0 || nb == 0 {
		return 0
	}

	dot := 0.0
	for term, va := range wa {
		if vb, ok := wb[term]; ok {
			dot += va * vb
		}
	}
	return dot / (na * nb)
}

// terms counts the unigrams and bigrams of text. Tokens are runs of two or
// more word characters, lower-cased, with stop words dropped before bigrams
// are formed.
func (s *Scorer) terms(text string) map[string]int {
	var words []string
	for _, w := range wordRun.FindAllString(strings.ToLower(text), -1) {
		if utf8.RuneCountInString(w) < 2 {
			continue
		}
		if _, stop := s.stop[w]; stop {
			continue
		}
		words = append(words, w)
	}

	counts := make(map[string]int, len(words)*2)
	for i, w := range words {
		counts[w]++
		if i+1 < len(words) {
			counts[w+" "+words[i+1]]++
		}
	}
	return counts
}
