package services

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tfidfVectorizer builds a fresh vocabulary for every corpus it is given, so
// no state is shared between calls.
type tfidfVectorizer struct {
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

func newTFIDFVectorizer(stopWords []string) *tfidfVectorizer {
	stop := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		stop[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return &tfidfVectorizer{
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}_]{2,}`),
		stopwords:    stop,
	}
}

// FitTransform returns one L2-normalized vector per corpus entry. Weights are
// raw term counts times the smoothed IDF ln((1+N)/(1+df)) + 1. A document with
// no vocabulary terms gets an all-zero vector.
func (v *tfidfVectorizer) FitTransform(corpus []string) [][]float64 {
	tokenized := make([][]string, len(corpus))
	df := make(map[string]int)
	for i, text := range corpus {
		tokens := v.tokenize(text)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	// Sorted vocabulary keeps vector layout deterministic.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		vocabulary[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	vectors := make([][]float64, len(corpus))
	for i, tokens := range tokenized {
		vec := make([]float64, len(terms))
		for _, tok := range tokens {
			vec[vocabulary[tok]]++
		}
		for idx := range vec {
			vec[idx] *= idf[idx]
		}
		normalize(vec)
		vectors[i] = vec
	}
	return vectors
}

func (v *tfidfVectorizer) tokenize(text string) []string {
	raw := v.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := v.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func normalize(vec []float64) {
	norm := 0.0
	for _, x := range vec {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] /= norm
	}
}

// cosineSimilarity returns 0 when either vector has zero length.
func cosineSimilarity(a, b []float64) float64 {
	n := min(len(a), len(b))
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, x := range a {
		normA += x * x
	}
	for _, x := range b {
		normB += x * x
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) {
		return 0
	}
	return math.Max(-1, math.Min(1, sim))
}
