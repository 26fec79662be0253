package services

import (
	"errors"
	"math"
	"sort"
	"strings"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/models"
)

var ErrEmptyJobDescription = errors.New("job description is required")

type SimilarityRanker interface {
	// Rank orders candidates by similarity to the job description and keeps the top K.
	Rank(jobDescription string, candidates []models.Candidate) (models.SimilarityRanking, error)
	// KeywordScore is the mean similarity between the résumé and each keyword, as a percentage.
	KeywordScore(resumeText string, keywords []string) float64
	// Similarities vectorizes {query} ∪ docs together and scores each doc against query.
	Similarities(query string, docs []string) []float64
}

type similarityRanker struct {
	stopWords []string
	topK      int
}

func NewSimilarityRanker(stopWords []string, topK int) SimilarityRanker {
	if topK <= 0 {
		topK = config.DefaultTopK
	}
	return &similarityRanker{
		stopWords: stopWords,
		topK:      topK,
	}
}

// Similarities implements SimilarityRanker.
func (r *similarityRanker) Similarities(query string, docs []string) []float64 {
	if len(docs) == 0 {
		return []float64{}
	}

	corpus := make([]string, 0, len(docs)+1)
	corpus = append(corpus, query)
	corpus = append(corpus, docs...)

	vectors := newTFIDFVectorizer(r.stopWords).FitTransform(corpus)
	sims := make([]float64, len(docs))
	for i := range docs {
		sims[i] = cosineSimilarity(vectors[0], vectors[i+1])
	}
	return sims
}

// Rank implements SimilarityRanker. Ties keep submission order; rounding to two
// decimals happens after ordering.
func (r *similarityRanker) Rank(jobDescription string, candidates []models.Candidate) (models.SimilarityRanking, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return models.SimilarityRanking{}, ErrEmptyJobDescription
	}

	ranking := models.SimilarityRanking{
		JobDescription: jobDescription,
		Candidates:     []models.RankedCandidate{},
	}
	if len(candidates) == 0 {
		return ranking, nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}
	sims := r.Similarities(jobDescription, texts)

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return sims[order[a]] > sims[order[b]]
	})

	if len(order) > r.topK {
		order = order[:r.topK]
	}
	for _, idx := range order {
		ranking.Candidates = append(ranking.Candidates, models.RankedCandidate{
			DocumentID: candidates[idx].ID,
			Similarity: roundTo2(sims[idx]),
		})
	}
	return ranking, nil
}

// KeywordScore implements SimilarityRanker.
func (r *similarityRanker) KeywordScore(resumeText string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}

	sims := r.Similarities(resumeText, keywords)
	sum := 0.0
	for _, s := range sims {
		sum += s
	}
	return roundTo2(sum / float64(len(sims)) * 100)
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
