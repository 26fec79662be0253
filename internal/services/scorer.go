package services

import (
	"strings"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/models"
)

// MaxTotalScore caps the report total. The default rule maxima sum to exactly
// this value; revisit the cap before adding categories.
const MaxTotalScore = 100

const (
	designScoreComplete = 80
	designScorePartial  = 50
)

type RubricScorer interface {
	Score(text string) models.RubricReport
	DesignScore(text string) int
	MaxTotal() int
}

type rubricScorer struct {
	rules []RubricRule
}

// NewRubricScorer builds the default eight-category rubric from vocab.
func NewRubricScorer(vocab models.Vocabulary) RubricScorer {
	minLength := vocab.MinLength
	if minLength <= 0 {
		minLength = config.DefaultMinLength
	}
	return NewRubricScorerWithRules(DefaultRules(vocab, minLength)...)
}

// NewRubricScorerWithRules scores with the given rules in the given order.
func NewRubricScorerWithRules(rules ...RubricRule) RubricScorer {
	return &rubricScorer{rules: rules}
}

// Score implements RubricScorer.
func (s *rubricScorer) Score(text string) models.RubricReport {
	lower := strings.ToLower(text)

	report := models.RubricReport{
		Categories: make([]models.RubricCategoryResult, 0, len(s.rules)),
	}
	total := 0
	for _, rule := range s.rules {
		result := rule.Evaluate(lower)
		total += result.Score
		report.Categories = append(report.Categories, result)
	}
	report.TotalScore = min(total, MaxTotalScore)

	return report
}

// DesignScore is a coarse structure check: both an education and an
// experience section must be mentioned.
func (s *rubricScorer) DesignScore(text string) int {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "education") && strings.Contains(lower, "experience") {
		return designScoreComplete
	}
	return designScorePartial
}

// MaxTotal returns the sum of the rule maxima, before the cap.
func (s *rubricScorer) MaxTotal() int {
	total := 0
	for _, rule := range s.rules {
		total += rule.MaxScore()
	}
	return total
}
