package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"alfredoptarigan/resume-analyzer/internal/models"
)

const (
	DefaultTopK      = 5
	DefaultMinLength = 500
)

// DefaultVocabulary returns a fresh copy of the built-in keyword lists.
func DefaultVocabulary() models.Vocabulary {
	return models.Vocabulary{
		Skills:             []string{"python", "java", "sql", "excel", "communication", "teamwork", "leadership"},
		ExperienceTerms:    []string{"experience", "worked", "managed", "developed", "achieved"},
		EducationTerms:     []string{"bachelor", "master", "university", "college", "degree"},
		SummaryMarkers:     []string{"summary", "objective"},
		CertificationTerms: []string{"certification", "certified"},
		JobKeywords:        []string{"python", "data", "analysis", "machine learning", "project"},
		MinLength:          DefaultMinLength,
		StopWords:          EnglishStopWords(),
		DefaultKeywords:    []string{"Python", "data analysis", "machine learning", "SQL", "project management"},
	}
}

// LoadVocabulary reads a YAML vocabulary file. Keys missing from the file keep
// their defaults. An empty path returns the defaults.
func LoadVocabulary(path string) (models.Vocabulary, error) {
	vocab := DefaultVocabulary()
	if path == "" {
		return vocab, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return vocab, fmt.Errorf("vocabulary file does not exist: %s", path)
		}
		return vocab, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var override models.Vocabulary
	if err := yaml.Unmarshal(data, &override); err != nil {
		return vocab, fmt.Errorf("failed to parse vocabulary file: %w", err)
	}
	applyVocabularyOverrides(&vocab, override)
	return vocab, nil
}

// SaveVocabulary writes vocab as YAML, e.g. to seed an editable copy of the defaults.
func SaveVocabulary(path string, vocab models.Vocabulary) error {
	data, err := yaml.Marshal(vocab)
	if err != nil {
		return fmt.Errorf("failed to encode vocabulary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write vocabulary file: %w", err)
	}
	return nil
}

func applyVocabularyOverrides(dst *models.Vocabulary, src models.Vocabulary) {
	setList := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	setList(&dst.Skills, src.Skills)
	setList(&dst.ExperienceTerms, src.ExperienceTerms)
	setList(&dst.EducationTerms, src.EducationTerms)
	setList(&dst.SummaryMarkers, src.SummaryMarkers)
	setList(&dst.CertificationTerms, src.CertificationTerms)
	setList(&dst.JobKeywords, src.JobKeywords)
	setList(&dst.StopWords, src.StopWords)
	setList(&dst.DefaultKeywords, src.DefaultKeywords)
	if src.MinLength > 0 {
		dst.MinLength = src.MinLength
	}
}
