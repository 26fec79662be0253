package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"alfredoptarigan/resume-analyzer/internal/models"
)

const (
	CategoryContact        = "Contact Information"
	CategorySummary        = "Professional Summary"
	CategorySkills         = "Skills"
	CategoryExperience     = "Work Experience"
	CategoryEducation      = "Education"
	CategoryCertifications = "Certifications"
	CategoryFormatting     = "Formatting & Length"
	CategoryKeywordMatch   = "Keyword Match"
)

var (
	emailPattern = regexp.MustCompile(`\b[\w.-]+@[\w.-]+\.\w{2,4}\b`)
	phonePattern = regexp.MustCompile(`\b(\+?\d{1,3}[-.\s]?)?(\(?\d{3}\)?[-.\s]?)?\d{3}[-.\s]?\d{4}\b`)
)

// RubricRule scores one category. Evaluate receives text that is already
// lowercased and must not depend on any other rule.
type RubricRule interface {
	Category() string
	MaxScore() int
	Evaluate(lowerText string) models.RubricCategoryResult
}

// feedback is the fixed text emitted when a rule's primary condition fails.
// An empty field is omitted from the result.
type feedback struct {
	Flaw       string
	FixTip     string
	Suggestion string
}

func buildResult(category string, score, maxScore int, failed bool, fb feedback) models.RubricCategoryResult {
	if score < 0 {
		score = 0
	}
	if score > maxScore {
		score = maxScore
	}

	result := models.RubricCategoryResult{
		Category:    category,
		Score:       score,
		MaxScore:    maxScore,
		Flaws:       []string{},
		FixTips:     []string{},
		Suggestions: []string{},
	}
	if !failed {
		return result
	}
	if fb.Flaw != "" {
		result.Flaws = append(result.Flaws, fb.Flaw)
	}
	if fb.FixTip != "" {
		result.FixTips = append(result.FixTips, fb.FixTip)
	}
	if fb.Suggestion != "" {
		result.Suggestions = append(result.Suggestions, fb.Suggestion)
	}
	return result
}

// normalizeTerms lowercases, trims and dedupes terms, keeping first-seen order.
func normalizeTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}

func countMatches(text string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			n++
		}
	}
	return n
}

type contactRule struct{}

func (contactRule) Category() string { return CategoryContact }
func (contactRule) MaxScore() int    { return 10 }

// Evaluate gives partial credit when either the email or the phone is missing.
func (r contactRule) Evaluate(text string) models.RubricCategoryResult {
	hasEmail := emailPattern.MatchString(text)
	hasPhone := phonePattern.MatchString(text)

	score := 5
	if hasEmail && hasPhone {
		score = 10
	}

	return buildResult(r.Category(), score, r.MaxScore(), !(hasEmail && hasPhone), feedback{
		Flaw:       "Missing or incomplete contact information (email and/or phone).",
		FixTip:     "Add a professional email address and your current phone number at the top of your resume.",
		Suggestion: "Make sure your contact details are easy to find and up-to-date.",
	})
}

// presenceRule awards all points when any term occurs.
type presenceRule struct {
	category string
	terms    []string
	points   int
	feedback feedback
}

func (r presenceRule) Category() string { return r.category }
func (r presenceRule) MaxScore() int    { return r.points }

func (r presenceRule) Evaluate(text string) models.RubricCategoryResult {
	found := false
	for _, term := range r.terms {
		if strings.Contains(text, term) {
			found = true
			break
		}
	}

	score := 0
	if found {
		score = r.points
	}
	return buildResult(r.category, score, r.points, !found, r.feedback)
}

// countRule awards perMatch points for every distinct term found, up to maxScore.
// It fails when fewer than minMatches terms are found.
type countRule struct {
	category   string
	terms      []string
	perMatch   int
	maxScore   int
	minMatches int
	feedback   feedback
}

func (r countRule) Category() string { return r.category }
func (r countRule) MaxScore() int    { return r.maxScore }

func (r countRule) Evaluate(text string) models.RubricCategoryResult {
	matches := countMatches(text, r.terms)
	score := min(matches*r.perMatch, r.maxScore)
	return buildResult(r.category, score, r.maxScore, matches < r.minMatches, r.feedback)
}

type lengthRule struct {
	minLength int
}

func (lengthRule) Category() string { return CategoryFormatting }
func (lengthRule) MaxScore() int    { return 10 }

// Evaluate counts characters, not bytes.
func (r lengthRule) Evaluate(text string) models.RubricCategoryResult {
	long := utf8.RuneCountInString(text) > r.minLength

	score := 0
	if long {
		score = r.MaxScore()
	}
	return buildResult(r.Category(), score, r.MaxScore(), !long, feedback{
		Flaw:       "Resume appears too short, consider adding more details.",
		FixTip:     "Expand sections with relevant projects, skills, and experiences.",
		Suggestion: "Keep the resume clear and easy to scan.",
	})
}

// DefaultRules builds the eight rubric categories, in report order, from vocab.
func DefaultRules(vocab models.Vocabulary, minLength int) []RubricRule {
	return []RubricRule{
		contactRule{},
		presenceRule{
			category: CategorySummary,
			terms:    normalizeTerms(vocab.SummaryMarkers),
			points:   10,
			feedback: feedback{
				Flaw:       "No professional summary or objective found.",
				FixTip:     "Write a brief professional summary or objective that highlights your skills and career goals.",
				Suggestion: "Keep your summary concise and tailored to the job.",
			},
		},
		countRule{
			category:   CategorySkills,
			terms:      normalizeTerms(vocab.Skills),
			perMatch:   3,
			maxScore:   15,
			minMatches: 3,
			feedback: feedback{
				Flaw:       "Skills section is weak or missing relevant skills.",
				FixTip:     "Include more technical and soft skills relevant to your target job, e.g. Python, SQL, communication.",
				Suggestion: "List skills clearly and group them if possible.",
			},
		},
		presenceRule{
			category: CategoryExperience,
			terms:    normalizeTerms(vocab.ExperienceTerms),
			points:   20,
			feedback: feedback{
				Flaw:       "Work experience section seems missing or weak.",
				FixTip:     "Add detailed descriptions of your past roles, responsibilities, and key achievements.",
				Suggestion: "Use action verbs and quantify achievements.",
			},
		},
		presenceRule{
			category: CategoryEducation,
			terms:    normalizeTerms(vocab.EducationTerms),
			points:   15,
			feedback: feedback{
				Flaw:       "Education details are missing or incomplete.",
				FixTip:     "Include your highest degree, university name, and graduation year.",
				Suggestion: "List education in reverse chronological order.",
			},
		},
		presenceRule{
			category: CategoryCertifications,
			terms:    normalizeTerms(vocab.CertificationTerms),
			points:   10,
			feedback: feedback{
				Flaw:       "No certifications or trainings mentioned.",
				FixTip:     "Add relevant certifications to boost credibility.",
				Suggestion: "Include professional courses and certifications.",
			},
		},
		lengthRule{minLength: minLength},
		countRule{
			category:   CategoryKeywordMatch,
			terms:      normalizeTerms(vocab.JobKeywords),
			perMatch:   2,
			maxScore:   10,
			minMatches: 1,
			feedback: feedback{
				Flaw:   "Resume does not mention any of the target job keywords.",
				FixTip: "Mirror key terms from the job posting, such as the tools and domains it names.",
			},
		},
	}
}
