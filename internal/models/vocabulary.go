package models

// Vocabulary holds every keyword list the scorer and ranker depend on.
type Vocabulary struct {
	Skills             []string `yaml:"skills"`
	ExperienceTerms    []string `yaml:"experience_terms"`
	EducationTerms     []string `yaml:"education_terms"`
	SummaryMarkers     []string `yaml:"summary_markers"`
	CertificationTerms []string `yaml:"certification_terms"`
	JobKeywords        []string `yaml:"job_keywords"`
	MinLength          int      `yaml:"min_length"`

	StopWords       []string `yaml:"stop_words"`
	DefaultKeywords []string `yaml:"default_keywords"`
}
