package models

// Candidate is one résumé submitted for ranking.
type Candidate struct {
	ID   string
	Text string
}

type RankedCandidate struct {
	DocumentID string  `json:"document_id"`
	Similarity float64 `json:"similarity"`
}

// SimilarityRanking lists the best matching candidates, highest similarity first.
type SimilarityRanking struct {
	JobDescription string            `json:"job_description"`
	Candidates     []RankedCandidate `json:"candidates"`
}
