package models

type UploadResponse struct {
	ID           string         `json:"id"`
	Filename     string         `json:"filename"`
	OriginalName string         `json:"original_name"`
	Format       DocumentFormat `json:"format"`
}

type ScoreRequest struct {
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
}

type ScoreResponse struct {
	RubricReport
	DesignScore   int  `json:"design_score"`
	TextExtracted bool `json:"text_extracted"`
}

type MatchRequest struct {
	JobDescription string   `json:"job_description"`
	DocumentIDs    []string `json:"document_ids"`
}

type KeywordScoreRequest struct {
	DocumentID string   `json:"document_id"`
	Text       string   `json:"text"`
	Keywords   []string `json:"keywords"`
}

type KeywordScoreResponse struct {
	Score    float64  `json:"score"`
	Keywords []string `json:"keywords"`
}
