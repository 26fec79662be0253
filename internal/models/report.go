package models

// RubricCategoryResult is the outcome of one rubric rule.
type RubricCategoryResult struct {
	Category    string   `json:"category"`
	Score       int      `json:"score"`
	MaxScore    int      `json:"max_score"`
	Flaws       []string `json:"flaws"`
	FixTips     []string `json:"fix_tips"`
	Suggestions []string `json:"suggestions"`
}

// RubricReport aggregates every category in a fixed order.
type RubricReport struct {
	TotalScore int                    `json:"total_score"`
	Categories []RubricCategoryResult `json:"categories"`
}

// Category returns the result with the given name, if present.
func (r RubricReport) Category(name string) (RubricCategoryResult, bool) {
	for _, c := range r.Categories {
		if c.Category == name {
			return c, true
		}
	}
	return RubricCategoryResult{}, false
}
