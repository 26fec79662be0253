package main

import (
	"github.com/spf13/cobra"

	"alfredoptarigan/resume-analyzer/internal/models"
)

var keywords []string

var keywordsCmd = &cobra.Command{
	Use:   "keywords FILE",
	Short: "Score a resume's similarity to a keyword list (0-100)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list := keywords
		if len(list) == 0 {
			list = eng.vocab.DefaultKeywords
		}

		text := eng.extractor.ExtractFile(args[0], "").Text
		return writeJSON(cmd.OutOrStdout(), models.KeywordScoreResponse{
			Score:    eng.ranker.KeywordScore(text, list),
			Keywords: list,
		})
	},
}

func init() {
	keywordsCmd.Flags().StringArrayVarP(&keywords, "keyword", "k", nil, "keyword or phrase to match (repeatable)")
}
