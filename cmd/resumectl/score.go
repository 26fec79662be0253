package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
)

var scoreCmd = &cobra.Command{
	Use:   "score FILE",
	Short: "Score a resume (pdf, docx or txt) against the rubric",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := eng.extractor.ExtractFile(args[0], "")
		extracted := strings.TrimSpace(doc.Text) != ""
		if !extracted {
			eng.log.Warn("no text extracted; the report reflects an empty resume", zap.String("file", args[0]))
		}
		eng.log.Debug("extracted text", zap.String("preview", logger.Preview(doc.Text, 120)))

		resp := models.ScoreResponse{
			RubricReport:  eng.scorer.Score(doc.Text),
			DesignScore:   eng.scorer.DesignScore(doc.Text),
			TextExtracted: extracted,
		}
		if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	},
}
