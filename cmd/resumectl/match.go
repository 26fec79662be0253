package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

var jobFile string

var matchCmd = &cobra.Command{
	Use:   "match --job FILE RESUME...",
	Short: "Rank resumes by similarity to a job description",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobDescription, err := readJobDescription(jobFile)
		if err != nil {
			return err
		}

		candidates := make([]models.Candidate, 0, len(args))
		for _, path := range args {
			candidates = append(candidates, models.Candidate{
				ID:   path,
				Text: eng.extractor.ExtractFile(path, "").Text,
			})
		}

		ranking, err := eng.ranker.Rank(jobDescription, candidates)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), ranking)
	},
}

func init() {
	matchCmd.Flags().StringVar(&jobFile, "job", "", "job description file (pdf, docx or txt)")
	_ = matchCmd.MarkFlagRequired("job")
}

// readJobDescription extracts a pdf, docx or txt job file like any other
// document. Only a file without a known extension is read verbatim as text.
func readJobDescription(path string) (string, error) {
	if _, ok := services.ParseFormat(path); ok {
		text := eng.extractor.ExtractFile(path, "").Text
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("no text extracted from job description %s", path)
		}
		return text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read job description: %w", err)
	}
	return string(data), nil
}
