package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

const app = "resumectl"

// engine bundles what every subcommand needs; built once per invocation.
type engine struct {
	log       *zap.Logger
	vocab     models.Vocabulary
	extractor services.DocumentExtractor
	scorer    services.RubricScorer
	ranker    services.SimilarityRanker
}

var (
	vocabularyFile string
	debug          bool
	jsonLogs       bool
	topK           int

	eng *engine

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "resumectl scores resumes against a rubric and ranks them against a job description",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			eng, err = newEngine()
			return err
		},
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&vocabularyFile, "vocabulary", "", "a YAML vocabulary file overriding the built-in keyword lists")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonLogs, "json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().IntVar(&topK, "top-k", config.DefaultTopK, "number of resumes returned by match")

	rootCmd.AddCommand(scoreCmd, matchCmd, keywordsCmd)
}

func newEngine() (*engine, error) {
	zlog, err := logger.New(jsonLogs, debug)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	vocab, err := config.LoadVocabulary(vocabularyFile)
	if err != nil {
		return nil, err
	}

	return &engine{
		log:       zlog,
		vocab:     vocab,
		extractor: services.NewDocumentExtractor(zlog),
		scorer:    services.NewRubricScorer(vocab),
		ranker:    services.NewSimilarityRanker(vocab.StopWords, topK),
	}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
