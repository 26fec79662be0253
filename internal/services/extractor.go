package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// DocumentExtractor turns uploaded bytes into plain text. It never fails:
// unsupported formats and unreadable documents yield empty text.
type DocumentExtractor interface {
	Extract(data []byte, declared string) models.ExtractedDocument
	ExtractFile(path string, declared string) models.ExtractedDocument
}

type documentExtractor struct {
	log *zap.Logger
}

func NewDocumentExtractor(log *zap.Logger) DocumentExtractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &documentExtractor{log: log}
}

// ParseFormat accepts an extension ("pdf", ".PDF") or a filename ("cv.docx").
func ParseFormat(declared string) (models.DocumentFormat, bool) {
	ext := strings.ToLower(strings.TrimSpace(declared))
	if strings.Contains(ext, ".") {
		ext = strings.TrimPrefix(filepath.Ext(ext), ".")
	}

	switch models.DocumentFormat(ext) {
	case models.FormatPDF, models.FormatDOCX, models.FormatTXT:
		return models.DocumentFormat(ext), true
	default:
		return "", false
	}
}

// Extract implements DocumentExtractor.
func (e *documentExtractor) Extract(data []byte, declared string) models.ExtractedDocument {
	format, ok := ParseFormat(declared)
	if !ok {
		e.log.Debug("unsupported document format", zap.String("declared", declared))
		return models.ExtractedDocument{Format: format}
	}

	text, err := extractByFormat(format, data)
	if err != nil {
		e.log.Debug("document extraction degraded to empty text",
			zap.String("format", string(format)),
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
		text = ""
	}

	return models.ExtractedDocument{Format: format, Text: text}
}

// ExtractFile implements DocumentExtractor. The file is read fully and closed
// before extraction starts.
func (e *documentExtractor) ExtractFile(path string, declared string) models.ExtractedDocument {
	if declared == "" {
		declared = path
	}

	format, ok := ParseFormat(declared)
	if !ok {
		e.log.Debug("unsupported document format", zap.String("declared", declared))
		return models.ExtractedDocument{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		e.log.Debug("failed to read document", zap.String("path", path), zap.Error(err))
		return models.ExtractedDocument{Format: format}
	}

	return e.Extract(data, string(format))
}

func extractByFormat(format models.DocumentFormat, data []byte) (string, error) {
	switch format {
	case models.FormatPDF:
		return parsePDF(data)
	case models.FormatDOCX:
		return parseDOCX(data)
	case models.FormatTXT:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("text document is not valid UTF-8")
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}
