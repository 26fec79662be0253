package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type ScoreHandler struct {
	docRepo         repositories.DocumentRepository
	extractor       services.DocumentExtractor
	scorer          services.RubricScorer
	ranker          services.SimilarityRanker
	defaultKeywords []string
	maxFileSize     int64
	log             *zap.Logger
}

func NewScoreHandler(
	docRepo repositories.DocumentRepository,
	extractor services.DocumentExtractor,
	scorer services.RubricScorer,
	ranker services.SimilarityRanker,
	defaultKeywords []string,
	maxFileSize int64,
	log *zap.Logger,
) *ScoreHandler {
	return &ScoreHandler{
		docRepo:         docRepo,
		extractor:       extractor,
		scorer:          scorer,
		ranker:          ranker,
		defaultKeywords: defaultKeywords,
		maxFileSize:     maxFileSize,
		log:             log,
	}
}

// HandleScore handles POST /score with a multipart "resume" file, or JSON
// {document_id} / {text}.
func (h *ScoreHandler) HandleScore(c *fiber.Ctx) error {
	var (
		text string
		err  error
	)

	if isMultipart(c) {
		text, err = h.textFromMultipart(c)
	} else {
		var req models.ScoreRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
		}
		text, err = h.textFromRequest(req.DocumentID, req.Text)
	}
	if err != nil {
		return err
	}

	if err := c.UserContext().Err(); err != nil {
		return fiber.NewError(fiber.StatusRequestTimeout, "request cancelled")
	}

	report := h.scorer.Score(text)
	extracted := strings.TrimSpace(text) != ""
	if !extracted {
		h.log.Warn("scoring a resume with no extracted text")
	}

	h.log.Info("resume scored", zap.Int("total_score", report.TotalScore), zap.Bool("text_extracted", extracted))

	return c.JSON(models.ScoreResponse{
		RubricReport:  report,
		DesignScore:   h.scorer.DesignScore(text),
		TextExtracted: extracted,
	})
}

// HandleKeywordScore handles POST /keyword-score.
func (h *ScoreHandler) HandleKeywordScore(c *fiber.Ctx) error {
	var req models.KeywordScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}

	text, err := h.textFromRequest(req.DocumentID, req.Text)
	if err != nil {
		return err
	}

	keywords := req.Keywords
	if len(keywords) == 0 {
		keywords = h.defaultKeywords
	}

	if err := c.UserContext().Err(); err != nil {
		return fiber.NewError(fiber.StatusRequestTimeout, "request cancelled")
	}

	return c.JSON(models.KeywordScoreResponse{
		Score:    h.ranker.KeywordScore(text, keywords),
		Keywords: keywords,
	})
}

func (h *ScoreHandler) textFromMultipart(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("resume")
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "resume file is required")
	}
	if _, ok := services.ParseFormat(file.Filename); !ok {
		return "", fiber.NewError(fiber.StatusBadRequest, "Allowed file types are PDF, DOCX and TXT only.")
	}

	data, err := readUpload(file, h.maxFileSize)
	if err != nil {
		return "", err
	}
	return h.extractor.Extract(data, file.Filename).Text, nil
}

func (h *ScoreHandler) textFromRequest(documentID, text string) (string, error) {
	if documentID == "" {
		if text == "" {
			return "", fiber.NewError(fiber.StatusBadRequest, "document_id or text is required")
		}
		return text, nil
	}

	doc, err := findDocument(h.docRepo, documentID)
	if err != nil {
		return "", err
	}
	return h.extractor.ExtractFile(doc.FilePath, string(doc.Format)).Text, nil
}
