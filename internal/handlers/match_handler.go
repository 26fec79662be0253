package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type MatchHandler struct {
	docRepo     repositories.DocumentRepository
	extractor   services.DocumentExtractor
	pool        services.ExtractionPool
	ranker      services.SimilarityRanker
	maxFileSize int64
	log         *zap.Logger
}

func NewMatchHandler(
	docRepo repositories.DocumentRepository,
	extractor services.DocumentExtractor,
	pool services.ExtractionPool,
	ranker services.SimilarityRanker,
	maxFileSize int64,
	log *zap.Logger,
) *MatchHandler {
	return &MatchHandler{
		docRepo:     docRepo,
		extractor:   extractor,
		pool:        pool,
		ranker:      ranker,
		maxFileSize: maxFileSize,
		log:         log,
	}
}

// HandleMatch handles POST /match. Multipart requests carry "job_description"
// and "resumes" files, ranked by original filename; JSON requests reference
// registered documents by id.
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	var (
		jobDescription string
		candidates     []models.Candidate
		err            error
	)

	if isMultipart(c) {
		jobDescription = c.FormValue("job_description")
		candidates, err = h.candidatesFromMultipart(c)
	} else {
		var req models.MatchRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
		}
		jobDescription = req.JobDescription
		candidates, err = h.candidatesFromDocuments(c, req.DocumentIDs)
	}
	if err != nil {
		return err
	}

	if strings.TrimSpace(jobDescription) == "" || len(candidates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Please upload resumes and enter a job description.")
	}

	if err := c.UserContext().Err(); err != nil {
		return fiber.NewError(fiber.StatusRequestTimeout, "request cancelled")
	}

	ranking, err := h.ranker.Rank(jobDescription, candidates)
	if err != nil {
		if errors.Is(err, services.ErrEmptyJobDescription) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	h.log.Info("resumes ranked", zap.Int("candidates", len(candidates)), zap.Int("returned", len(ranking.Candidates)))

	return c.JSON(ranking)
}

func (h *MatchHandler) candidatesFromMultipart(c *fiber.Ctx) ([]models.Candidate, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "failed to parse multipart form")
	}

	files := form.File["resumes"]
	candidates := make([]models.Candidate, 0, len(files))
	for _, file := range files {
		data, err := readUpload(file, h.maxFileSize)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, models.Candidate{
			ID:   services.SanitizeFilename(file.Filename),
			Text: h.extractor.Extract(data, file.Filename).Text,
		})
	}
	return candidates, nil
}

func (h *MatchHandler) candidatesFromDocuments(c *fiber.Ctx, rawIDs []string) ([]models.Candidate, error) {
	if len(rawIDs) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid document_ids format")
		}
		ids = append(ids, id)
	}

	docs, err := h.docRepo.FindByIDs(ids)
	if err != nil {
		return nil, documentLookupError(err)
	}

	jobs := make([]services.ExtractionJob, 0, len(docs))
	for _, doc := range docs {
		jobs = append(jobs, services.ExtractionJob{
			ID:       doc.ID.String(),
			Path:     doc.FilePath,
			Declared: string(doc.Format),
		})
	}

	return h.pool.ExtractAll(c.UserContext(), jobs)
}
