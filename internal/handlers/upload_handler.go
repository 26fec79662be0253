package handlers

import (
	"fmt"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type UploadHandler struct {
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	maxFileSize    int64
	log            *zap.Logger
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	maxFileSize int64,
	log *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		docRepo:        docRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
		log:            log,
	}
}

// HandleUpload handles POST /upload. Every "resume" part is validated before
// any is stored; a failure while storing rolls back the documents of this request.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to parse multipart form")
	}

	resumeFiles := form.File["resume"]
	if len(resumeFiles) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "No valid files uploaded. Please upload 'resume' as PDF, DOCX or TXT files.")
	}

	for _, file := range resumeFiles {
		if file.Size > h.maxFileSize {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize))
		}
		if _, ok := services.ParseFormat(file.Filename); !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Allowed file types are PDF, DOCX and TXT only.")
		}
	}

	saved := make([]models.Document, 0, len(resumeFiles))
	for _, file := range resumeFiles {
		doc, err := h.store(file)
		if err != nil {
			h.rollback(saved)
			return err
		}
		saved = append(saved, *doc)

		h.log.Info("document uploaded",
			zap.String("id", doc.ID.String()),
			zap.String("format", string(doc.Format)),
			zap.Int64("size", doc.SizeBytes),
		)
	}

	responses := make([]models.UploadResponse, 0, len(saved))
	for _, doc := range saved {
		responses = append(responses, models.UploadResponse{
			ID:           doc.ID.String(),
			Filename:     doc.Filename,
			OriginalName: doc.OriginalFileName,
			Format:       doc.Format,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Files uploaded successfully",
		"documents": responses,
	})
}

func (h *UploadHandler) store(file *multipart.FileHeader) (*models.Document, error) {
	stored, err := h.storageService.SaveFile(file)
	if err != nil {
		h.log.Error("failed to save upload", zap.String("file", file.Filename), zap.Error(err))
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to save resume file")
	}

	now := time.Now()
	doc := models.Document{
		ID:               uuid.New(),
		Filename:         stored.Filename,
		OriginalFileName: services.SanitizeFilename(file.Filename),
		Format:           stored.Format,
		FilePath:         stored.Path,
		SizeBytes:        stored.Size,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := h.docRepo.Create(&doc); err != nil {
		// Cleanup uploaded file if database insert fails
		h.removeFile(stored.Filename)
		h.log.Error("failed to register document", zap.Error(err))
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to save resume document record")
	}
	return &doc, nil
}

func (h *UploadHandler) rollback(docs []models.Document) {
	for _, doc := range docs {
		if err := h.docRepo.Delete(doc.ID); err != nil {
			h.log.Warn("failed to remove document record", zap.String("id", doc.ID.String()), zap.Error(err))
		}
		h.removeFile(doc.Filename)
	}
}

func (h *UploadHandler) removeFile(filename string) {
	if err := h.storageService.DeleteFile(filename); err != nil {
		h.log.Warn("failed to clean up upload", zap.String("file", filename), zap.Error(err))
	}
}
