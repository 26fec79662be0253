package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// readUpload reads one multipart file fully and releases it.
func readUpload(file *multipart.FileHeader, maxSize int64) ([]byte, error) {
	if file.Size > maxSize {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("file too large. Max size: %d bytes", maxSize))
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("file too large. Max size: %d bytes", maxSize))
	}
	return data, nil
}

func findDocument(repo repositories.DocumentRepository, rawID string) (*models.Document, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid document_id format")
	}

	doc, err := repo.FindByID(id)
	if err != nil {
		return nil, documentLookupError(err)
	}
	return doc, nil
}

func documentLookupError(err error) error {
	if errors.Is(err, repositories.ErrDocumentNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Document not found")
	}
	return fmt.Errorf("failed to load document: %w", err)
}
