package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type stubDocumentRepository struct {
	createErr error
	created   []models.Document
}

func (s *stubDocumentRepository) Create(document *models.Document) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, *document)
	return nil
}

func (s *stubDocumentRepository) FindByID(uuid.UUID) (*models.Document, error) { return nil, nil }

func (s *stubDocumentRepository) FindByIDs([]uuid.UUID) ([]models.Document, error) { return nil, nil }

func (s *stubDocumentRepository) Delete(uuid.UUID) error { return nil }

func TestRegister(t *testing.T) {
	src := filepath.Join(t.TempDir(), "jane.txt")
	require.NoError(t, os.WriteFile(src, []byte("python developer"), 0o644))

	t.Run("stores and registers", func(t *testing.T) {
		uploadDir := t.TempDir()
		repo := &stubDocumentRepository{}

		require.NoError(t, register(repo, services.NewStorageService(uploadDir), src, zap.NewNop()))

		require.Len(t, repo.created, 1)
		assert.Equal(t, "jane.txt", repo.created[0].OriginalFileName)
		assert.FileExists(t, repo.created[0].FilePath)
	})

	t.Run("removes stored file when registration fails", func(t *testing.T) {
		uploadDir := t.TempDir()
		repo := &stubDocumentRepository{createErr: errors.New("connection refused")}

		err := register(repo, services.NewStorageService(uploadDir), src, zap.NewNop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jane.txt")

		entries, err := os.ReadDir(uploadDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("logs a failed cleanup", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		repo := &stubDocumentRepository{createErr: errors.New("connection refused")}

		err := register(repo, brokenDeleteStorage{services.NewStorageService(t.TempDir())}, src, zap.New(core))
		require.Error(t, err)
		assert.Equal(t, 1, logs.FilterMessage("failed to clean up stored file").Len())
	})
}

type brokenDeleteStorage struct {
	services.StorageService
}

func (brokenDeleteStorage) DeleteFile(string) error {
	return errors.New("read-only file system")
}
