package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

// Registers every pdf/docx/txt resume in a directory so it can be scored or
// matched by document id.
func main() {
	dir := flag.String("dir", "./resumes", "directory holding resume files")
	flag.Parse()

	cfg := config.Load()

	zlog, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := config.InitDatabase(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	docRepo := repositories.NewDocumentRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		zlog.Fatal("failed to create upload directory", zap.Error(err))
	}
	extractor := services.NewDocumentExtractor(zlog)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		zlog.Fatal("failed to read resume directory", zap.String("dir", *dir), zap.Error(err))
	}

	successCount := 0
	failCount := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, ok := services.ParseFormat(name); !ok {
			zlog.Debug("skipping unsupported file", zap.String("file", name))
			continue
		}

		path := filepath.Join(*dir, name)
		if strings.TrimSpace(extractor.ExtractFile(path, "").Text) == "" {
			zlog.Warn("no text extracted; registering anyway", zap.String("file", name))
		}

		if err := register(docRepo, storageService, path, zlog); err != nil {
			zlog.Error("failed to register resume", zap.String("file", name), zap.Error(err))
			failCount++
			continue
		}
		successCount++
	}

	zlog.Info("ingestion completed", zap.Int("registered", successCount), zap.Int("failed", failCount))
}

func register(docRepo repositories.DocumentRepository, storage services.StorageService, path string, zlog *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	stored, err := storage.SaveReader(filepath.Base(path), f)
	if err != nil {
		return err
	}

	now := time.Now()
	doc := models.Document{
		ID:               uuid.New(),
		Filename:         stored.Filename,
		OriginalFileName: filepath.Base(path),
		Format:           stored.Format,
		FilePath:         stored.Path,
		SizeBytes:        stored.Size,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := docRepo.Create(&doc); err != nil {
		if delErr := storage.DeleteFile(stored.Filename); delErr != nil {
			zlog.Warn("failed to clean up stored file", zap.String("file", stored.Filename), zap.Error(delErr))
		}
		return fmt.Errorf("failed to register %s: %w", filepath.Base(path), err)
	}
	return nil
}
