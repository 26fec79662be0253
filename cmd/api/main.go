package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/handlers"
	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	vocab, err := config.LoadVocabulary(cfg.Engine.VocabularyFile)
	if err != nil {
		zlog.Fatal("failed to load vocabulary", zap.Error(err))
	}
	zlog.Info("config loaded", zap.String("env", cfg.Server.Env), zap.Int("top_k", cfg.Engine.TopK))

	db, err := config.InitDatabase(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}

	docRepo := repositories.NewDocumentRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		zlog.Fatal("failed to create upload directory", zap.Error(err))
	}

	extractor := services.NewDocumentExtractor(zlog.Named("extractor"))
	scorer := services.NewRubricScorer(vocab)
	if scorer.MaxTotal() > services.MaxTotalScore {
		zlog.Warn("rubric maxima exceed the total cap; scores will be clipped",
			zap.Int("max_total", scorer.MaxTotal()),
			zap.Int("cap", services.MaxTotalScore),
		)
	}
	ranker := services.NewSimilarityRanker(vocab.StopWords, cfg.Engine.TopK)
	pool := services.NewExtractionPool(extractor, cfg.Worker.Concurrency, zlog.Named("pool"))
	zlog.Info("services initialized")

	uploadHandler := handlers.NewUploadHandler(docRepo, storageService, cfg.Storage.MaxFileSize, zlog.Named("upload"))
	scoreHandler := handlers.NewScoreHandler(
		docRepo,
		extractor,
		scorer,
		ranker,
		vocab.DefaultKeywords,
		cfg.Storage.MaxFileSize,
		zlog.Named("score"),
	)
	matchHandler := handlers.NewMatchHandler(
		docRepo,
		extractor,
		pool,
		ranker,
		cfg.Storage.MaxFileSize,
		zlog.Named("match"),
	)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		// several resumes may arrive in one match request
		BodyLimit:    int(cfg.Storage.MaxFileSize) * 10,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	handlers.RegisterRoutes(app, uploadHandler, scoreHandler, matchHandler)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			zlog.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}
