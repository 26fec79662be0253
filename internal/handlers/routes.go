package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, upload *UploadHandler, score *ScoreHandler, match *MatchHandler) {
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/upload", upload.HandleUpload)
	api.Post("/score", score.HandleScore)
	api.Post("/match", match.HandleMatch)
	api.Post("/keyword-score", score.HandleKeywordScore)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Analyzer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/upload",
				"POST /api/v1/score",
				"POST /api/v1/match",
				"POST /api/v1/keyword-score",
			},
		})
	})
}
