package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type memoryDocumentRepository struct {
	mu   sync.Mutex
	docs map[uuid.UUID]models.Document
}

func newMemoryDocumentRepository() *memoryDocumentRepository {
	return &memoryDocumentRepository{docs: make(map[uuid.UUID]models.Document)}
}

func (m *memoryDocumentRepository) Create(document *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[document.ID] = *document
	return nil
}

func (m *memoryDocumentRepository) FindByID(id uuid.UUID) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repositories.ErrDocumentNotFound, id)
	}
	return &doc, nil
}

func (m *memoryDocumentRepository) FindByIDs(ids []uuid.UUID) ([]models.Document, error) {
	out := make([]models.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := m.FindByID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, *doc)
	}
	return out, nil
}

func (m *memoryDocumentRepository) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

const maxUpload = 1 << 20

func newTestApp(t *testing.T) (*fiber.App, *memoryDocumentRepository) {
	t.Helper()

	repo := newMemoryDocumentRepository()
	return newTestAppWith(t, repo, t.TempDir()), repo
}

// failingCreateRepository accepts the first allowed Create calls and fails the rest.
type failingCreateRepository struct {
	*memoryDocumentRepository
	allowed int
}

func (f *failingCreateRepository) Create(document *models.Document) error {
	if f.allowed == 0 {
		return errors.New("connection reset")
	}
	f.allowed--
	return f.memoryDocumentRepository.Create(document)
}

func newTestAppWith(t *testing.T, repo repositories.DocumentRepository, uploadDir string) *fiber.App {
	t.Helper()

	log := zap.NewNop()
	vocab := config.DefaultVocabulary()

	storage := services.NewStorageService(uploadDir)
	require.NoError(t, storage.EnsureUploadDir())

	extractor := services.NewDocumentExtractor(log)
	scorer := services.NewRubricScorer(vocab)
	ranker := services.NewSimilarityRanker(vocab.StopWords, config.DefaultTopK)
	pool := services.NewExtractionPool(extractor, 2, log)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app,
		NewUploadHandler(repo, storage, maxUpload, log),
		NewScoreHandler(repo, extractor, scorer, ranker, vocab.DefaultKeywords, maxUpload, log),
		NewMatchHandler(repo, extractor, pool, ranker, maxUpload, log),
	)
	return app
}

type filePart struct {
	field, name, content string
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files ...filePart) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, path string, payload any) *http.Request {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request, out any) int {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}
	return resp.StatusCode
}

const resumeText = "Contact: jane@example.com, 555-123-4567. Summary: results-driven. " +
	"Skills: python, sql, teamwork. Experience: managed a team. Education: Bachelor degree. "

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)

	var body map[string]any
	status := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil), &body)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}

func TestScoreText(t *testing.T) {
	app, _ := newTestApp(t)

	var resp models.ScoreResponse
	status := do(t, app, jsonRequest(t, "/api/v1/score", models.ScoreRequest{Text: resumeText}), &resp)

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 66, resp.TotalScore)
	assert.Len(t, resp.Categories, 8)
	assert.Equal(t, "Contact Information", resp.Categories[0].Category)
	assert.Equal(t, 50, resp.DesignScore)
	assert.True(t, resp.TextExtracted)
}

func TestScoreResponseFieldNames(t *testing.T) {
	app, _ := newTestApp(t)

	var raw map[string]any
	status := do(t, app, jsonRequest(t, "/api/v1/score", models.ScoreRequest{Text: "  "}), &raw)
	require.Equal(t, fiber.StatusOK, status)

	assert.EqualValues(t, 5, raw["total_score"])
	assert.Equal(t, false, raw["text_extracted"])
	categories := raw["categories"].([]any)
	first := categories[0].(map[string]any)
	for _, key := range []string{"category", "score", "max_score", "flaws", "fix_tips", "suggestions"} {
		assert.Contains(t, first, key)
	}
	last := categories[len(categories)-1].(map[string]any)
	assert.Equal(t, []any{}, last["suggestions"])
}

func TestScoreUpload(t *testing.T) {
	app, repo := newTestApp(t)

	var resp models.ScoreResponse
	status := do(t, app, multipartRequest(t, "/api/v1/score", nil,
		filePart{field: "resume", name: "jane.txt", content: resumeText}), &resp)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 66, resp.TotalScore)
	assert.Empty(t, repo.docs, "one-shot scoring registers nothing")

	status = do(t, app, multipartRequest(t, "/api/v1/score", nil,
		filePart{field: "resume", name: "broken.pdf", content: "not a pdf"}), &resp)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 5, resp.TotalScore)
	assert.False(t, resp.TextExtracted)
}

func TestScoreValidation(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{name: "empty body", req: jsonRequest(t, "/api/v1/score", map[string]string{}), status: fiber.StatusBadRequest},
		{name: "bad uuid", req: jsonRequest(t, "/api/v1/score", models.ScoreRequest{DocumentID: "nope"}), status: fiber.StatusBadRequest},
		{name: "unknown document", req: jsonRequest(t, "/api/v1/score", models.ScoreRequest{DocumentID: uuid.NewString()}), status: fiber.StatusNotFound},
		{name: "unsupported file", req: multipartRequest(t, "/api/v1/score", nil, filePart{field: "resume", name: "cv.exe", content: "MZ"}), status: fiber.StatusBadRequest},
		{name: "missing file", req: multipartRequest(t, "/api/v1/score", map[string]string{"x": "y"}), status: fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]any
			status := do(t, app, tt.req, &body)
			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, body["error"])
			assert.EqualValues(t, tt.status, body["code"])
		})
	}
}

func TestUploadThenScoreAndMatchByID(t *testing.T) {
	app, repo := newTestApp(t)

	var uploaded struct {
		Documents []models.UploadResponse `json:"documents"`
	}
	status := do(t, app, multipartRequest(t, "/api/v1/upload", nil,
		filePart{field: "resume", name: "analyst.txt", content: "python data analysis pandas"},
		filePart{field: "resume", name: "chef.txt", content: "cooking and baking"},
	), &uploaded)
	require.Equal(t, fiber.StatusCreated, status)
	require.Len(t, uploaded.Documents, 2)
	assert.Len(t, repo.docs, 2)
	assert.Equal(t, "analyst.txt", uploaded.Documents[0].OriginalName)
	assert.Equal(t, models.FormatTXT, uploaded.Documents[0].Format)

	var scored models.ScoreResponse
	status = do(t, app, jsonRequest(t, "/api/v1/score", models.ScoreRequest{DocumentID: uploaded.Documents[0].ID}), &scored)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, scored.TextExtracted)

	var ranking models.SimilarityRanking
	status = do(t, app, jsonRequest(t, "/api/v1/match", models.MatchRequest{
		JobDescription: "python data analysis",
		DocumentIDs:    []string{uploaded.Documents[1].ID, uploaded.Documents[0].ID},
	}), &ranking)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, ranking.Candidates, 2)
	assert.Equal(t, uploaded.Documents[0].ID, ranking.Candidates[0].DocumentID)
	assert.Equal(t, 0.0, ranking.Candidates[1].Similarity)
}

func TestUploadRejectsUnsupportedFile(t *testing.T) {
	app, repo := newTestApp(t)

	var body map[string]any
	status := do(t, app, multipartRequest(t, "/api/v1/upload", nil,
		filePart{field: "resume", name: "cv.rtf", content: "{\\rtf1}"}), &body)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Allowed file types are PDF, DOCX and TXT only.", body["error"])
	assert.EqualValues(t, fiber.StatusBadRequest, body["code"])
	assert.Empty(t, repo.docs)
}

func TestUploadMixedBatchStoresNothing(t *testing.T) {
	dir := t.TempDir()
	repo := newMemoryDocumentRepository()
	app := newTestAppWith(t, repo, dir)

	tests := []struct {
		name  string
		files []filePart
	}{
		{name: "unsupported second file", files: []filePart{
			{field: "resume", name: "ok.txt", content: "python developer"},
			{field: "resume", name: "bad.rtf", content: "{\\rtf1}"},
		}},
		{name: "oversized second file", files: []filePart{
			{field: "resume", name: "ok.txt", content: "python developer"},
			{field: "resume", name: "huge.txt", content: strings.Repeat("a", maxUpload+1)},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]any
			status := do(t, app, multipartRequest(t, "/api/v1/upload", nil, tt.files...), &body)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.EqualValues(t, fiber.StatusBadRequest, body["code"])
			assert.Empty(t, repo.docs)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestUploadRollsBackWhenRegistrationFails(t *testing.T) {
	dir := t.TempDir()
	repo := &failingCreateRepository{memoryDocumentRepository: newMemoryDocumentRepository(), allowed: 1}
	app := newTestAppWith(t, repo, dir)

	var body map[string]any
	status := do(t, app, multipartRequest(t, "/api/v1/upload", nil,
		filePart{field: "resume", name: "first.txt", content: "python developer"},
		filePart{field: "resume", name: "second.txt", content: "data analyst"},
	), &body)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.EqualValues(t, fiber.StatusInternalServerError, body["code"])
	assert.Empty(t, repo.docs)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMatchMultipart(t *testing.T) {
	app, _ := newTestApp(t)

	var ranking models.SimilarityRanking
	status := do(t, app, multipartRequest(t, "/api/v1/match",
		map[string]string{"job_description": "python data analysis"},
		filePart{field: "resumes", name: "chef.txt", content: "cooking"},
		filePart{field: "resumes", name: "analyst.txt", content: "python data analysis pandas"},
		filePart{field: "resumes", name: "dev.txt", content: "python"},
	), &ranking)

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "python data analysis", ranking.JobDescription)
	require.Len(t, ranking.Candidates, 3)
	assert.Equal(t, "analyst.txt", ranking.Candidates[0].DocumentID)
	assert.Equal(t, 0.79, ranking.Candidates[0].Similarity)
	assert.Equal(t, "dev.txt", ranking.Candidates[1].DocumentID)
	assert.Equal(t, "chef.txt", ranking.Candidates[2].DocumentID)
}

func TestMatchValidation(t *testing.T) {
	app, _ := newTestApp(t)

	var body map[string]any
	status := do(t, app, multipartRequest(t, "/api/v1/match",
		map[string]string{"job_description": "   "},
		filePart{field: "resumes", name: "a.txt", content: "python"},
	), &body)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status = do(t, app, jsonRequest(t, "/api/v1/match", models.MatchRequest{JobDescription: "python"}), &body)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status = do(t, app, jsonRequest(t, "/api/v1/match", models.MatchRequest{
		JobDescription: "python",
		DocumentIDs:    []string{uuid.NewString()},
	}), &body)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestKeywordScore(t *testing.T) {
	app, _ := newTestApp(t)

	var resp models.KeywordScoreResponse
	status := do(t, app, jsonRequest(t, "/api/v1/keyword-score", models.KeywordScoreRequest{
		Text: "Python SQL data analysis, machine learning and project management",
	}), &resp)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, config.DefaultVocabulary().DefaultKeywords, resp.Keywords)
	assert.Equal(t, 44.14, resp.Score)

	status = do(t, app, jsonRequest(t, "/api/v1/keyword-score", models.KeywordScoreRequest{
		Text:     "pastry chef",
		Keywords: []string{"golang"},
	}), &resp)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 0.0, resp.Score)
}
