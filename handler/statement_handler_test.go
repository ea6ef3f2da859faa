package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradetax/k4-statement-service/client"
	"github.com/tradetax/k4-statement-service/config"
	"github.com/tradetax/k4-statement-service/dto"
	"github.com/tradetax/k4-statement-service/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter(cfg *config.Config) *gin.Engine {
	svc := service.NewStatementService(
		client.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel),
		client.NewTesseractClient(""),
		service.NewPDFProcessor(),
		cfg,
	)
	h := NewStatementHandler(svc)

	router := gin.New()
	router.POST("/api/process-statement", h.ProcessStatement)
	return router
}

func multipartRequest(t *testing.T, fields map[string]string, withFile bool) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if withFile {
		part, err := writer.CreateFormFile("file", "statement.pdf")
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 not really a statement"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/process-statement", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func allFields() map[string]string {
	return map[string]string{
		"tax_year":       "2023",
		"broker_name":    "IBKR",
		"account_number": "U123",
		"taxpayer_name":  "Jane Doe",
		"taxpayer_sin":   "199001011234",
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestProcessStatementMissingFormField(t *testing.T) {
	fields := allFields()
	delete(fields, "tax_year")

	router := testRouter(&config.Config{GeminiAPIKey: "test-key"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, fields, true))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "PROCESSING_FAILED", resp.Error)
	assert.Equal(t, "tax_year is required", resp.Message)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestProcessStatementMissingFile(t *testing.T) {
	router := testRouter(&config.Config{GeminiAPIKey: "test-key"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, allFields(), false))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PROCESSING_FAILED", decodeError(t, w).Error)
}

func TestProcessStatementMissingCredentialIsServerError(t *testing.T) {
	router := testRouter(&config.Config{GeminiAPIKey: ""})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, allFields(), true))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Contains(t, resp.Message, "GEMINI_API_KEY")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestProcessStatementMissingTemplateIsServerError(t *testing.T) {
	cfg := &config.Config{
		GeminiAPIKey: "test-key",
		TemplatePath: "testdata/missing.pdf",
	}

	router := testRouter(cfg)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, allFields(), true))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decodeError(t, w).Message, "template file not found")
}

// tempStatementFiles snapshots the staged statement files currently in the
// temp directory.
func tempStatementFiles(t *testing.T) map[string]bool {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "statement-*.pdf"))
	require.NoError(t, err)
	files := make(map[string]bool, len(matches))
	for _, match := range matches {
		files[match] = true
	}
	return files
}

func TestProcessStatementRemovesTempFileOnFailure(t *testing.T) {
	template := filepath.Join(t.TempDir(), "k4_template.pdf")
	require.NoError(t, os.WriteFile(template, []byte("placeholder"), 0o644))

	cfg := &config.Config{
		GeminiAPIKey:        "test-key",
		TemplatePath:        template,
		ChunkSize:           4000,
		ChunkOverlap:        200,
		MaxTradeRows:        8,
		MaxConcurrentChunks: 4,
	}

	router := testRouter(cfg)
	before := tempStatementFiles(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, allFields(), true))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The staged copy of the upload must not outlive the request.
	for path := range tempStatementFiles(t) {
		assert.Contains(t, before, path, "staged statement file left behind")
	}
}

func TestProcessStatementUnparsableUpload(t *testing.T) {
	template := filepath.Join(t.TempDir(), "k4_template.pdf")
	require.NoError(t, os.WriteFile(template, []byte("placeholder"), 0o644))

	cfg := &config.Config{
		GeminiAPIKey:        "test-key",
		TemplatePath:        template,
		ChunkSize:           4000,
		ChunkOverlap:        200,
		MaxTradeRows:        8,
		MaxConcurrentChunks: 4,
	}

	router := testRouter(cfg)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, allFields(), true))

	// The uploaded bytes are not a parseable PDF, which is the client's
	// fault.
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PROCESSING_FAILED", decodeError(t, w).Error)
}
