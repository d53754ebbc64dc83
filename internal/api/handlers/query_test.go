package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briefly/briefly-backend/internal/api"
	"github.com/briefly/briefly-backend/internal/config"
	"github.com/briefly/briefly-backend/internal/models"
	"github.com/briefly/briefly-backend/internal/services"
)

func newTestApp(t *testing.T) (*fiber.App, *services.Services) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{
		Server: config.ServerConfig{
			StaticDir: t.TempDir(),
			TempDir:   t.TempDir(),
		},
		Providers: map[string]config.ProviderConfig{
			"stub": {Type: "stub", Name: "Stub"},
		},
		DefaultProvider: "stub",
		Extractor:       config.ExtractorConfig{Backend: "native"},
		Engine: config.EngineConfig{
			BlockSize:                3,
			MaxConcurrentGenerations: 1,
			SummaryTimeoutSecs:       60,
			QueryTimeoutSecs:         60,
			GeneralTimeoutSecs:       30,
			AdvanceIntervalSecs:      15,
		},
		Session: config.SessionConfig{TTLSecs: 3600, SweepIntervalSecs: 3600},
		Upload:  config.UploadConfig{MaxBytes: 50 * 1024 * 1024},
	}

	svc, err := services.New(context.Background(), cfg, log)
	require.NoError(t, err)

	app := fiber.New()
	api.SetupRoutes(app, svc)
	return app, svc
}

func seedSession(t *testing.T, svc *services.Services, pages int) string {
	t.Helper()

	doc := &models.Document{Name: "report.pdf", TotalPages: pages}
	for i := 1; i <= pages; i++ {
		doc.Pages = append(doc.Pages, models.Page{PageNumber: i, Text: "page text"})
	}
	return svc.Store.Create(doc).Document.SessionID
}

func postQuery(t *testing.T, app *fiber.App, query, sessionID string) map[string]interface{} {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if query != "" {
		require.NoError(t, w.WriteField("query", query))
	}
	if sessionID != "" {
		require.NoError(t, w.WriteField("sessionId", sessionID))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/query", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestQueryRequiresInput(t *testing.T) {
	app, _ := newTestApp(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/query", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPageQueryOutOfRange(t *testing.T) {
	app, svc := newTestApp(t)
	id := seedSession(t, svc, 10)

	decoded := postQuery(t, app, "page 99: what is on this page?", id)
	assert.Equal(t, false, decoded["success"])
	assert.Contains(t, decoded["message"], "between 1 and 10")
}

func TestBlockQueryDispatch(t *testing.T) {
	app, svc := newTestApp(t)
	id := seedSession(t, svc, 10)

	decoded := postQuery(t, app, "block 2: what does it say?", id)
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, float64(2), decoded["block"])
	assert.Equal(t, "4-6", decoded["pageRange"])
	assert.Equal(t, "report.pdf", decoded["documentName"])
}

func TestGetSummaryServedFromCache(t *testing.T) {
	app, svc := newTestApp(t)
	id := seedSession(t, svc, 10)

	sess, ok := svc.Store.Get(id)
	require.True(t, ok)
	require.True(t, sess.StoreSummary(0, "cached summary"))

	decoded := postQuery(t, app, "get summary", id)
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "cached summary", decoded["message"])
	assert.Equal(t, float64(1), decoded["block"])
	assert.Equal(t, true, decoded["isBlockSummary"])
}

func TestNextBlockWithoutProgress(t *testing.T) {
	app, svc := newTestApp(t)
	id := seedSession(t, svc, 10)

	decoded := postQuery(t, app, "next block", id)
	assert.Equal(t, false, decoded["success"])
}

func TestGeneralQueryFallsThrough(t *testing.T) {
	app, _ := newTestApp(t)

	decoded := postQuery(t, app, "hello, what can you do?", "")
	assert.Equal(t, true, decoded["success"])
	assert.NotEmpty(t, decoded["message"])
}

func TestSessionInfoAndDelete(t *testing.T) {
	app, svc := newTestApp(t)
	id := seedSession(t, svc, 7)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/sessions/"+id, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded struct {
		Success     bool               `json:"success"`
		SessionInfo models.SessionInfo `json:"sessionInfo"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	assert.True(t, decoded.Success)
	assert.Equal(t, "report.pdf", decoded.SessionInfo.DocumentName)
	assert.Equal(t, 7, decoded.SessionInfo.TotalPages)
	assert.Equal(t, 3, decoded.SessionInfo.TotalBlocks)
	assert.Equal(t, 1, decoded.SessionInfo.CurrentBlock)

	del, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/sessions/"+id, nil))
	require.NoError(t, err)
	del.Body.Close()
	assert.Equal(t, http.StatusOK, del.StatusCode)

	missing, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/sessions/"+id, nil))
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}
