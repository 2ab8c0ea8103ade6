package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lovelottery/internal/catalog"
	"lovelottery/internal/models"
	"lovelottery/internal/services"
	"lovelottery/internal/storage"
)

type brokenStore struct {
	*storage.FileStore
}

func (brokenStore) Write(context.Context, *models.DrawState) error {
	return errors.New("read-only file system")
}

var testPublic = fstest.MapFS{
	"index.html":       {Data: []byte("<h1>lottery</h1>")},
	"admin.html":       {Data: []byte("<h1>admin</h1>")},
	"assets/script.js": {Data: []byte("console.log('hi')")},
}

func newTestRouter(t *testing.T, store storage.StateStore) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat, err := catalog.Default()
	require.NoError(t, err)
	if store == nil {
		store = storage.NewFileStore(filepath.Join(t.TempDir(), "data.json"))
	}
	svc := services.NewLotteryService(store, cat, services.NewRandomSource())
	return NewRouter(svc, testPublic, []string{"*"})
}

func do(t *testing.T, h http.Handler, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestStatus_FreshInstall(t *testing.T) {
	h := newTestRouter(t, nil)

	rec, body := do(t, h, http.MethodGet, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), body["drawnCount"])
	assert.Equal(t, float64(5), body["totalDraws"])
	assert.Equal(t, false, body["allDrawsUsed"])
}

func TestDrawUntilExhausted(t *testing.T) {
	h := newTestRouter(t, nil)

	prizes := 0
	for i := 0; i < 5; i++ {
		rec, body := do(t, h, http.MethodPost, "/api/draw")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"])
		assert.NotEmpty(t, body["result"])
		assert.NotEmpty(t, body["message"])
		if body["type"] == "prize" {
			prizes++
		}
	}
	assert.Equal(t, 3, prizes)

	rec, body := do(t, h, http.MethodPost, "/api/draw")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "poem", body["type"])

	_, status := do(t, h, http.MethodGet, "/api/status")
	assert.Equal(t, float64(5), status["drawnCount"])
	assert.Equal(t, true, status["allDrawsUsed"])
}

func TestReset(t *testing.T) {
	h := newTestRouter(t, nil)
	do(t, h, http.MethodPost, "/api/draw")

	rec, body := do(t, h, http.MethodPost, "/api/reset")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "抽奖状态已重置", body["message"])

	_, status := do(t, h, http.MethodGet, "/api/status")
	assert.Equal(t, float64(0), status["drawnCount"])
}

func TestWriteFailureReturns500(t *testing.T) {
	store := brokenStore{storage.NewFileStore(filepath.Join(t.TempDir(), "data.json"))}
	h := newTestRouter(t, store)

	rec, body := do(t, h, http.MethodPost, "/api/reset")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "重置失败", body["message"])

	rec, body = do(t, h, http.MethodPost, "/api/draw")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestAdminInfo(t *testing.T) {
	h := newTestRouter(t, nil)

	rec, body := do(t, h, http.MethodGet, "/api/admin/info")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), body["currentDrawIndex"])
	assert.Equal(t, float64(5), body["totalDraws"])
	assert.Len(t, body["drawSequence"], 5)
	assert.Len(t, body["prizes"], 3)
	assert.Equal(t, false, body["allDrawsUsed"])
}

func TestPagesAndAssets(t *testing.T) {
	h := newTestRouter(t, nil)

	rec, _ := do(t, h, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lottery")

	rec, _ = do(t, h, http.MethodGet, "/admin.html")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin")

	rec, _ = do(t, h, http.MethodGet, "/assets/script.js")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/healthz")
	assert.Equal(t, "OK", rec.Body.String())
}

func TestMiddleware(t *testing.T) {
	h := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get(headerRequestID))
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec, _ = do(t, h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `lottery_http_requests_total{method="GET",route="/api/status",status="200"} 1`)
}
