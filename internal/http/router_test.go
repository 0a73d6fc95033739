package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"journal/internal/auth"
	"journal/internal/config"
	"journal/internal/habit"
	"journal/internal/insight"
	"journal/internal/logger"
	"journal/internal/mood"
)

func testRouter(t *testing.T) (http.Handler, *auth.JWT) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&mood.Record{}, &habit.Habit{}, &habit.Completion{}, &insight.Insight{}))

	jwtSvc := auth.NewJWT("test-secret")
	r := NewRouter(config.Config{}, gdb, jwtSvc, nil, logger.Nop())
	return r, jwtSvc
}

func TestHealth(t *testing.T) {
	r, _ := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := testRouter(t)

	for _, path := range []string{"/moods/today", "/habits/", "/insights/", "/entries/"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "path %s", path)
	}
}

func TestMoodUpsertRoundTrip(t *testing.T) {
	r, jwtSvc := testRouter(t)

	token, err := jwtSvc.Sign(1)
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]any{
		"category":  "good",
		"intensity": 7,
		"notes":     "sunny",
	})
	req := httptest.NewRequest(http.MethodPut, "/moods/", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/moods/today", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Category  string `json:"category"`
		Intensity int    `json:"intensity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "good", got.Category)
	assert.Equal(t, 7, got.Intensity)
}

func TestGenerateInsightWithoutDataRejected(t *testing.T) {
	r, jwtSvc := testRouter(t)

	token, err := jwtSvc.Sign(1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/insights/generate?period=week", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no mood data available for this period")
}
