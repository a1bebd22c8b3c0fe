package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nochase/nochase/internal/breathing"
	"github.com/nochase/nochase/internal/db"
	"github.com/nochase/nochase/internal/model"
	"github.com/nochase/nochase/internal/repository"
	"github.com/nochase/nochase/internal/service"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.APIError {
	t.Helper()
	var body model.APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"auth", service.ErrAuthenticationRequired, http.StatusUnauthorized, model.CodeAuthenticationRequired},
		{"validation", fmt.Errorf("%w: title is required", service.ErrValidation), http.StatusBadRequest, model.CodeValidationFailed},
		{"missing goal", repository.ErrGoalNotFound, http.StatusNotFound, model.CodeNotFound},
		{"missing resource", service.ErrResourceNotFound, http.StatusNotFound, model.CodeNotFound},
		{"anything else", errors.New("disk on fire"), http.StatusInternalServerError, model.CodeStoreFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/api/goals", nil), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestStoreFailureHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/api/goals", nil), errors.New("pq: password authentication failed"))
	assert.NotContains(t, decodeError(t, rec).Message, "password")
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"valid", `{"title":"No texting","target_days":3}`, true},
		{"empty", ``, false},
		{"malformed", `{"title":`, false},
		{"unknown field", `{"title":"x","target_days":1,"user_id":"mallory"}`, false},
		{"two objects", `{"title":"x"} {"title":"y"}`, false},
		{"too large", `{"title":"` + strings.Repeat("a", maxBodyBytes) + `"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/goals", strings.NewReader(tt.body))
			var input model.NewGoal
			err := decodeJSON(httptest.NewRecorder(), req, &input)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, service.ErrValidation)
		})
	}
}

func TestCreateRequiresIdentity(t *testing.T) {
	h := NewGoalHandler(service.NewGoalService(nil))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/goals", strings.NewReader(`{"title":"x","target_days":1}`))
	h.Create(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBreathingCycle(t *testing.T) {
	h := NewBreathingHandler()

	rec := httptest.NewRecorder()
	h.Cycle(rec, httptest.NewRequest(http.MethodGet, "/api/breathing", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp breathingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Cycle, 4)
	assert.Equal(t, int64(12000), resp.CycleDurationMS)
	assert.Nil(t, resp.Step)

	rec = httptest.NewRecorder()
	h.Cycle(rec, httptest.NewRequest(http.MethodGet, "/api/breathing?elapsed_ms=4500", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	resp = breathingResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Step)
	assert.Equal(t, breathing.PhaseHold, resp.Step.Phase)

	rec = httptest.NewRecorder()
	h.Cycle(rec, httptest.NewRequest(http.MethodGet, "/api/breathing?elapsed_ms=-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.CodeValidationFailed, decodeError(t, rec).Code)
}

func TestBreathingMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	NewBreathingHandler().Messages(rec, httptest.NewRequest(http.MethodGet, "/api/breathing/messages", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var messages []breathing.Message
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&messages))
	assert.Equal(t, breathing.Messages(), messages)
}

func TestResources(t *testing.T) {
	fsys := fstest.MapFS{
		"why-we-chase.md": {Data: []byte("---\ntitle: Why We Chase\ncategory: understanding\norder: 1\n---\n\nBecause **fear**.\n")},
	}
	svc := service.NewResourceService(fsys)
	require.NoError(t, svc.LoadResources())

	mux := http.NewServeMux()
	h := NewResourceHandler(svc)
	mux.HandleFunc("GET /api/resources", h.List)
	mux.HandleFunc("GET /api/resources/{slug}", h.Show)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/resources", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Resource
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Content)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/resources/why-we-chase", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var one model.Resource
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&one))
	assert.Contains(t, one.Content, "<strong>fear</strong>")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/resources/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "health.db"))
	require.NoError(t, err)

	h := NewHealthHandler(database, nil)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	require.NoError(t, db.Close(database))

	rec = httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, httptest.NewRequest(http.MethodGet, "/wat", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, model.CodeNotFound, decodeError(t, rec).Code)
}
