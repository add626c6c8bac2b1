package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cartbridge/backend/internal/domain/shared"
	syncdom "github.com/cartbridge/backend/internal/domain/sync"
	"github.com/cartbridge/backend/internal/interfaces/http/dto"
	"github.com/cartbridge/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSyncService struct {
	result *syncdom.StepResult
	err    error
	count  int
	cursor syncdom.Cursor
}

func (f *fakeSyncService) Step(_ context.Context, cursor syncdom.Cursor) (*syncdom.StepResult, error) {
	f.cursor = cursor
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeSyncService) ProductCount(context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.count, nil
}

func newSyncTestRouter(svc SyncService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	router.NewRouter(engine).
		Register(NewSyncHandler(svc, nil)).
		Setup()
	return engine
}

func postStep(t *testing.T, engine *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/step", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestStepReturnsEnvelope(t *testing.T) {
	svc := &fakeSyncService{result: &syncdom.StepResult{
		State:             syncdom.StateVariationsInProgress,
		Message:           "Variations 0-19 of 60 done for product #101",
		Next:              syncdom.Cursor{ProductOffset: 0, VariationOffset: 20},
		HasMoreVariations: true,
		HasMoreProducts:   true,
	}}
	engine := newSyncTestRouter(svc)

	w := postStep(t, engine, `{"offset": 0, "variation_offset": 0}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    dto.StepResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.HasMoreVariations)
	assert.Equal(t, 20, resp.Data.VariationOffset)
	assert.Equal(t, 0, resp.Data.Offset)
	assert.True(t, resp.Data.HasMoreProducts)
	assert.Contains(t, resp.Data.Message, "product #101")
}

func TestStepPassesCursorThrough(t *testing.T) {
	svc := &fakeSyncService{result: &syncdom.StepResult{}}
	engine := newSyncTestRouter(svc)

	postStep(t, engine, `{"offset": 3, "variation_offset": 40}`)
	assert.Equal(t, syncdom.Cursor{ProductOffset: 3, VariationOffset: 40}, svc.cursor)
}

func TestStepEmptyBodyStartsFresh(t *testing.T) {
	svc := &fakeSyncService{result: &syncdom.StepResult{}}
	engine := newSyncTestRouter(svc)

	w := postStep(t, engine, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, syncdom.Cursor{}, svc.cursor)
}

func TestStepRejectsMalformedBody(t *testing.T) {
	engine := newSyncTestRouter(&fakeSyncService{result: &syncdom.StepResult{}})

	w := postStep(t, engine, `{"offset": "zero"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStepErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"config missing", shared.ErrConfigurationMissing, http.StatusServiceUnavailable, "CONFIG_MISSING"},
		{"source unavailable", shared.ErrSourceUnavailable, http.StatusBadGateway, "SOURCE_UNAVAILABLE"},
		{"step failed", shared.NewStepFailure("variation write failed"), http.StatusInternalServerError, "STEP_FAILED"},
		{"invalid cursor", shared.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newSyncTestRouter(&fakeSyncService{err: tt.err})

			w := postStep(t, engine, `{"offset": 0, "variation_offset": 0}`)
			require.Equal(t, tt.status, w.Code)

			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.err.Error(), resp.Error.Message,
				"the operator sees the failure text, not a generic message")
		})
	}
}

func TestStepWithoutConfiguredSource(t *testing.T) {
	engine := newSyncTestRouter(nil)

	w := postStep(t, engine, `{"offset": 0, "variation_offset": 0}`)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFIG_MISSING", resp.Error.Code)
}

func TestStatus(t *testing.T) {
	engine := newSyncTestRouter(&fakeSyncService{count: 42})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool               `json:"success"`
		Data    dto.StatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 42, resp.Data.ProductCount)
}

func TestStatusWithoutConfiguredSource(t *testing.T) {
	engine := newSyncTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
