package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"rsvphub/internal/delivery/http/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthController_Health(t *testing.T) {
	healthy := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		db         Pinger
		cache      Pinger
		wantStatus int
		wantErrMsg string
	}{
		{name: "all dependencies up", db: healthy, cache: healthy, wantStatus: http.StatusOK},
		{name: "database down", db: down, cache: healthy, wantStatus: http.StatusServiceUnavailable, wantErrMsg: "database unavailable"},
		{name: "cache down", db: healthy, cache: down, wantStatus: http.StatusServiceUnavailable, wantErrMsg: "cache unavailable"},
		{name: "nil pingers are skipped", db: nil, cache: nil, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := NewHealthController(testLogger, tt.db, tt.cache)

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()
			controller.Health(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)

			var resp helpers.APIResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			if tt.wantErrMsg != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantErrMsg, resp.Error.Message)
			} else {
				assert.Nil(t, resp.Error)
			}
		})
	}
}
