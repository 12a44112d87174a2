package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"rsvphub/internal/delivery/http/helpers"
	"rsvphub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenVerifier implements domain.TokenVerifier for tests.
type fakeTokenVerifier struct {
	claims domain.TokenClaims
	err    error
}

func (f *fakeTokenVerifier) Verify(_ string) (domain.TokenClaims, error) {
	return f.claims, f.err
}

func TestRequireAuth_acceptsValidToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	verifier := &fakeTokenVerifier{claims: domain.TokenClaims{UserID: "user-123", Email: "owner@example.com"}}
	wrap := RequireAuth(verifier, logger)

	var gotPrincipal Principal
	handler := wrap(func(w http.ResponseWriter, r *http.Request) {
		gotPrincipal, _ = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "http://test/events/me", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rr := httptest.NewRecorder()
	handler(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-123", gotPrincipal.UserID)
	assert.Equal(t, "owner@example.com", gotPrincipal.Email)
}

func TestRequireAuth_rejections(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		authHeader string
		verifyErr  error
		wantMsg    string
	}{
		{name: "no header", wantMsg: "missing authorization header"},
		{name: "basic auth scheme", authHeader: "Basic dXNlcjpwdw", wantMsg: "invalid authorization format"},
		{name: "lowercase bearer", authHeader: "bearer some-token", wantMsg: "invalid authorization format"},
		{name: "bearer with no token", authHeader: "Bearer ", wantMsg: "missing token"},
		{name: "rejected by verifier", authHeader: "Bearer expired", verifyErr: errors.New("token is expired"), wantMsg: "invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &fakeTokenVerifier{claims: domain.TokenClaims{UserID: "user-123"}, err: tt.verifyErr}
			wrap := RequireAuth(verifier, logger)
			handler := wrap(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("next handler must not run")
			})

			req := httptest.NewRequest(http.MethodGet, "http://test/events/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()
			handler(rr, req)

			require.Equal(t, http.StatusUnauthorized, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.NotNil(t, envelope.Error)
			assert.Equal(t, helpers.ErrCodeUnauthorized, envelope.Error.Code)
			assert.Equal(t, tt.wantMsg, envelope.Error.Message)
		})
	}
}
