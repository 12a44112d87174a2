package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_generatesWhenMissing(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := RequestIDFromContext(r.Context())
		require.True(t, ok)
		seen = id
	})
	rr := httptest.NewRecorder()

	RequestID(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://test/healthz", nil))

	_, err := uuid.Parse(seen)
	assert.NoError(t, err, "generated request ID should be a UUID")
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
}

func TestRequestID_honorsClientHeader(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = RequestIDFromContext(r.Context())
	})
	req := httptest.NewRequest(http.MethodGet, "http://test/healthz", nil)
	req.Header.Set(RequestIDHeader, "client-supplied")
	rr := httptest.NewRecorder()

	RequestID(next).ServeHTTP(rr, req)

	assert.Equal(t, "client-supplied", seen)
	assert.Equal(t, "client-supplied", rr.Header().Get(RequestIDHeader))
}
