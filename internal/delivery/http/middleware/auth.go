package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "rsvphub/internal/delivery/http/helpers"
	"rsvphub/internal/domain"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the organizer resolved from a verified token. Email is the
// address the account signed up with, carried as a token claim so handlers
// can reach it without a user lookup.
type Principal struct {
	UserID string
	Email  string
}

// SetPrincipal returns a context carrying the authenticated organizer.
func SetPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// SetUserID is a shorthand for callers that only know the organizer's ID.
func SetUserID(ctx context.Context, userID string) context.Context {
	return SetPrincipal(ctx, Principal{UserID: userID})
}

// PrincipalFromContext returns the authenticated organizer, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// UserIDFromContext returns the authenticated organizer's user ID.
func UserIDFromContext(ctx context.Context) (string, bool) {
	p, ok := PrincipalFromContext(ctx)
	return p.UserID, ok && p.UserID != ""
}

// RequireAuth gates the organizer routes. It verifies the Bearer token,
// stores the organizer's ID and email claim in the request context, and
// rejects everything else with 401. Event pages and public RSVP submission
// are registered without this wrapper.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			scheme, token, _ := strings.Cut(header, " ")
			if scheme != "Bearer" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token = strings.TrimSpace(token)
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			claims, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			principal := Principal{UserID: claims.UserID, Email: claims.Email}
			next(w, r.WithContext(SetPrincipal(r.Context(), principal)))
		}
	}
}
