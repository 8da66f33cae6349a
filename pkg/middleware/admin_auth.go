package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"castlehire/pkg/logger"
)

type sessionKey string

const SessionKey sessionKey = "admin_session"

// Session is the validated admin identity returned by the external
// session service. OAuth wiring lives entirely behind that service.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// SessionValidator is implemented by the sessions collaborator client.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*Session, error)
}

// RequireAdmin wraps a single route so only requests carrying a valid
// admin session token reach it. Unlike the router-wide middleware this
// is applied per route, since most of the bookings API is public.
func RequireAdmin(sessions SessionValidator, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			token := extractBearerToken(r)
			if token == "" {
				rejectUnauthorized(w, log, r, "Missing session token")
				return
			}

			session, err := sessions.Validate(r.Context(), token)
			if err != nil {
				rejectUnauthorized(w, log, r, "Session validation failed")
				return
			}
			if session.Role != "admin" {
				rejectUnauthorized(w, log, r, "Session is not an admin session")
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			next(w, r.WithContext(ctx), ps)
		}
	}
}

// SessionFromContext returns the validated admin session, if any.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(SessionKey).(*Session)
	return session, ok
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

func rejectUnauthorized(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	requestID := ""
	if rid := r.Context().Value(RequestIDKey); rid != nil {
		if id, ok := rid.(string); ok {
			requestID = id
		}
	}

	log.Warn("Admin authentication failed",
		"request_id", requestID,
		"reason", reason,
		"path", r.URL.Path,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}
