package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/ciclone-ptc/ciclone/internal/common"
	"github.com/ciclone-ptc/ciclone/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// corsMiddleware adds permissive CORS headers, matching the original
// deployment where the frontend is served from another origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+common.AuthorizationHeaderName)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authMiddleware requires a valid Bearer access token and stores the
// account id in the request context.
func (s *HTTPServer) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "token ausente")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" {
			writeError(w, http.StatusUnauthorized, "token ausente")
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "token invalido")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userIDFromContext returns the authenticated account id, zero when absent.
func userIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}
