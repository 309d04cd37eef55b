package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"eventcheckout/internal/dto"
)

type TokenVerifier interface {
	Verify(tokenString string) (Identity, error)
}

// Middleware rejects requests without a valid bearer token and stores the
// verified identity in the request context.
func Middleware(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(tokenString) == "" {
				writeUnauthorized(w, "missing bearer token")
				return
			}

			identity, err := verifier.Verify(strings.TrimSpace(tokenString))
			if err != nil {
				logger.Warn("rejected bearer token", zap.String("path", r.URL.Path), zap.Error(err))
				writeUnauthorized(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Status:    http.StatusUnauthorized,
		Code:      "UNAUTHORIZED",
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}
