package middleware

import (
	"encoding/json"
	"net/http"

	"canteen-be/internal/auth"
	"canteen-be/internal/logger"

	"go.uber.org/zap"
)

// AuthMiddleware is optional auth: requests without a token pass through
// anonymously, requests with a bad token are refused.
func AuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, tokenStr)
			if err != nil {
				logger.FromCtx(r.Context()).Warn("rejected token",
					zap.String("layer", "middleware"),
					zap.Error(err),
				)
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := auth.WithClaims(r.Context(), claims)
			ctx = logger.WithRequester(ctx, claims.UserID, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": 1, "error": msg})
}
