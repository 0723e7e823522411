package middlewares

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"rebelbot/internal/services"
	"rebelbot/internal/utils"
)

// AuthMiddleware rejects requests without a verifiable bearer token and stores
// the token subject on the request context.
func AuthMiddleware(verifier services.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimSpace(header[len("Bearer "):])
			if tokenString == "" {
				utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(r.Context(), tokenString)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected bearer token")
				utils.SendJSONError(w, "Invalid authentication", http.StatusUnauthorized)
				return
			}

			ctx := utils.WithUserID(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
