package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nochase/nochase/internal/ctxkeys"
	"github.com/nochase/nochase/internal/model"
	"github.com/nochase/nochase/internal/service"
)

// AuthMiddleware verifies the bearer token, if any, and adds the identity
// to the context. Requests without a valid token continue anonymously;
// RequireAuth decides whether that is allowed.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := authService.Authenticate(r.Context(), token)
			if err != nil {
				slog.Debug("token rejected", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that carry no verified identity.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Identity(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, model.CodeAuthenticationRequired, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// APIKey requires the X-API-Key header on /api/ routes when key is set.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/") && r.Method != http.MethodOptions {
				got := r.Header.Get("X-API-Key")
				if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
					writeError(w, http.StatusUnauthorized, model.CodeAuthenticationRequired, "invalid api key")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
