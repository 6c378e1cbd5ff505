package middleware

import (
	"net/http"
	"strings"

	"github.com/tutorgate/tutorgate/internal/auth"
	"github.com/tutorgate/tutorgate/internal/types"
)

// SharedSecret guards routes with the deployment's shared secret.
// A nil verifier allows all requests (localhost-first design).
func SharedSecret(verifier *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			// Check Authorization header: "Bearer <secret>"
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				types.WriteError(w, http.StatusUnauthorized, types.ErrAuthentication("missing bearer token"))
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if !verifier.Verify(token) {
				types.WriteError(w, http.StatusUnauthorized, types.ErrAuthentication("invalid token"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
