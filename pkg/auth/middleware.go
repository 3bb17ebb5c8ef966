package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/myflixhq/myflix/pkg/render"
)

// Externally visible rejection messages. Deliberately generic: the response
// never says which validation step failed.
const (
	msgUnauthorized = "invalid or missing bearer token"
	msgForbidden    = "you may only modify your own account"
	msgUnavailable  = "service temporarily unavailable"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header per RFC 6750.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrMissingToken
	}
	return parts[1], nil
}

// Authenticate returns middleware that validates the bearer token and
// attaches the resolved identity to the request context. Any token failure
// rejects with 401 before the wrapped handler runs; a store failure during
// subject resolution is a 503, not an auth failure.
func Authenticate(tokens *TokenService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := BearerToken(r)
			if err != nil {
				render.Error(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}

			identity, err := tokens.Validate(r.Context(), tokenString)
			if err != nil {
				if errors.Is(err, ErrStoreUnavailable) {
					render.Error(w, http.StatusServiceUnavailable, msgUnavailable)
					return
				}
				render.Error(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireSelf returns middleware enforcing the ownership rule: the
// authenticated identity's name must equal the URL parameter named by param.
// A valid token for user A never authorizes an operation on user B's record.
// Must be mounted inside Authenticate.
func RequireSelf(param string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				render.Error(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}

			if chi.URLParam(r, param) != identity.Name {
				render.Error(w, http.StatusForbidden, msgForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
