package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/rs/zerolog"
)

// Credential is one accepted user/password pair.
type Credential struct {
	User string
	Pass string
}

// BasicAuth gates requests with HTTP basic auth. With no configured users it
// passes everything through (dev setups run without auth) and warns once.
func BasicAuth(users []Credential, logger zerolog.Logger) func(http.Handler) http.Handler {
	if len(users) == 0 {
		logger.Warn().Msg("no users configured, basic auth disabled")
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, p, ok := r.BasicAuth()
			if ok {
				for _, c := range users {
					userOK := subtle.ConstantTimeCompare([]byte(u), []byte(c.User)) == 1
					passOK := subtle.ConstantTimeCompare([]byte(p), []byte(c.Pass)) == 1
					if userOK && passOK {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			w.Header().Set("WWW-Authenticate", `Basic realm="tenancy", charset="UTF-8"`)
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		})
	}
}
