package middleware

import (
	"crypto/subtle"
	"net/http"
)

// SecretTokenHeader carries the shared secret of the upstream message source.
const SecretTokenHeader = "X-Gate-Secret-Token"

// SecretToken rejects requests whose SecretTokenHeader does not match token.
// An empty token disables the check.
func SecretToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		want := []byte(token)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(SecretTokenHeader))
			if subtle.ConstantTimeCompare(got, want) != 1 {
				writeJSONError(w, http.StatusUnauthorized, "invalid secret token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
