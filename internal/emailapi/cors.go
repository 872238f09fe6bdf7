package emailapi

import (
	"net/http"
	"strings"
)

const (
	corsAllowOrigin  = "*"
	corsAllowMethods = "POST, OPTIONS, GET"
)

// CORS sets the cross-origin headers on every response and answers OPTIONS
// on any path with 204. extraHeaders are appended to Content-Type in
// Access-Control-Allow-Headers.
func CORS(extraHeaders ...string) func(http.Handler) http.Handler {
	allowHeaders := strings.Join(append([]string{"Content-Type"}, extraHeaders...), ", ")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", corsAllowOrigin)
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
