package middleware

import (
	"mime"
	"net/http"

	"github.com/shashiranjanraj/fastfood-api/pkg/response"
)

// RequireJSON rejects requests whose Content-Type is not application/json
// with a 415. Mount it on mutating routes that consume a JSON body.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			response.UnsupportedMediaType(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}
