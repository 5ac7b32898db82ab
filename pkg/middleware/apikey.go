package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/shashiranjanraj/fastfood-api/pkg/logger"
	"github.com/shashiranjanraj/fastfood-api/pkg/response"
)

// APIKeyHeader is the header carrying the admin shared secret.
const APIKeyHeader = "X-API-KEY"

// APIKey gates a route behind a shared secret. A missing key and a wrong
// key produce the same 401, so a caller cannot probe whether a key exists.
func APIKey(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(APIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				logger.WithCtx(r.Context()).Warn("api key rejected",
					"method", r.Method,
					"path", r.URL.Path,
					"ip", r.RemoteAddr,
				)
				response.Unauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
