package middlewares

import (
	"fmt"
	"mime"
	"net/http"
)

// RequestSizeLimitMiddleware caps request bodies. Multipart uploads may use up to
// uploadMaxBytes, any other body is held to maxBytes.
func RequestSizeLimitMiddleware(maxBytes, uploadMaxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit := maxBytes
			if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mediaType == "multipart/form-data" {
				limit = uploadMaxBytes
			}

			if r.ContentLength > limit {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				fmt.Fprintf(w, `{"error":"request body too large","details":"limit is %d bytes"}`, limit)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
