package middlewares

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimit limits inbound requests per client IP to App.MaxRequests per
// second.
func (m *Middlewares) RateLimit() func(next http.Handler) http.Handler {
	return httprate.LimitByIP(m.InternalConfig.App.MaxRequests, time.Second)
}

// BodyLimit caps request bodies, multipart evidence uploads included.
func (m *Middlewares) BodyLimit(next http.Handler) http.Handler {
	limit := int64(m.InternalConfig.App.RequestBodyLimitInMegabyte) << 20
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limit > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}
		next.ServeHTTP(w, r)
	})
}
