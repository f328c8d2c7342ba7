package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	apperrors "rendezvous/pkg/errors"
	"rendezvous/pkg/logger"
	"rendezvous/pkg/metrics"
)

// Recovery turns a handler panic into a 500. http.ErrAbortHandler is re-raised
// so net/http can abort the connection as intended.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if err, ok := p.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(p)
				}

				metrics.HTTPAborted.WithLabelValues("panic").Inc()
				log.Error("Handler panicked",
					"request_id", RequestID(r),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", p,
					"stack", string(debug.Stack()),
				)
				reject(w, log, apperrors.Internal("Handler panicked", nil))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
