package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	apperrors "rendezvous/pkg/errors"
	"rendezvous/pkg/metrics"
)

// deadlineWriter serialises the handler's writes against the timeout response.
// Once the deadline has answered, the handler's writes are discarded.
type deadlineWriter struct {
	http.ResponseWriter
	mu      sync.Mutex
	expired bool
	started bool
}

func (dw *deadlineWriter) WriteHeader(code int) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.expired || dw.started {
		return
	}
	dw.started = true
	dw.ResponseWriter.WriteHeader(code)
}

func (dw *deadlineWriter) Write(b []byte) (int, error) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.expired {
		return 0, http.ErrHandlerTimeout
	}
	dw.started = true
	return dw.ResponseWriter.Write(b)
}

// expire answers with 504 unless the handler already started its response.
func (dw *deadlineWriter) expire() {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	dw.expired = true
	if dw.started {
		return
	}
	dw.started = true
	metrics.HTTPAborted.WithLabelValues("timeout").Inc()
	reject(dw.ResponseWriter, nil, apperrors.Timeout("Request timeout"))
}

// RequestTimeout bounds the request context. A non-positive timeout disables it.
// Panics in the handler goroutine are re-raised on the serving goroutine so
// Recovery still sees them.
func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			dw := &deadlineWriter{ResponseWriter: w}
			done := make(chan any, 1)
			go func() {
				defer func() { done <- recover() }()
				next.ServeHTTP(dw, r.WithContext(ctx))
			}()

			select {
			case p := <-done:
				if p != nil {
					panic(p)
				}
			case <-ctx.Done():
				dw.expire()
			}
		})
	}
}
