package middleware

import (
	"context"
	"net/http"

	apperrors "rendezvous/pkg/errors"
	apphttp "rendezvous/pkg/http"
	"rendezvous/pkg/logger"
)

func reject(w http.ResponseWriter, log *logger.Logger, err *apperrors.AppError) {
	if werr := apphttp.WriteError(w, err); werr != nil && log != nil {
		log.Error("failed to write error response", "error", werr)
	}
}

// RequestID returns the id assigned by RequestLogging, or "".
func RequestID(r *http.Request) string {
	return RequestIDFromContext(r.Context())
}

// RequestIDFromContext survives context.WithoutCancel, so background work
// started by a request can still be correlated with it.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
