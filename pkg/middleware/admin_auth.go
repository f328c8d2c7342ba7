package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "rendezvous/pkg/errors"
	"rendezvous/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

const AdminTokenHeader = "X-Admin-Token"

type AdminTokenChecker interface {
	IsValidAdminToken(ctx context.Context, token string) bool
}

// RequireAdmin rejects requests that do not present the current admin token in
// the X-Admin-Token header, a bearer Authorization header, or a :token route param.
func RequireAdmin(checker AdminTokenChecker, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			token := presentedToken(r, ps)
			if token == "" {
				reject(w, log, apperrors.Unauthorized("Admin token required"))
				return
			}
			if !checker.IsValidAdminToken(r.Context(), token) {
				log.Warn("Rejected admin request",
					"request_id", RequestID(r),
					"path", r.URL.Path,
					"client", ClientIP(r),
				)
				reject(w, log, apperrors.Unauthorized("Invalid admin token"))
				return
			}
			next(w, r, ps)
		}
	}
}

func presentedToken(r *http.Request, ps httprouter.Params) string {
	if token := strings.TrimSpace(r.Header.Get(AdminTokenHeader)); token != "" {
		return token
	}
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return ps.ByName("token")
}
