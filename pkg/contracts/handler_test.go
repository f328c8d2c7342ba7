package contracts

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
)

type pingRoute struct{}

func (pingRoute) RegisterRoutes(r *httprouter.Router) {
	r.GET("/ping", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		_, _ = w.Write([]byte("pong"))
	})
}

func tag(name string, trail *[]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*trail = append(*trail, name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestChain_FirstMiddlewareIsOutermost(t *testing.T) {
	var trail []string
	h := Chain(Router(pingRoute{}), tag("recovery", &trail), tag("logging", &trail), tag("cors", &trail))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if rec.Body.String() != "pong" {
		t.Fatalf("expected pong, got %q", rec.Body.String())
	}
	if got := strings.Join(trail, ","); got != "recovery,logging,cors" {
		t.Errorf("unexpected middleware order %q", got)
	}
}

func TestChain_NoMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	Chain(Router(pingRoute{})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
