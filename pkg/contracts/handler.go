package contracts

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Handler mounts its routes on a shared router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Middleware func(http.Handler) http.Handler

// Chain wraps h so that the first middleware listed is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Router registers every handler on a new httprouter.Router.
func Router(handlers ...Handler) *httprouter.Router {
	router := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}
	return router
}
