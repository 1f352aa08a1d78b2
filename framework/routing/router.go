// Package routing is the HTTP routing collaborator of the application
// runtime. The lifecycle orchestrator only depends on its narrow
// RegisterController surface; everything about paths and methods lives here.
package routing

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Route is one declared binding of a controller method.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Controller is implemented by resolved controller instances. Routes returns
// the bindings for the instance's bound methods — the Go stand-in for Nest's
// @Get()/@Post() method decorators.
type Controller interface {
	Routes() []Route
}

// Router wraps chi.Router with the framework's controller registration.
type Router struct {
	mux chi.Router
}

// New creates a Router with sane defaults (Recoverer, RealIP).
func New() *Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	return &Router{mux: r}
}

// RegisterController binds every declared route of a resolved controller
// instance and returns the number of routes registered. Instances that do not
// implement Controller register zero routes — the orchestrator treats that as
// a controller with no bindings, not an error.
func (r *Router) RegisterController(instance any) (int, error) {
	ctrl, ok := instance.(Controller)
	if !ok {
		return 0, nil
	}
	routes := ctrl.Routes()
	for _, route := range routes {
		if route.Pattern == "" || route.Handler == nil {
			return 0, fmt.Errorf("routing: controller %T declares an incomplete route %q %q",
				instance, route.Method, route.Pattern)
		}
		method := route.Method
		if method == "" {
			method = http.MethodGet
		}
		r.mux.Method(method, route.Pattern, route.Handler)
	}
	return len(routes), nil
}

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func (r *Router) Get(pattern string, h http.HandlerFunc)    { r.mux.Get(pattern, h) }
func (r *Router) Post(pattern string, h http.HandlerFunc)   { r.mux.Post(pattern, h) }
func (r *Router) Put(pattern string, h http.HandlerFunc)    { r.mux.Put(pattern, h) }
func (r *Router) Delete(pattern string, h http.HandlerFunc) { r.mux.Delete(pattern, h) }

// Prefix creates a sub-router with a URL prefix.
func (r *Router) Prefix(pattern string, fn func(r *Router)) {
	r.mux.Route(pattern, func(mx chi.Router) {
		fn(&Router{mux: mx})
	})
}

// Middleware adds one or more middleware to the router.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// Param extracts a URL param from a request.
func Param(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// ServeHTTP implements http.Handler so the Router can back the application's
// HTTP server directly.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
