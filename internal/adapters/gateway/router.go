package gateway

import (
	"context"
	"net/http"

	"github.com/taskboard/api/internal/infrastructure/config"
	"github.com/taskboard/api/internal/infrastructure/logger"
)

type route struct {
	Path   string
	Method string
}

// Router maps (path, method) pairs to handlers and injects the fixed CORS
// header set into every response, error responses included, so that failures
// stay consumable cross-origin.
type Router struct {
	routes map[route]HandlerFunc
	cors   config.CORSConfig
	logger *logger.Logger
}

// NewRouter builds the static route table
func NewRouter(tasks *TaskHandler, users *UserHandler, cors config.CORSConfig, log *logger.Logger) *Router {
	r := &Router{
		routes: map[route]HandlerFunc{},
		cors:   cors,
		logger: log.WithComponent("router"),
	}

	r.register("/tasks", http.MethodGet, tasks.List)
	r.register("/tasks", http.MethodPost, tasks.Create)
	r.register("/tasks", http.MethodPut, tasks.Update)
	r.register("/tasks", http.MethodDelete, tasks.Delete)
	r.register("/users", http.MethodGet, users.List)
	r.register("/users", http.MethodPost, users.Create)
	r.register("/users", http.MethodPut, users.Update)
	r.register("/users", http.MethodDelete, users.Delete)
	r.register("/users/login", http.MethodPost, users.Login)

	return r
}

func (r *Router) register(path, method string, handler HandlerFunc) {
	r.routes[route{Path: path, Method: method}] = handler
}

// Dispatch routes a request to its handler. CORS preflight short-circuits
// before any handler logic; unmatched routes answer with a fixed 400.
func (r *Router) Dispatch(ctx context.Context, req Request) Response {
	if req.HTTPMethod == http.MethodOptions {
		return Response{
			StatusCode: http.StatusOK,
			Headers:    r.corsHeaders(),
		}
	}

	handler, ok := r.routes[route{Path: req.Resource, Method: req.HTTPMethod}]
	if !ok {
		r.logger.Warnw("Unmatched route", "resource", req.Resource, "method", req.HTTPMethod)
		return r.withCORS(messageResponse(http.StatusBadRequest, "Route or method not valid"))
	}

	return r.withCORS(handler(ctx, req))
}

func (r *Router) withCORS(resp Response) Response {
	if resp.Headers == nil {
		resp.Headers = map[string]string{}
	}
	for name, value := range r.corsHeaders() {
		resp.Headers[name] = value
	}
	return resp
}

func (r *Router) corsHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":      r.cors.AllowedOrigin,
		"Access-Control-Allow-Methods":     "GET, POST, PUT, DELETE, OPTIONS",
		"Access-Control-Allow-Headers":     "Content-Type, Authorization, Cookie",
		"Access-Control-Allow-Credentials": "true",
	}
}
