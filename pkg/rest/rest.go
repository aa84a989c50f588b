package rest

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

// Config is used to provide dependencies and configuration to the New function.
type Config struct {
	Logger logrus.FieldLogger
}

func New(cfg Config) (engine Engine, err error) {

	// assign a logger or fail
	if cfg.Logger == nil {
		return engine, errors.New("logger is required")
	}
	engine.baseLogger = cfg.Logger

	engine.router = httprouter.New()

	// disables redirections such as `/foo/` to `/foo`
	engine.router.RedirectTrailingSlash = false

	// disables attempts to fix common path issues, i.e. `/FoO` redirecting to `/foo`
	engine.router.RedirectFixedPath = false

	return engine, nil
}

// Engine contains the muxer, logger and middleware.
type Engine struct {
	router *httprouter.Router

	// a middleware queue; invocation order follows insertion order
	middleware []func(http.Handler) http.Handler

	// baseLogger serves non-request contexts, such as background tasks
	baseLogger logrus.FieldLogger
}

// Handler returns the router with all the APIs registered so far.
func (e *Engine) Handler() http.Handler {
	return e.router
}

// Handle registers the path and method to the given handler, after wrapping it
// in the globally and locally defined middleware.
func (e *Engine) Handle(method string, path string, handler http.Handler, middleware ...func(http.Handler) http.Handler) {

	// first apply the engine's globally defined middleware
	for _, mw := range e.middleware {
		handler = mw(handler)
	}

	// then apply the per-route specific middleware
	for _, mw := range middleware {
		handler = mw(handler)
	}

	e.router.Handler(method, path, handler)
}

// Use specifies one or multiple new handlers that will be evaluated for every
// registered route, such as loggers; it must precede route registration.
func (e *Engine) Use(mw ...func(http.Handler) http.Handler) {
	e.middleware = append(e.middleware, mw...)
}

// Get defines a new GET method handler for the specified path.
// The variadic arguments can include middleware exclusively evaluated for the path.
func (e *Engine) Get(path string, handlerFunc http.HandlerFunc, middleware ...func(http.Handler) http.Handler) {
	e.Handle(http.MethodGet, path, handlerFunc, middleware...)
}

func (e *Engine) Post(path string, handlerFunc http.HandlerFunc, middleware ...func(http.Handler) http.Handler) {
	e.Handle(http.MethodPost, path, handlerFunc, middleware...)
}

func (e *Engine) Put(path string, handlerFunc http.HandlerFunc, middleware ...func(http.Handler) http.Handler) {
	e.Handle(http.MethodPut, path, handlerFunc, middleware...)
}

func (e *Engine) Delete(path string, handlerFunc http.HandlerFunc, middleware ...func(http.Handler) http.Handler) {
	e.Handle(http.MethodDelete, path, handlerFunc, middleware...)
}

// GetParam extracts a named route parameter from the request.
func GetParam(request *http.Request, name string) string {
	return httprouter.ParamsFromContext(request.Context()).ByName(name)
}
