package schemasvc

import (
	"log/slog"
	"net/http"
)

// HandlerConfig configures the HTTP handler of a Service.
type HandlerConfig struct {
	middlewares []func(http.Handler) http.Handler
	logger      *slog.Logger
}

// Clone copies c; handlers built from the copy keep their middleware chain
// when options are appended to c later.
func (c HandlerConfig) Clone() HandlerConfig {
	ret := HandlerConfig{logger: c.logger}
	ret.middlewares = append(ret.middlewares, c.middlewares...)
	return ret
}

// Middlewares returns the middlewares wrapped around every route, the
// first one outermost.
func (c HandlerConfig) Middlewares() []func(http.Handler) http.Handler {
	return c.middlewares
}

type ServiceOption func(*HandlerConfig)

// WithMiddlewares appends middlewares applied to every route.
func WithMiddlewares(mws ...func(http.Handler) http.Handler) ServiceOption {
	return func(c *HandlerConfig) {
		c.middlewares = append(c.middlewares, mws...)
	}
}

// WithLogger sets the logger for requests and compile failures.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(c *HandlerConfig) {
		c.logger = l
	}
}
