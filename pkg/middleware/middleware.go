package middleware

import (
	"net/http"
	"slices"
)

// System manages an ordered stack of HTTP middleware. Middleware added
// first wraps outermost, so it observes the request before anything added
// after it.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type stack struct {
	chain []func(http.Handler) http.Handler
}

// New creates a middleware System seeded with the given middleware in
// application order.
func New(mws ...func(http.Handler) http.Handler) System {
	return &stack{
		chain: slices.Clone(mws),
	}
}

func (s *stack) Use(fn func(http.Handler) http.Handler) {
	s.chain = append(s.chain, fn)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for _, fn := range slices.Backward(s.chain) {
		handler = fn(handler)
	}
	return handler
}
