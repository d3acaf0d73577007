package module

import (
	"net/http"
	"strings"
)

// Router dispatches requests to mounted modules by path prefix,
// falling back to a native ServeMux for unmatched paths.
type Router struct {
	modules map[string]*Module
	native  *http.ServeMux
}

// NewRouter creates a Router with an empty module map and native fallback mux.
func NewRouter() *Router {
	return &Router{
		modules: make(map[string]*Module),
		native:  http.NewServeMux(),
	}
}

// HandleNative registers a handler on the native fallback mux.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

// Mount registers modules to handle requests matching their prefixes.
func (r *Router) Mount(mods ...*Module) {
	for _, m := range mods {
		r.modules[m.prefix] = m
	}
}

// ServeHTTP dispatches to the matching module or falls back to the native mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := normalizePath(req)

	if m, ok := r.modules[extractPrefix(path)]; ok {
		m.Serve(w, req)
		return
	}

	r.native.ServeHTTP(w, req)
}

// extractPrefix returns the first path segment with its leading slash,
// the key modules are mounted under.
func extractPrefix(path string) string {
	head, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return "/" + head
}

// normalizePath strips a single trailing slash so "/api/" and "/api"
// dispatch identically, rewriting the request path in place.
func normalizePath(req *http.Request) string {
	path := req.URL.Path
	if len(path) > 1 {
		if trimmed := strings.TrimSuffix(path, "/"); trimmed != path {
			req.URL.Path = trimmed
			return trimmed
		}
	}
	return path
}
