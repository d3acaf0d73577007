// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/examiner/internal/config"
	"github.com/JaimeStill/examiner/internal/infrastructure"
	"github.com/JaimeStill/examiner/pkg/middleware"
	"github.com/JaimeStill/examiner/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// The returned Domain is constructed but not started; register it with the
// lifecycle coordinator once infrastructure systems are up.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, *Domain, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, domain, nil
}
