package api

import (
	"net/http"

	"github.com/JaimeStill/examiner/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	cfg := runtime.Config

	routes.Register(
		mux,
		domain.Reports.Handler(cfg.Results.MaxListLimit).Routes(),
		domain.Runs.Handler(cfg.Runs.MaxListLimit).Routes(),
		domain.Trigger.Handler().Routes(),
		newDocumentsHandler(
			runtime.Storage,
			runtime.Logger,
			cfg.Storage.MaxListSize,
		).routes(),
	)
}
