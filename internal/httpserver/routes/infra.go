package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/gerakolix/cvforge/internal/httpserver/deps"
	"github.com/gerakolix/cvforge/internal/httpserver/handlers"
	"github.com/gerakolix/cvforge/internal/metrics"
)

func init() { Register(registerInfra) }

func registerInfra(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.Get("/readyz", handlers.Readyz(d))
	r.Get("/infra", handlers.Infra(d))
	r.Handle("/metrics", metrics.Handler())
}
