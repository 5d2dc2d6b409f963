package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/gerakolix/cvforge/internal/httpserver/deps"
	"github.com/gerakolix/cvforge/internal/httpserver/handlers"
)

func init() { Register(registerDocuments) }

func registerDocuments(r chi.Router, d deps.Deps) {
	r.Get("/api/profile", handlers.GetProfile(d))
	r.Put("/api/profile", handlers.PutProfile(d))

	r.Get("/api/sections", handlers.GetSections(d))
	r.Put("/api/sections", handlers.PutSections(d))

	r.Get("/api/configs", handlers.ListConfigs(d))
	r.Post("/api/configs", handlers.CreateConfig(d))
	r.Put("/api/configs/{id}", handlers.UpdateConfig(d))
	r.Delete("/api/configs/{id}", handlers.DeleteConfig(d))
}
