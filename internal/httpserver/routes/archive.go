package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/gerakolix/cvforge/internal/httpserver/deps"
	"github.com/gerakolix/cvforge/internal/httpserver/handlers"
)

func init() { Register(registerArchive) }

func registerArchive(r chi.Router, d deps.Deps) {
	r.Get("/api/archive", handlers.ListArchive(d))
	r.Post("/api/archive", handlers.CreateArchiveEntry(d))
	r.Put("/api/archive/{id}", handlers.UpdateArchiveEntry(d))
	r.Delete("/api/archive/{id}", handlers.DeleteArchiveEntry(d))
}
