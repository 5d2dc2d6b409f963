package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/gerakolix/cvforge/internal/httpserver/deps"
	"github.com/gerakolix/cvforge/internal/httpserver/handlers"
)

func init() { Register(registerArtifacts) }

func registerArtifacts(r chi.Router, d deps.Deps) {
	r.Get("/api/pdfs", handlers.ListPDFs(d))
	r.Get("/api/pdfs/{filename}", handlers.ServePDF(d))

	r.Post("/api/upload-photo", handlers.UploadPhoto(d))
	r.Post("/api/upload-logo", handlers.UploadLogo(d))

	r.Get("/api/template-version", handlers.TemplateVersion(d))
}
