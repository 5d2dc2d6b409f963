package handlers

import (
	"net/http"

	"github.com/gerakolix/cvforge/internal/httpserver/deps"
)

type templateVersionResponse struct {
	Version string `json:"version"`
}

func TemplateVersion(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, templateVersionResponse{
			Version: d.Generator.TemplateVersion(),
		})
	}
}
