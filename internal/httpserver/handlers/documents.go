package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gerakolix/cvforge/internal/domain"
	"github.com/gerakolix/cvforge/internal/httpserver/deps"
	"github.com/gerakolix/cvforge/internal/logger"
)

func GetProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := d.Store.Profile(r.Context())
		if err != nil {
			d.Logger.Error("failed to read profile", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read profile")
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func PutProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var profile domain.Profile
		if err := decodeJSON(r, &profile); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := d.Store.SaveProfile(r.Context(), profile); err != nil {
			d.Logger.Error("failed to save profile", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to save profile")
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	}
}

func GetSections(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sections, err := d.Store.Sections(r.Context())
		if err != nil {
			d.Logger.Error("failed to read sections", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read sections")
			return
		}
		writeJSON(w, http.StatusOK, sections)
	}
}

func PutSections(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sections domain.Sections
		if err := decodeJSON(r, &sections); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := d.Store.SaveSections(r.Context(), sections); err != nil {
			d.Logger.Error("failed to save sections", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to save sections")
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	}
}

func ListConfigs(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		configs, err := d.Store.Configs(r.Context())
		if err != nil {
			d.Logger.Error("failed to read configurations", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read configurations")
			return
		}
		if configs == nil {
			configs = []domain.Configuration{}
		}
		writeJSON(w, http.StatusOK, configs)
	}
}

func CreateConfig(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg domain.Configuration
		if err := decodeJSON(r, &cfg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		created, err := d.Store.AddConfig(r.Context(), cfg)
		if err != nil {
			d.Logger.Error("failed to create configuration", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to create configuration")
			return
		}
		writeJSON(w, http.StatusOK, created)
	}
}

func UpdateConfig(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var cfg domain.Configuration
		if err := decodeJSON(r, &cfg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := d.Store.UpdateConfig(r.Context(), id, cfg); err != nil {
			d.Logger.Error("failed to update configuration",
				logger.String("config_id", id), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to update configuration")
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	}
}

func DeleteConfig(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Store.DeleteConfig(r.Context(), id); err != nil {
			d.Logger.Error("failed to delete configuration",
				logger.String("config_id", id), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to delete configuration")
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	}
}
