package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gerakolix/cvforge/internal/assets"
	"github.com/gerakolix/cvforge/internal/httpserver/deps"
	"github.com/gerakolix/cvforge/internal/logger"
)

func ListPDFs(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := d.Store.ListArtifacts()
		if err != nil {
			d.Logger.Error("failed to list artifacts", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list PDFs")
			return
		}
		if files == nil {
			files = []string{}
		}
		writeJSON(w, http.StatusOK, files)
	}
}

func ServePDF(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "filename")
		path := d.Store.ArtifactPath(name)
		if _, err := os.Stat(path); err != nil {
			writeError(w, http.StatusNotFound, "PDF not found")
			return
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			w.Header().Set("Content-Type", "application/pdf")
		}
		http.ServeFile(w, r, path)
	}
}

type uploadResponse struct {
	OK       bool   `json:"ok"`
	Filename string `json:"filename"`
	Tip      string `json:"tip,omitempty"`
}

// logoTip mirrors the sizing guidance shown by the editor UI.
const logoTip = "For best results, use a logo with ~3.3:1 width:height ratio " +
	"(e.g., 330x100px). Supported: PDF, PNG, JPG, SVG."

// UploadPhoto stores the portrait asset and points the profile at it, so
// the next generation run picks it up without a separate profile edit.
func UploadPhoto(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := saveUpload(w, r, d, "photo")
		if !ok {
			return
		}

		profile, err := d.Store.Profile(r.Context())
		if err != nil {
			d.Logger.Error("failed to read profile", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to update profile")
			return
		}
		profile["photo"] = name
		if err := d.Store.SaveProfile(r.Context(), profile); err != nil {
			d.Logger.Error("failed to save profile", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to update profile")
			return
		}

		writeJSON(w, http.StatusOK, uploadResponse{OK: true, Filename: name})
	}
}

func UploadLogo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := saveUpload(w, r, d, "logo")
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, uploadResponse{OK: true, Filename: name, Tip: logoTip})
	}
}

// saveUpload reads one multipart file field into the asset store. It writes
// the error response itself and reports whether the upload succeeded.
func saveUpload(w http.ResponseWriter, r *http.Request, d deps.Deps, field string) (string, bool) {
	if err := r.ParseMultipartForm(assets.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return "", false
	}
	f, header, err := r.FormFile(field)
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return "", false
	}
	defer func() { _ = f.Close() }()

	name, err := d.Assets.Save(header.Filename, f)
	if err != nil {
		d.Logger.Warn("rejected upload",
			logger.String("filename", header.Filename), logger.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return name, true
}
