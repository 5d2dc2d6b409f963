package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gerakolix/cvforge/internal/domain"
	"github.com/gerakolix/cvforge/internal/httpserver/deps"
	"github.com/gerakolix/cvforge/internal/logger"
)

func ListArchive(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		archive, err := d.Store.Archive(r.Context())
		if err != nil {
			d.Logger.Error("failed to read archive", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read archive")
			return
		}
		if archive == nil {
			archive = []domain.ArchiveEntry{}
		}
		writeJSON(w, http.StatusOK, archive)
	}
}

// CreateArchiveEntry records a manually added ledger entry, e.g. a document
// produced outside the generator. The server owns the id and timestamp.
func CreateArchiveEntry(d deps.Deps) http.HandlerFunc {
	now := d.TimeNow
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var entry domain.ArchiveEntry
		if err := decodeJSON(r, &entry); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		entry.ID = "arch-" + uuid.NewString()
		entry.CreatedAt = now().UTC()
		if entry.Tags == nil {
			entry.Tags = []string{}
		}

		if err := d.Store.AppendArchive(r.Context(), entry); err != nil {
			d.Logger.Error("failed to append archive entry", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to append archive entry")
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

func UpdateArchiveEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var entry domain.ArchiveEntry
		if err := decodeJSON(r, &entry); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := d.Store.UpdateArchive(r.Context(), id, entry); err != nil {
			d.Logger.Error("failed to update archive entry",
				logger.String("entry_id", id), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to update archive entry")
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	}
}

// DeleteArchiveEntry removes a ledger entry together with the PDF and TeX
// artifacts it references.
func DeleteArchiveEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Store.DeleteArchive(r.Context(), id); err != nil {
			d.Logger.Error("failed to delete archive entry",
				logger.String("entry_id", id), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to delete archive entry")
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	}
}
