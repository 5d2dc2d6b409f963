package handlers

import (
	"errors"
	"net/http"

	"github.com/gerakolix/cvforge/internal/domain"
	"github.com/gerakolix/cvforge/internal/generator"
	"github.com/gerakolix/cvforge/internal/httpserver/deps"
	"github.com/gerakolix/cvforge/internal/logger"
)

type generateRequest struct {
	ConfigID string   `json:"configId"`
	Company  string   `json:"company"`
	Position string   `json:"position"`
	Notes    string   `json:"notes"`
	Tags     []string `json:"tags"`
}

type generateResponse struct {
	OK           bool                `json:"ok"`
	Filename     string              `json:"filename"`
	TexFilename  string              `json:"texFilename"`
	ArchiveEntry domain.ArchiveEntry `json:"archiveEntry"`
}

func Generate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		res, err := d.Generator.Generate(r.Context(), req.ConfigID, domain.JobMeta{
			Company:  req.Company,
			Position: req.Position,
			Notes:    req.Notes,
			Tags:     req.Tags,
		})
		if err != nil {
			var genErr *generator.Error
			if errors.As(err, &genErr) {
				switch genErr.Kind {
				case generator.KindNotFound:
					writeError(w, http.StatusNotFound, "Configuration not found")
					return
				case generator.KindCompilationFailed:
					writeJSON(w, http.StatusInternalServerError, errorResponse{
						Error: "LaTeX compilation failed",
						Log:   genErr.Log,
					})
					return
				}
			}
			d.Logger.Error("generation failed",
				logger.String("config_id", req.ConfigID), logger.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, generateResponse{
			OK:           true,
			Filename:     res.Filename,
			TexFilename:  res.TexFilename,
			ArchiveEntry: res.ArchiveEntry,
		})
	}
}
