package handlers

import (
	"context"
	"net/http"
	"os/exec"
	"time"

	"github.com/gerakolix/cvforge/internal/httpserver/deps"
)

type componentStatus struct {
	OK            bool   `json:"ok"`
	ArchivedDocs  *int   `json:"archived_docs,omitempty"`
	LastGenerated string `json:"last_generated,omitempty"`
	Mode          string `json:"mode,omitempty"`
	Impact        string `json:"impact,omitempty"`
	Error         string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"store":    checkStore(r.Context(), d),
			"compiler": checkCompiler(d),
			"cache":    checkRedis(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	// The store and the compiler are the two hard requirements.
	if s, exists := components["store"]; exists && !s.OK {
		return "critical"
	}
	if c, exists := components["compiler"]; exists && !c.OK {
		return "critical"
	}

	// The cache only speeds up document reads.
	if c, exists := components["cache"]; exists && !c.OK {
		return "degraded"
	}

	return "optimal"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	archive, err := d.Store.Archive(ctx)
	if err != nil {
		return componentStatus{
			OK:     false,
			Impact: "documents-unreadable",
			Error:  err.Error(),
		}
	}

	count := len(archive)
	lastGenerated := "never"
	for _, entry := range archive {
		if !entry.CreatedAt.IsZero() {
			lastGenerated = entry.CreatedAt.Format("2006-01-02 15:04:05")
		}
	}

	return componentStatus{
		OK:            true,
		ArchivedDocs:  &count,
		LastGenerated: lastGenerated,
	}
}

func checkCompiler(d deps.Deps) componentStatus {
	if _, err := exec.LookPath(d.CompilerCmd); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   d.CompilerCmd,
			Impact: "generation-disabled",
			Error:  "compiler not found in PATH",
		}
	}
	return componentStatus{
		OK:   true,
		Mode: d.CompilerCmd,
	}
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		// The cache is opt-in; absence is a configuration, not a failure.
		return componentStatus{
			OK:     true,
			Mode:   "disabled",
			Impact: "document-cache-disabled",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "document-cache-unavailable",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "document-cache-enabled",
	}
}
