package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gerakolix/cvforge/internal/httpserver/deps"
	"github.com/gerakolix/cvforge/internal/httpserver/handlers"
	"github.com/gerakolix/cvforge/internal/httpserver/mw"
)

func init() { Register(registerGenerate) }

func registerGenerate(r chi.Router, d deps.Deps) {
	// Each generation run spawns two external compiler processes, so this
	// endpoint is the one worth rate limiting.
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.GenerateBurst,
		RefillPerIPPerMin: d.GenerateRefillMin,
		MaxEntries:        1024,
		SweepInterval:     time.Minute,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
	})

	r.With(limit).Post("/api/generate", handlers.Generate(d))
}
