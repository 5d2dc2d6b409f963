package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gerakolix/cvforge/internal/assets"
	"github.com/gerakolix/cvforge/internal/generator"
	"github.com/gerakolix/cvforge/internal/logger"
	"github.com/gerakolix/cvforge/internal/store/file"
)

type Deps struct {
	Logger      logger.Logger
	StartTime   time.Time
	Version     string
	Commit      string
	BuildDate   string
	GoVersion   string
	TimeNow     func() time.Time // for testing, defaults to time.Now
	TrustProxy  bool             // true if running behind a trusted reverse proxy
	Store       *file.Store      // JSON document + artifact store
	Assets      *assets.Store    // uploaded photos and logos
	Generator   *generator.Generator
	RedisClient *redis.Client // nil when the document cache is disabled
	CompilerCmd string        // LaTeX compiler binary, for the infra report

	// Rate limiting for the generate endpoint.
	GenerateBurst     int
	GenerateRefillMin int
}
