package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenPort      string        // ex: ":3001"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	DataDir   string // directory holding profile.json, sections.json, configs.json, archive.json
	AssetsDir string // uploaded photos and logos
	OutputDir string // generated PDFs and their TeX sources

	CompilerCmd     string        // LaTeX compiler binary (ex: "pdflatex")
	CompilerTimeout time.Duration // wall-clock timeout per compiler pass

	GCInterval  time.Duration // how often stale scratch workspaces are swept
	GCThreshold time.Duration // scratch dirs older than this are crash leftovers

	// Redis document cache (optional: empty addr disables caching entirely)
	RedisAddr      string
	RedisUser      string
	RedisPassword  string
	RedisDB        int
	RedisDT        time.Duration // dial timeout
	RedisRT        time.Duration // read timeout
	RedisWT        time.Duration // write timeout
	RedisPingTO    time.Duration // timeout for the startup ping
	RedisCacheTTL  time.Duration // TTL for cached documents
	RedisPoolSize  int
	RedisConnectTO time.Duration // total time to retry connecting

	// Rate limiting for the generate endpoint (pdflatex is expensive)
	GenerateBurst     int
	GenerateRefillMin int // tokens refilled per minute

	TrustProxy bool // resolve client IP from proxy headers
}

// Load builds the configuration from, in increasing precedence: an optional
// YAML config file, an optional .env file, and real environment variables.
func Load() *Config {
	// .env first so the YAML overlay can't shadow explicit env entries.
	_ = godotenv.Load()

	if file := getenv("CVFORGE_CONFIG_FILE", "cvforge.yaml"); file != "" {
		if err := overlayYAML(file); err != nil {
			panic(fmt.Sprintf("❌ FATAL: cannot read config file %s: %v", file, err))
		}
	}

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("CVFORGE_LISTEN_PORT", ":3001"),
		ShutdownTimeout: mustDuration("CVFORGE_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("CVFORGE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("CVFORGE_PRETTY_LOG", true),

		// Storage layout
		DataDir:   getenv("CVFORGE_DATA_DIR", "data"),
		AssetsDir: getenv("CVFORGE_ASSETS_DIR", "assets"),
		OutputDir: getenv("CVFORGE_OUTPUT_DIR", "output"),

		// LaTeX toolchain
		CompilerCmd:     getenv("CVFORGE_COMPILER", "pdflatex"),
		CompilerTimeout: mustDuration("CVFORGE_COMPILER_TIMEOUT", 30*time.Second),

		// Scratch workspace sweeping
		GCInterval:  mustDuration("CVFORGE_GC_INTERVAL", 6*time.Hour),
		GCThreshold: mustDuration("CVFORGE_GC_THRESHOLD", time.Hour),

		// Redis settings (optional)
		RedisAddr:      getenv("CVFORGE_REDIS_ADDR", ""),
		RedisUser:      getenv("CVFORGE_REDIS_USERNAME", "default"),
		RedisPassword:  getenv("CVFORGE_REDIS_PASSWORD", ""),
		RedisDB:        getenvInt("CVFORGE_REDIS_DB", 0),
		RedisDT:        mustDuration("CVFORGE_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:        mustDuration("CVFORGE_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:        mustDuration("CVFORGE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPingTO:    mustDuration("CVFORGE_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisCacheTTL:  mustDuration("CVFORGE_REDIS_CACHE_TTL", time.Hour),
		RedisPoolSize:  getenvInt("CVFORGE_REDIS_POOL_SIZE", 10),
		RedisConnectTO: mustDuration("CVFORGE_REDIS_CONNECT_TIMEOUT", 30*time.Second),

		// Generate endpoint throttle
		GenerateBurst:     getenvInt("CVFORGE_GENERATE_BURST", 3),
		GenerateRefillMin: getenvInt("CVFORGE_GENERATE_REFILL_PER_MIN", 6),

		TrustProxy: mustBool("CVFORGE_TRUST_PROXY", false),
	}

	return cfg
}

// overlayYAML reads a flat YAML file of env-style keys and applies every
// entry that is not already set in the environment, so real env vars and
// .env entries always win over the file.
func overlayYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // the file is optional
		}
		return err
	}

	var entries map[string]string
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	for key, val := range entries {
		if _, exists := os.LookupEnv(key); !exists {
			if err := os.Setenv(key, val); err != nil {
				return err
			}
		}
	}
	return nil
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
