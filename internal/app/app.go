package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/gerakolix/cvforge/internal/assets"
	"github.com/gerakolix/cvforge/internal/config"
	"github.com/gerakolix/cvforge/internal/generator"
	"github.com/gerakolix/cvforge/internal/httpserver"
	"github.com/gerakolix/cvforge/internal/httpserver/deps"
	"github.com/gerakolix/cvforge/internal/logger"
	"github.com/gerakolix/cvforge/internal/redis"
	"github.com/gerakolix/cvforge/internal/scheduler"
	"github.com/gerakolix/cvforge/internal/store/cache"
	"github.com/gerakolix/cvforge/internal/store/file"
	"github.com/gerakolix/cvforge/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	gc          *scheduler.WorkspaceGC
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Redis is optional: an empty address leaves the cache nil.
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:         cfg.RedisAddr,
		User:         cfg.RedisUser,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  cfg.RedisDT,
		ReadTimeout:  cfg.RedisRT,
		WriteTimeout: cfg.RedisWT,
		PoolSize:     cfg.RedisPoolSize,
		PingTimeout:  cfg.RedisPingTO,
		ConnectWait:  cfg.RedisConnectTO,
	}, loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	var docCache *cache.Cache
	if redisClient != nil {
		docCache = cache.New(redisClient, cfg.RedisCacheTTL)
		loggerClient.Info("redis document cache enabled",
			logger.String("addr", cfg.RedisAddr))
	}

	store, err := file.New(cfg.DataDir, cfg.OutputDir, docCache, loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize document store: %w", err)
	}

	assetStore, err := assets.New(cfg.AssetsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize asset store: %w", err)
	}

	runner := &generator.PDFLatex{
		Cmd:     cfg.CompilerCmd,
		Timeout: cfg.CompilerTimeout,
	}
	gen := generator.New(store, assetStore, runner, docCache, loggerClient)

	// Sweep scratch workspaces left behind by crashed generation runs.
	gc := scheduler.NewWorkspaceGC(
		store.OutputDir(),
		loggerClient,
		cfg.GCInterval,
		cfg.GCThreshold,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		TimeNow:           time.Now,
		TrustProxy:        cfg.TrustProxy,
		Store:             store,
		Assets:            assetStore,
		Generator:         gen,
		RedisClient:       redisClient,
		CompilerCmd:       cfg.CompilerCmd,
		GenerateBurst:     cfg.GenerateBurst,
		GenerateRefillMin: cfg.GenerateRefillMin,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		gc:          gc,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting cvforge v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("cvforge %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start workspace garbage collector
	if err := a.gc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start workspace garbage collector: %w", err)
	}
	a.logger.Info("workspace garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ cvforge stopped cleanly")
	return nil
}
