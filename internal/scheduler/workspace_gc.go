package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gerakolix/cvforge/internal/generator"
	"github.com/gerakolix/cvforge/internal/logger"
)

const (
	// DefaultGCThreshold is the age after which an orphaned compile
	// workspace is considered abandoned and removed.
	DefaultGCThreshold = 1 * time.Hour
)

// WorkspaceGC removes stale compile workspaces left behind by crashed or
// interrupted generation runs. A healthy run cleans up after itself, so
// anything matching the workspace prefix that is older than the threshold
// is an orphan.
type WorkspaceGC struct {
	outputDir string
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	stopCh    chan struct{}
}

// NewWorkspaceGC creates a new workspace garbage collector
func NewWorkspaceGC(
	outputDir string,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *WorkspaceGC {
	if threshold == 0 {
		threshold = DefaultGCThreshold
	}

	return &WorkspaceGC{
		outputDir: outputDir,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic garbage collection process
func (gc *WorkspaceGC) Start(ctx context.Context) error {
	// Run immediately on start
	if err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial workspace collection failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := gc.Collect(ctx); err != nil {
					gc.logger.Error("workspace collection failed",
						logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the garbage collector
func (gc *WorkspaceGC) Stop() {
	close(gc.stopCh)
}

// Collect removes workspaces older than the threshold
func (gc *WorkspaceGC) Collect(_ context.Context) error {
	entries, err := os.ReadDir(gc.outputDir)
	if err != nil {
		return err
	}

	now := time.Now()
	deletedCount := 0

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), generator.WorkspacePrefix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		age := now.Sub(info.ModTime())
		if age < gc.threshold {
			continue
		}

		path := filepath.Join(gc.outputDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			gc.logger.Warn("failed to remove stale workspace",
				logger.String("workspace", entry.Name()),
				logger.Error(err))
			continue
		}

		gc.logger.Info("garbage collected stale workspace",
			logger.String("workspace", entry.Name()),
			logger.String("age", age.String()))

		deletedCount++
	}

	if deletedCount > 0 {
		gc.logger.Info("workspace collection completed",
			logger.Int("deleted", deletedCount))
	} else {
		gc.logger.Debug("no stale workspaces to collect")
	}

	return nil
}
