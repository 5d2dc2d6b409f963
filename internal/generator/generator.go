// Package generator orchestrates one CV generation: load the persisted
// documents, assemble the LaTeX source, compile it in a throwaway
// workspace, place the artifacts, and record the run in the archive.
package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gerakolix/cvforge/internal/assets"
	"github.com/gerakolix/cvforge/internal/domain"
	"github.com/gerakolix/cvforge/internal/latex"
	"github.com/gerakolix/cvforge/internal/logger"
	"github.com/gerakolix/cvforge/internal/metrics"
	"github.com/gerakolix/cvforge/internal/store/cache"
	"github.com/gerakolix/cvforge/internal/store/file"
)

// logTailLimit bounds the compiler log excerpt attached to failures.
const logTailLimit = 2000

// WorkspacePrefix names scratch dirs inside the output store. The
// workspace garbage collector keys off the same prefix.
const WorkspacePrefix = "tmp-"

// Result describes one successful generation.
type Result struct {
	Filename     string              `json:"filename"`
	TexFilename  string              `json:"texFilename"`
	ArchiveEntry domain.ArchiveEntry `json:"archiveEntry"`
}

type Generator struct {
	store  *file.Store
	assets *assets.Store
	runner Runner
	cache  *cache.Cache
	log    logger.Logger
	now    func() time.Time
}

func New(store *file.Store, assetStore *assets.Store, runner Runner, c *cache.Cache, log logger.Logger) *Generator {
	return &Generator{
		store:  store,
		assets: assetStore,
		runner: runner,
		cache:  c,
		log:    log,
		now:    time.Now,
	}
}

// TemplateVersion returns the opaque version stamp recorded with every
// generated artifact.
func (g *Generator) TemplateVersion() string { return latex.TemplateVersion }

// Generate runs the full pipeline for one configuration. Failures are
// always a *Error with one of the three kinds; the scratch workspace is
// removed on every path, and the archive is only ever appended after all
// file operations succeed.
func (g *Generator) Generate(ctx context.Context, configID string, meta domain.JobMeta) (*Result, error) {
	metrics.GenerationsTotal.Inc()
	res, err := g.generate(ctx, configID, meta)
	if err != nil {
		kind := KindIOFailure
		if genErr, ok := err.(*Error); ok {
			kind = genErr.Kind
		}
		metrics.GenerationsFailed.WithLabelValues(string(kind)).Inc()
	}
	return res, err
}

func (g *Generator) generate(ctx context.Context, configID string, meta domain.JobMeta) (*Result, error) {
	profile, err := g.store.Profile(ctx)
	if err != nil {
		return nil, ioFailure("load profile", err)
	}
	sections, err := g.store.Sections(ctx)
	if err != nil {
		return nil, ioFailure("load sections", err)
	}
	cfg, ok, err := g.store.ConfigByID(ctx, configID)
	if err != nil {
		return nil, ioFailure("load configurations", err)
	}
	if !ok {
		return nil, notFound(fmt.Sprintf("configuration %s not found", configID))
	}

	source := latex.Assemble(profile, sections, cfg)

	workspace := filepath.Join(g.store.OutputDir(), WorkspacePrefix+uuid.NewString())
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return nil, ioFailure("create workspace", err)
	}
	// The workspace goes away on success and on every failure path.
	defer func() {
		if err := os.RemoveAll(workspace); err != nil {
			g.log.Warn("failed to remove scratch workspace",
				logger.String("workspace", workspace), logger.Error(err))
		}
	}()

	if err := os.WriteFile(filepath.Join(workspace, sourceFile), []byte(source), 0o644); err != nil {
		return nil, ioFailure("write tex source", err)
	}
	if err := g.assets.CopyAll(workspace); err != nil {
		return nil, ioFailure("copy assets", err)
	}

	// Two sequential passes so cross-references resolve; the second only
	// runs when the first completed. Exit status is advisory, see Runner.
	compileStart := g.now()
	passErr := g.runner.Run(ctx, workspace)
	if passErr == nil {
		passErr = g.runner.Run(ctx, workspace)
	}
	metrics.CompileDuration.Observe(g.now().Sub(compileStart).Seconds())

	artifact := filepath.Join(workspace, artifactFile)
	if _, err := os.Stat(artifact); err != nil {
		tail := readLogTail(filepath.Join(workspace, logFile))
		g.log.Error("compiler produced no artifact",
			logger.String("config_id", configID), logger.Error(passErr))
		return nil, compilationFailed(tail, passErr)
	}
	if passErr != nil {
		g.log.Debug("compiler exited non-zero but produced the artifact",
			logger.String("config_id", configID), logger.Error(passErr))
	}

	filename := deriveFilename(profile["name"], meta.Company, cfg.Name, g.now())
	texFilename := strings.TrimSuffix(filename, ".pdf") + ".tex"

	if err := copyInto(artifact, g.store.ArtifactPath(filename)); err != nil {
		return nil, ioFailure("place artifact", err)
	}
	if err := copyInto(filepath.Join(workspace, sourceFile), g.store.ArtifactPath(texFilename)); err != nil {
		return nil, ioFailure("place tex source", err)
	}

	lang := cfg.Language
	if lang == "" {
		lang = domain.LangEN
	}
	entry := domain.ArchiveEntry{
		ID:              "arch-" + uuid.NewString(),
		ConfigID:        configID,
		ConfigName:      cfg.Name,
		Filename:        filename,
		TexFilename:     texFilename,
		Company:         meta.Company,
		Position:        meta.Position,
		Notes:           meta.Notes,
		Tags:            meta.Tags,
		Language:        lang,
		TemplateVersion: latex.TemplateVersion,
		CreatedAt:       g.now().UTC(),
	}
	if entry.Tags == nil {
		entry.Tags = []string{}
	}
	if err := g.store.AppendArchive(ctx, entry); err != nil {
		return nil, ioFailure("append archive", err)
	}

	if n, err := g.cache.IncrementGenerations(ctx); err != nil {
		g.log.Debug("generation counter unavailable", logger.Error(err))
	} else if n > 0 {
		g.log.Debug("lifetime generations", logger.Int("count", int(n)))
	}

	g.log.Info("generated CV",
		logger.String("config_id", configID),
		logger.String("filename", filename),
		logger.String("company", meta.Company))

	return &Result{Filename: filename, TexFilename: texFilename, ArchiveEntry: entry}, nil
}

// readLogTail returns the last logTailLimit bytes of the compiler log,
// empty when the log does not exist.
func readLogTail(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	if len(data) > logTailLimit {
		data = data[len(data)-logTailLimit:]
	}
	return string(data)
}

func copyInto(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
