package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gerakolix/cvforge/internal/assets"
	"github.com/gerakolix/cvforge/internal/domain"
	"github.com/gerakolix/cvforge/internal/latex"
	"github.com/gerakolix/cvforge/internal/logger"
	"github.com/gerakolix/cvforge/internal/store/file"
)

// fakeRunner simulates pdflatex without a TeX installation.
type fakeRunner struct {
	calls      int
	producePDF bool
	writeLog   string
	exitErr    error
}

func (f *fakeRunner) Run(_ context.Context, dir string) error {
	f.calls++
	if f.writeLog != "" {
		_ = os.WriteFile(filepath.Join(dir, "cv.log"), []byte(f.writeLog), 0o644)
	}
	if f.producePDF {
		_ = os.WriteFile(filepath.Join(dir, "cv.pdf"), []byte("%PDF-1.5 fake"), 0o644)
	}
	return f.exitErr
}

type testEnv struct {
	gen    *Generator
	store  *file.Store
	runner *fakeRunner
	cfgID  string
}

func newTestEnv(t *testing.T, runner *fakeRunner) *testEnv {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	store, err := file.New(filepath.Join(dir, "data"), filepath.Join(dir, "output"), nil, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, store.SaveProfile(ctx, domain.Profile{
		"name": "Jane Doe", "email": "j@x.com",
	}))
	require.NoError(t, store.SaveSections(ctx, domain.Sections{
		"experience": {
			LabelEn: "Experience",
			Type:    domain.SectionEntries,
			Items:   []domain.Entry{{"id": "e1", "titleEn": "Engineer", "datesEn": "2020-2022"}},
		},
	}))
	cfg, err := store.AddConfig(ctx, domain.Configuration{
		Name:           "Default",
		Language:       domain.LangEN,
		SectionOrder:   []string{"experience"},
		EnabledEntries: map[string][]string{"experience": {"e1"}},
	})
	require.NoError(t, err)

	assetStore, err := assets.New(filepath.Join(dir, "assets"))
	require.NoError(t, err)
	_, err = assetStore.Save("photo.png", strings.NewReader("png"))
	require.NoError(t, err)

	gen := New(store, assetStore, runner, nil, logger.Nop())
	return &testEnv{gen: gen, store: store, runner: runner, cfgID: cfg.ID}
}

func listWorkspaces(t *testing.T, outputDir string) []string {
	t.Helper()
	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	var dirs []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), WorkspacePrefix) {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs
}

func TestGenerateSuccess(t *testing.T) {
	env := newTestEnv(t, &fakeRunner{producePDF: true})
	ctx := context.Background()

	res, err := env.gen.Generate(ctx, env.cfgID, domain.JobMeta{
		Company: "Acme", Position: "Backend Engineer", Tags: []string{"go"},
	})
	require.NoError(t, err)

	require.Equal(t, 2, env.runner.calls, "compiler must run exactly twice")
	require.Contains(t, res.Filename, "CV_Jane_Doe_Acme_")
	require.Equal(t, strings.TrimSuffix(res.Filename, ".pdf")+".tex", res.TexFilename)

	// Artifacts are in the output store.
	require.FileExists(t, env.store.ArtifactPath(res.Filename))
	require.FileExists(t, env.store.ArtifactPath(res.TexFilename))

	// The placed TeX source is the assembled document.
	tex, err := os.ReadFile(env.store.ArtifactPath(res.TexFilename))
	require.NoError(t, err)
	require.Contains(t, string(tex), "Engineer")
	require.Contains(t, string(tex), "2020-2022")

	// Archive gained exactly one entry stamped with the template version.
	arch, err := env.store.Archive(ctx)
	require.NoError(t, err)
	require.Len(t, arch, 1)
	require.Equal(t, latex.TemplateVersion, arch[0].TemplateVersion)
	require.Equal(t, env.gen.TemplateVersion(), arch[0].TemplateVersion)
	require.Equal(t, "Acme", arch[0].Company)
	require.Equal(t, "Backend Engineer", arch[0].Position)
	require.False(t, arch[0].CreatedAt.IsZero())
	require.WithinDuration(t, time.Now(), arch[0].CreatedAt, time.Minute)

	// No scratch workspace left behind.
	require.Empty(t, listWorkspaces(t, env.store.OutputDir()))
}

func TestGenerateUnknownConfig(t *testing.T) {
	env := newTestEnv(t, &fakeRunner{producePDF: true})
	ctx := context.Background()

	_, err := env.gen.Generate(ctx, "config-missing", domain.JobMeta{})
	require.Error(t, err)

	var genErr *Error
	require.ErrorAs(t, err, &genErr)
	require.Equal(t, KindNotFound, genErr.Kind)

	// No side effects at all.
	require.Zero(t, env.runner.calls)
	arch, err := env.store.Archive(ctx)
	require.NoError(t, err)
	require.Empty(t, arch)
	artifacts, err := env.store.ListArtifacts()
	require.NoError(t, err)
	require.Empty(t, artifacts)
	require.Empty(t, listWorkspaces(t, env.store.OutputDir()))
}

func TestGenerateCompilationFailed(t *testing.T) {
	env := newTestEnv(t, &fakeRunner{
		producePDF: false,
		writeLog:   "! Undefined control sequence.\nl.42 \\bogus",
		exitErr:    errors.New("exit status 1"),
	})
	ctx := context.Background()

	_, err := env.gen.Generate(ctx, env.cfgID, domain.JobMeta{Company: "Acme"})
	require.Error(t, err)

	var genErr *Error
	require.ErrorAs(t, err, &genErr)
	require.Equal(t, KindCompilationFailed, genErr.Kind)
	require.Contains(t, genErr.Log, "Undefined control sequence")

	// Failed pass aborts before the second invocation, like the real
	// toolchain wrapper: pass two depends on pass one's aux files.
	require.Equal(t, 1, env.runner.calls)

	// Workspace cleaned up, nothing archived, nothing placed.
	require.Empty(t, listWorkspaces(t, env.store.OutputDir()))
	arch, err := env.store.Archive(ctx)
	require.NoError(t, err)
	require.Empty(t, arch)
	artifacts, err := env.store.ListArtifacts()
	require.NoError(t, err)
	require.Empty(t, artifacts)
}

func TestGenerateLogTailBounded(t *testing.T) {
	env := newTestEnv(t, &fakeRunner{
		producePDF: false,
		writeLog:   strings.Repeat("x", 5000) + "TAIL-MARKER",
	})

	_, err := env.gen.Generate(context.Background(), env.cfgID, domain.JobMeta{})
	var genErr *Error
	require.ErrorAs(t, err, &genErr)
	require.LessOrEqual(t, len(genErr.Log), 2000)
	require.True(t, strings.HasSuffix(genErr.Log, "TAIL-MARKER"))
}

func TestGenerateToleratesNonZeroExitWithArtifact(t *testing.T) {
	// pdflatex exits non-zero on cosmetic warnings while still writing a
	// valid PDF; only a missing artifact is fatal.
	env := newTestEnv(t, &fakeRunner{
		producePDF: true,
		exitErr:    errors.New("exit status 1"),
	})

	res, err := env.gen.Generate(context.Background(), env.cfgID, domain.JobMeta{Company: "Acme"})
	require.NoError(t, err)
	require.FileExists(t, env.store.ArtifactPath(res.Filename))
	require.Equal(t, 1, env.runner.calls, "second pass is skipped when the first errors")
}

func TestGenerateAssetsCopiedIntoWorkspace(t *testing.T) {
	runner := &fakeRunner{producePDF: true}
	env := newTestEnv(t, runner)

	// Swap in a runner that asserts the asset is present at compile time.
	checked := false
	env.gen.runner = runnerFunc(func(ctx context.Context, dir string) error {
		if _, err := os.Stat(filepath.Join(dir, "photo.png")); err == nil {
			checked = true
		}
		return runner.Run(ctx, dir)
	})

	_, err := env.gen.Generate(context.Background(), env.cfgID, domain.JobMeta{})
	require.NoError(t, err)
	require.True(t, checked, "assets must be flat-copied into the workspace before compiling")
}

type runnerFunc func(ctx context.Context, dir string) error

func (f runnerFunc) Run(ctx context.Context, dir string) error { return f(ctx, dir) }

func TestGenerateSameDayOverwrites(t *testing.T) {
	env := newTestEnv(t, &fakeRunner{producePDF: true})
	ctx := context.Background()

	first, err := env.gen.Generate(ctx, env.cfgID, domain.JobMeta{Company: "Acme"})
	require.NoError(t, err)
	second, err := env.gen.Generate(ctx, env.cfgID, domain.JobMeta{Company: "Acme"})
	require.NoError(t, err)

	require.Equal(t, first.Filename, second.Filename, "same inputs on the same day reuse the name")

	artifacts, err := env.store.ListArtifacts()
	require.NoError(t, err)
	require.Len(t, artifacts, 1, "the second run overwrites, not duplicates")

	arch, err := env.store.Archive(ctx)
	require.NoError(t, err)
	require.Len(t, arch, 2, "both runs are recorded in the archive")
}
