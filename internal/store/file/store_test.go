package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gerakolix/cvforge/internal/domain"
	"github.com/gerakolix/cvforge/internal/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "data"), filepath.Join(dir, "output"), nil, logger.Nop())
	require.NoError(t, err)
	return s
}

func TestNewSeedsEmptyDocuments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.Profile(ctx)
	require.NoError(t, err)
	require.Empty(t, p)

	secs, err := s.Sections(ctx)
	require.NoError(t, err)
	require.Empty(t, secs)

	cfgs, err := s.Configs(ctx)
	require.NoError(t, err)
	require.Empty(t, cfgs)

	arch, err := s.Archive(ctx)
	require.NoError(t, err)
	require.Empty(t, arch)
}

func TestProfileRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := domain.Profile{"name": "Jane Doe", "email": "j@x.com", "titleDe": "Ingenieurin"}
	require.NoError(t, s.SaveProfile(ctx, p))

	got, err := s.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestSectionsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	secs := domain.Sections{
		"experience": {
			LabelEn: "Experience",
			Type:    domain.SectionEntries,
			Items:   []domain.Entry{{"id": "e1", "titleEn": "Engineer"}},
		},
	}
	require.NoError(t, s.SaveSections(ctx, secs))

	got, err := s.Sections(ctx)
	require.NoError(t, err)
	require.Equal(t, secs, got)
}

func TestAddConfigMintsID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	added, err := s.AddConfig(ctx, domain.Configuration{Name: "Backend roles", Language: domain.LangEN})
	require.NoError(t, err)
	require.Contains(t, added.ID, "config-")

	found, ok, err := s.ConfigByID(ctx, added.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Backend roles", found.Name)

	_, ok, err = s.ConfigByID(ctx, "config-nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUpdateConfigKeepsPathID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	added, err := s.AddConfig(ctx, domain.Configuration{Name: "v1"})
	require.NoError(t, err)

	update := domain.Configuration{ID: "spoofed", Name: "v2", Language: domain.LangDE}
	require.NoError(t, s.UpdateConfig(ctx, added.ID, update))

	got, ok, err := s.ConfigByID(ctx, added.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v2", got.Name)
	require.Equal(t, added.ID, got.ID)
}

func TestDeleteConfig(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.AddConfig(ctx, domain.Configuration{Name: "keep"})
	require.NoError(t, err)
	b, err := s.AddConfig(ctx, domain.Configuration{Name: "drop"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteConfig(ctx, b.ID))

	cfgs, err := s.Configs(ctx)
	require.NoError(t, err)
	require.Len(t, cfgs, 1)
	require.Equal(t, a.ID, cfgs[0].ID)
}

func TestDeleteArchiveCascadesArtifacts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pdf := s.ArtifactPath("CV_Jane_Acme_2026-08-29.pdf")
	tex := s.ArtifactPath("CV_Jane_Acme_2026-08-29.tex")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF"), 0o644))
	require.NoError(t, os.WriteFile(tex, []byte("\\documentclass"), 0o644))

	entry := domain.ArchiveEntry{
		ID:          "arch-1",
		Filename:    "CV_Jane_Acme_2026-08-29.pdf",
		TexFilename: "CV_Jane_Acme_2026-08-29.tex",
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, s.AppendArchive(ctx, entry))
	require.NoError(t, s.DeleteArchive(ctx, "arch-1"))

	arch, err := s.Archive(ctx)
	require.NoError(t, err)
	require.Empty(t, arch)
	require.NoFileExists(t, pdf)
	require.NoFileExists(t, tex)
}

func TestDeleteArchiveToleratesMissingArtifacts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendArchive(ctx, domain.ArchiveEntry{
		ID:       "arch-2",
		Filename: "never-written.pdf",
	}))
	require.NoError(t, s.DeleteArchive(ctx, "arch-2"))

	arch, err := s.Archive(ctx)
	require.NoError(t, err)
	require.Empty(t, arch)
}

func TestListArtifactsFiltersPDFs(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, os.WriteFile(s.ArtifactPath("a.pdf"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(s.ArtifactPath("a.tex"), []byte("x"), 0o644))

	names, err := s.ListArtifacts()
	require.NoError(t, err)
	require.Equal(t, []string{"a.pdf"}, names)
}

func TestArtifactPathStripsTraversal(t *testing.T) {
	s := newTestStore(t)
	got := s.ArtifactPath("../../etc/passwd")
	require.Equal(t, filepath.Join(s.OutputDir(), "passwd"), got)
}
