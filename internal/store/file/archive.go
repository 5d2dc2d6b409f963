package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gerakolix/cvforge/internal/domain"
	"github.com/gerakolix/cvforge/internal/logger"
)

// Archive returns all recorded generations, oldest first (append order).
func (s *Store) Archive(ctx context.Context) ([]domain.ArchiveEntry, error) {
	var entries []domain.ArchiveEntry
	if err := s.readDoc(ctx, DocArchive, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AppendArchive records one completed generation. It is the generation
// pipeline's final step: everything else must already have succeeded.
func (s *Store) AppendArchive(ctx context.Context, entry domain.ArchiveEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.Archive(ctx)
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	return s.writeDoc(ctx, DocArchive, entries)
}

// UpdateArchive replaces an entry's metadata wholesale, keeping its id.
func (s *Store) UpdateArchive(ctx context.Context, id string, entry domain.ArchiveEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.Archive(ctx)
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].ID == id {
			entry.ID = id
			entries[i] = entry
		}
	}
	return s.writeDoc(ctx, DocArchive, entries)
}

// DeleteArchive removes an entry and cascades to its artifacts: the PDF and
// the TeX source are deleted from the output store if present. Missing
// files are fine; the ledger entry goes away regardless.
func (s *Store) DeleteArchive(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.Archive(ctx)
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
			continue
		}
		for _, name := range []string{e.Filename, e.TexFilename} {
			if name == "" {
				continue
			}
			path := filepath.Join(s.outputDir, filepath.Base(name))
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				s.log.Warn("failed to delete archived artifact",
					logger.String("file", name), logger.Error(err))
			}
		}
	}
	return s.writeDoc(ctx, DocArchive, kept)
}

// ── Output store ────────────────────────────────────────────────────────

// ListArtifacts returns the PDF filenames currently in the output store.
func (s *Store) ListArtifacts() ([]string, error) {
	dirEntries, err := os.ReadDir(s.outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read output dir: %w", err)
	}
	var names []string
	for _, e := range dirEntries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".pdf") {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// ArtifactPath resolves an artifact filename inside the output store,
// stripping any path components so callers cannot escape the directory.
func (s *Store) ArtifactPath(name string) string {
	return filepath.Join(s.outputDir, filepath.Base(name))
}
