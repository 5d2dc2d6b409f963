// Package file persists the four top-level JSON documents (profile,
// sections, configs, archive) the way the surrounding tooling expects:
// whole-document reads and whole-document atomic writes, no patch
// semantics. Concurrent writers to the same document race at
// "last full write wins" granularity; that is the accepted model.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/gerakolix/cvforge/internal/domain"
	"github.com/gerakolix/cvforge/internal/logger"
	"github.com/gerakolix/cvforge/internal/store/cache"
)

// Document file names inside the data directory.
const (
	DocProfile  = "profile.json"
	DocSections = "sections.json"
	DocConfigs  = "configs.json"
	DocArchive  = "archive.json"
)

type Store struct {
	dataDir   string
	outputDir string
	cache     *cache.Cache
	log       logger.Logger

	// Serializes read-modify-write cycles (config/archive list updates)
	// within this process.
	mu sync.Mutex
}

// New creates the store, ensuring the data and output directories exist and
// seeding any missing document with its empty value.
func New(dataDir, outputDir string, c *cache.Cache, log logger.Logger) (*Store, error) {
	for _, dir := range []string{dataDir, outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	s := &Store{dataDir: dataDir, outputDir: outputDir, cache: c, log: log}

	seeds := map[string]string{
		DocProfile:  "{}",
		DocSections: "{}",
		DocConfigs:  "[]",
		DocArchive:  "[]",
	}
	for name, empty := range seeds {
		path := filepath.Join(dataDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(empty+"\n"), 0o644); err != nil {
				return nil, fmt.Errorf("seed %s: %w", name, err)
			}
		}
	}
	return s, nil
}

// OutputDir exposes the artifact directory for the HTTP shell.
func (s *Store) OutputDir() string { return s.outputDir }

// readDoc loads a document through the cache. Cache failures are logged and
// degrade to a direct file read, never surfaced to the caller.
func (s *Store) readDoc(ctx context.Context, name string, v any) error {
	if data, err := s.cache.GetDocument(ctx, name); err != nil {
		s.log.Warn("document cache read failed", logger.String("doc", name), logger.Error(err))
	} else if data != nil {
		if err := json.Unmarshal(data, v); err == nil {
			return nil
		}
		// A corrupt cached blob falls through to the file.
		_ = s.cache.Invalidate(ctx, name)
	}

	data, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	if err := s.cache.SetDocument(ctx, name, data); err != nil {
		s.log.Warn("document cache write failed", logger.String("doc", name), logger.Error(err))
	}
	return nil
}

// writeDoc marshals and atomically replaces a document (write to a temp
// file in the same directory, then rename), then invalidates the cache.
func (s *Store) writeDoc(ctx context.Context, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	data = append(data, '\n')

	path := filepath.Join(s.dataDir, name)
	tmp, err := os.CreateTemp(s.dataDir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}

	if err := s.cache.Invalidate(ctx, name); err != nil {
		s.log.Warn("document cache invalidation failed", logger.String("doc", name), logger.Error(err))
	}
	return nil
}

// ── Profile ─────────────────────────────────────────────────────────────

func (s *Store) Profile(ctx context.Context) (domain.Profile, error) {
	var p domain.Profile
	if err := s.readDoc(ctx, DocProfile, &p); err != nil {
		return nil, err
	}
	if p == nil {
		p = domain.Profile{}
	}
	return p, nil
}

func (s *Store) SaveProfile(ctx context.Context, p domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeDoc(ctx, DocProfile, p)
}

// ── Sections ────────────────────────────────────────────────────────────

func (s *Store) Sections(ctx context.Context) (domain.Sections, error) {
	var secs domain.Sections
	if err := s.readDoc(ctx, DocSections, &secs); err != nil {
		return nil, err
	}
	if secs == nil {
		secs = domain.Sections{}
	}
	return secs, nil
}

func (s *Store) SaveSections(ctx context.Context, secs domain.Sections) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeDoc(ctx, DocSections, secs)
}

// ── Configurations ──────────────────────────────────────────────────────

func (s *Store) Configs(ctx context.Context) ([]domain.Configuration, error) {
	var cfgs []domain.Configuration
	if err := s.readDoc(ctx, DocConfigs, &cfgs); err != nil {
		return nil, err
	}
	return cfgs, nil
}

// ConfigByID returns the configuration and whether it exists.
func (s *Store) ConfigByID(ctx context.Context, id string) (*domain.Configuration, bool, error) {
	cfgs, err := s.Configs(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range cfgs {
		if cfgs[i].ID == id {
			return &cfgs[i], true, nil
		}
	}
	return nil, false, nil
}

// AddConfig stores a new configuration under a freshly minted id.
func (s *Store) AddConfig(ctx context.Context, cfg domain.Configuration) (domain.Configuration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg.ID = "config-" + uuid.NewString()

	cfgs, err := s.Configs(ctx)
	if err != nil {
		return domain.Configuration{}, err
	}
	cfgs = append(cfgs, cfg)
	if err := s.writeDoc(ctx, DocConfigs, cfgs); err != nil {
		return domain.Configuration{}, err
	}
	return cfg, nil
}

// UpdateConfig replaces the configuration with the given id wholesale.
// The id in the stored record always comes from the path, not the body.
func (s *Store) UpdateConfig(ctx context.Context, id string, cfg domain.Configuration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfgs, err := s.Configs(ctx)
	if err != nil {
		return err
	}
	for i := range cfgs {
		if cfgs[i].ID == id {
			cfg.ID = id
			cfgs[i] = cfg
		}
	}
	return s.writeDoc(ctx, DocConfigs, cfgs)
}

func (s *Store) DeleteConfig(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfgs, err := s.Configs(ctx)
	if err != nil {
		return err
	}
	kept := cfgs[:0]
	for _, c := range cfgs {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	return s.writeDoc(ctx, DocConfigs, kept)
}
