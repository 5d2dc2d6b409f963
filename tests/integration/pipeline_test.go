package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/gerakolix/cvforge/internal/assets"
	"github.com/gerakolix/cvforge/internal/domain"
	"github.com/gerakolix/cvforge/internal/generator"
	"github.com/gerakolix/cvforge/internal/httpserver/deps"
	"github.com/gerakolix/cvforge/internal/httpserver/routes"
	"github.com/gerakolix/cvforge/internal/logger"
	"github.com/gerakolix/cvforge/internal/store/file"
)

// stubCompiler stands in for pdflatex so the pipeline runs without a TeX
// installation. It checks that the assembled source reached the workspace.
type stubCompiler struct{ sawSource bool }

func (s *stubCompiler) Run(_ context.Context, dir string) error {
	if _, err := os.Stat(filepath.Join(dir, "cv.tex")); err == nil {
		s.sawSource = true
	}
	return os.WriteFile(filepath.Join(dir, "cv.pdf"), []byte("%PDF-1.5"), 0o644)
}

func newTestServer(t *testing.T) (*httptest.Server, *file.Store, *stubCompiler) {
	t.Helper()
	dir := t.TempDir()

	store, err := file.New(filepath.Join(dir, "data"), filepath.Join(dir, "output"), nil, logger.Nop())
	require.NoError(t, err)
	assetStore, err := assets.New(filepath.Join(dir, "assets"))
	require.NoError(t, err)

	compiler := &stubCompiler{}
	d := deps.Deps{
		Logger:            logger.Nop(),
		StartTime:         time.Now(),
		TimeNow:           time.Now,
		Store:             store,
		Assets:            assetStore,
		Generator:         generator.New(store, assetStore, compiler, nil, logger.Nop()),
		CompilerCmd:       "pdflatex",
		GenerateBurst:     100,
		GenerateRefillMin: 100,
	}

	r := chi.NewRouter()
	routes.RegisterAll(r, d)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store, compiler
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return res
}

func putJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(buf))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	defer func() { _ = res.Body.Close() }()
	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}

// TestFullPipeline drives the whole flow over HTTP: seed the documents,
// create a configuration, generate a PDF, then inspect and prune the archive.
func TestFullPipeline(t *testing.T) {
	srv, store, compiler := newTestServer(t)
	ctx := context.Background()

	res := putJSON(t, srv.URL+"/api/profile", domain.Profile{
		"name":       "Jane Doe",
		"titleEn":    "Software Engineer",
		"titleDe":    "Softwareentwicklerin",
		"email":      "jane@example.com",
		"phone":      "+49 151 0000000",
		"locationEn": "Berlin, Germany",
		"locationDe": "Berlin, Deutschland",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	_ = res.Body.Close()

	res = putJSON(t, srv.URL+"/api/sections", domain.Sections{
		"experience": {
			LabelEn: "Experience",
			LabelDe: "Berufserfahrung",
			Type:    domain.SectionEntries,
			Items: []domain.Entry{
				{
					"id": "exp-1", "titleEn": "Senior Engineer", "titleDe": "Senior Entwicklerin",
					"organization": "Acme GmbH", "datesEn": "2021 - today", "datesDe": "2021 - heute",
					"descriptionEn": "Built the billing platform.\nLed a team of four.",
				},
			},
		},
		"publications": {
			LabelEn: "Publications",
			LabelDe: "Publikationen",
			Type:    domain.SectionPublications,
			Items: []domain.Entry{
				{
					"id": "pub-1", "authors": "Doe, J.", "year": "2024",
					"title": "Streaming joins at scale", "journal": "VLDB",
					"url": "https://example.com/paper",
				},
			},
		},
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	_ = res.Body.Close()

	res = postJSON(t, srv.URL+"/api/configs", domain.Configuration{
		Name:          "English IEEE",
		Language:      domain.LangEN,
		CitationStyle: domain.StyleIEEE,
		SectionOrder:  []string{"experience", "publications"},
		EnabledEntries: map[string][]string{
			"experience":   {"exp-1"},
			"publications": {"pub-1"},
		},
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	cfg := decode[domain.Configuration](t, res)
	require.NotEmpty(t, cfg.ID)

	// Generate.
	res = postJSON(t, srv.URL+"/api/generate", map[string]any{
		"configId": cfg.ID,
		"company":  "Acme",
		"position": "Staff Engineer",
		"tags":     []string{"go", "backend"},
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	gen := decode[struct {
		OK           bool                `json:"ok"`
		Filename     string              `json:"filename"`
		TexFilename  string              `json:"texFilename"`
		ArchiveEntry domain.ArchiveEntry `json:"archiveEntry"`
	}](t, res)
	require.True(t, gen.OK)
	require.True(t, compiler.sawSource, "assembled source must be in the compile workspace")
	require.Contains(t, gen.Filename, "CV_Jane_Doe_Acme_")

	// The assembled TeX source is archived next to the PDF.
	tex, err := os.ReadFile(store.ArtifactPath(gen.TexFilename))
	require.NoError(t, err)
	require.Contains(t, string(tex), "Senior Engineer")
	require.Contains(t, string(tex), "Streaming joins at scale")
	require.Contains(t, string(tex), "[1]", "IEEE citations are numbered")

	// Archive has the run, PDF endpoint serves the artifact.
	res, err = http.Get(srv.URL + "/api/archive")
	require.NoError(t, err)
	archive := decode[[]domain.ArchiveEntry](t, res)
	require.Len(t, archive, 1)
	require.Equal(t, gen.ArchiveEntry.ID, archive[0].ID)

	res, err = http.Get(srv.URL + "/api/pdfs/" + gen.Filename)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "application/pdf", res.Header.Get("Content-Type"))
	_ = res.Body.Close()

	// Deleting the archive entry removes both artifacts.
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/archive/"+archive[0].ID, nil)
	require.NoError(t, err)
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	_ = res.Body.Close()

	_, err = os.Stat(store.ArtifactPath(gen.Filename))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(store.ArtifactPath(gen.TexFilename))
	require.True(t, os.IsNotExist(err))

	archList, err := store.Archive(ctx)
	require.NoError(t, err)
	require.Empty(t, archList)
}

func TestGermanConfigurationRendersGermanLabels(t *testing.T) {
	srv, store, _ := newTestServer(t)

	res := putJSON(t, srv.URL+"/api/profile", domain.Profile{
		"name": "Jane Doe", "email": "jane@example.com",
		"locationEn": "Berlin, Germany", "locationDe": "Berlin, Deutschland",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	_ = res.Body.Close()

	res = putJSON(t, srv.URL+"/api/sections", domain.Sections{
		"skills": {
			LabelEn: "Skills",
			LabelDe: "Kenntnisse",
			Type:    domain.SectionSkills,
			Items: []domain.Entry{
				{"id": "sk-1", "labelEn": "Languages", "labelDe": "Sprachen", "value": "Go, SQL"},
			},
		},
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	_ = res.Body.Close()

	res = postJSON(t, srv.URL+"/api/configs", domain.Configuration{
		Name:           "Deutsch",
		Language:       domain.LangDE,
		SectionOrder:   []string{"skills"},
		EnabledEntries: map[string][]string{"skills": {"sk-1"}},
	})
	cfg := decode[domain.Configuration](t, res)

	res = postJSON(t, srv.URL+"/api/generate", map[string]any{"configId": cfg.ID})
	require.Equal(t, http.StatusOK, res.StatusCode)
	gen := decode[struct {
		TexFilename string `json:"texFilename"`
	}](t, res)

	tex, err := os.ReadFile(store.ArtifactPath(gen.TexFilename))
	require.NoError(t, err)
	require.Contains(t, string(tex), "Kenntnisse")
	require.Contains(t, string(tex), "Berlin, Deutschland")
}
