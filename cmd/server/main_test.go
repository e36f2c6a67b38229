package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsite-frame-checker/internal/config"
	"docsite-frame-checker/pkg/logger"
)

func TestHandlerServesSampleContent(t *testing.T) {
	h, err := newHandler(config.Default(), logger.Discard())
	require.NoError(t, err)

	for path, want := range map[string]int{
		"/en":         http.StatusOK,
		"/ja":         http.StatusOK,
		"/robots.txt": http.StatusOK,
		"/xx":         http.StatusNotFound,
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}

func TestHandlerServesContentDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "en"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en", "index.md"), []byte("---\ntitle: Local docs\n---\n"), 0o644))

	cfg := config.Default()
	cfg.ContentDir = dir
	h, err := newHandler(cfg, logger.Discard())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ja", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Local docs - GitHub Docs</title>")
}

func TestHandlerRejectsMissingLanguagesFile(t *testing.T) {
	cfg := config.Default()
	cfg.LanguagesFile = filepath.Join(t.TempDir(), "missing.yml")
	_, err := newHandler(cfg, logger.Discard())
	assert.Error(t, err)
}
