package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "https://operanazionalemontessori.it/trova-scuola-montessori/", cfg.PageUrl())
	require.Equal(t, "https://operanazionalemontessori.it/wp-admin/admin-ajax.php", cfg.AjaxUrl())
	require.Equal(t, "schools.csv", cfg.OutputPath)
	require.Equal(t, time.Duration(0), cfg.Timeout())

	headers := cfg.RequestHeaders()
	require.Equal(t, "https://operanazionalemontessori.it", headers["Origin"])
	require.Equal(t, "https://operanazionalemontessori.it/trova-scuola-montessori/", headers["Referer"])
	require.Equal(t, "XMLHttpRequest", headers["X-Requested-With"])
	require.Contains(t, headers["User-Agent"], "Mozilla/5.0")
}

func TestRequestHeadersIsACopy(t *testing.T) {
	cfg := Default()
	headers := cfg.RequestHeaders()
	headers["User-Agent"] = "changed"
	require.NotEqual(t, "changed", cfg.Headers["User-Agent"])
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "schoolfinder.json5"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schoolfinder.json5")
	err := os.WriteFile(path, []byte(`{
		base_url: "http://localhost:8080/",
		output_path: "out/schools.csv",
		timeout_seconds: 10,
		headers: { "Referer": "http://localhost:8080/custom" },
	}`), 0600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/trova-scuola-montessori/", cfg.PageUrl())
	require.Equal(t, "out/schools.csv", cfg.OutputPath)
	require.Equal(t, 10*time.Second, cfg.Timeout())
	require.Equal(t, "asl_load_stores", cfg.Action)

	headers := cfg.RequestHeaders()
	require.Equal(t, "http://localhost:8080/custom", headers["Referer"])
	require.Equal(t, "http://localhost:8080", headers["Origin"])
	require.Equal(t, "XMLHttpRequest", headers["X-Requested-With"])
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schoolfinder.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{ timeout_seconds: -1 }`), 0600))

	_, err := Load(path)
	require.Error(t, err)
}
