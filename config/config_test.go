package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Yaml(t *testing.T) {
	path := writeFile(t, "admin.yaml", `
api_url: https://api.staging.msquare.market
locale: ko
page_size: "50"
search_delay: 300ms
mode: both
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.staging.msquare.market", cfg.APIURL)
	assert.Equal(t, "ko", cfg.Locale)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDelay)
	assert.Equal(t, ModeBoth, cfg.Mode)
	assert.Equal(t, defaultSearchMinLength, cfg.SearchMinLength)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "admin.yaml", "api_url: https://api.msquare.market\n")
	t.Setenv("MSQUARE_API_URL", "http://localhost:4000")
	t.Setenv("MSQUARE_API_TOKEN", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4000", cfg.APIURL)
	assert.Equal(t, "secret", cfg.APIToken)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing url", content: "locale: en\n"},
		{name: "bad scheme", content: "api_url: ftp://x\n"},
		{name: "bad page size", content: "api_url: https://x\npage_size: many\n"},
		{name: "page size too large", content: "api_url: https://x\npage_size: \"1000\"\n"},
		{name: "bad mode", content: "api_url: https://x\nmode: gui\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MSQUARE_API_URL", "")
			_, err := Load(writeFile(t, "admin.yaml", tt.content))
			assert.Error(t, err)
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.APIURL = "https://api.msquare.market"
	cfg.Locale = "ko"
	cfg.PageSize = 40

	path := filepath.Join(t.TempDir(), GeneratedFile)
	require.NoError(t, Write(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestGet_Flags(t *testing.T) {
	envFile := writeFile(t, ".env", "MSQUARE_API_URL=https://api.msquare.market\n")
	t.Setenv("MSQUARE_API_URL", "")
	require.NoError(t, os.Unsetenv("MSQUARE_API_URL"))

	f, err := ParseFlags([]string{"--env", envFile, "--web", "127.0.0.1:9999"})
	require.NoError(t, err)

	cfg, err := Get(f)
	require.NoError(t, err)
	assert.Equal(t, "https://api.msquare.market", cfg.APIURL)
	assert.Equal(t, "127.0.0.1:9999", cfg.WebAddr)
	assert.Equal(t, ModeBoth, cfg.Mode)
}
