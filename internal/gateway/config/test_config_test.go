package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "fake")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ProviderFake, cfg.LLM.Provider)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "strict", cfg.DecodePolicy)
	assert.True(t, cfg.DedupeSources)
	assert.False(t, cfg.RetainOnError)
	assert.Equal(t, ArchiveNone, cfg.Archive.Backend)
	assert.Equal(t, "data/archive", cfg.Archive.Dir)
	assert.Equal(t, "minio:9000", cfg.Archive.Artifact.Endpoint)
	assert.False(t, cfg.Archive.Artifact.UseSSL)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("FETCH_TIMEOUT", "2m")
	t.Setenv("DEDUPE_SOURCES", "false")
	t.Setenv("RETAIN_ON_ERROR", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("ARCHIVE_BACKEND", "s3")
	t.Setenv("ARTIFACT_S3_ENDPOINT", "s3.amazonaws.com")
	t.Setenv("MINIO_ROOT_USER", "user")
	t.Setenv("MINIO_ROOT_PASSWORD", "pass")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "k", cfg.LLM.APIKey)
	assert.Equal(t, 2*time.Minute, cfg.LLM.Timeout)
	assert.False(t, cfg.DedupeSources)
	assert.True(t, cfg.RetainOnError)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)

	art := cfg.Archive.Artifact
	assert.Equal(t, "s3.amazonaws.com", art.Endpoint)
	assert.Equal(t, "user", art.AccessKey)
	assert.Equal(t, "pass", art.SecretKey)
	assert.Equal(t, "boxoffice-snapshots", art.Bucket)
	assert.True(t, art.UseSSL)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxoffice.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm_provider: fake
log_level: DEBUG
decode_policy: lenient
archive_backend: postgres
database_url: postgres://u:p@db:5432/boxoffice
display_tz: UTC
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "lenient", cfg.DecodePolicy)
	assert.Equal(t, ArchivePostgres, cfg.Archive.Backend)
	assert.Equal(t, "UTC", cfg.DisplayTZ)

	t.Setenv("DECODE_POLICY", "strict")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "strict", cfg.DecodePolicy)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"gemini without key": {"LLM_PROVIDER": "gemini", "GEMINI_API_KEY": "", "API_KEY": ""},
		"unknown provider":   {"LLM_PROVIDER": "groq"},
		"unknown archive":    {"LLM_PROVIDER": "fake", "ARCHIVE_BACKEND": "ftp"},
		"postgres no dsn":    {"LLM_PROVIDER": "fake", "ARCHIVE_BACKEND": "postgres"},
		"s3 incomplete":      {"LLM_PROVIDER": "fake", "APP_ENV": "prod", "ARCHIVE_BACKEND": "s3"},
		"negative timeout":   {"LLM_PROVIDER": "fake", "FETCH_TIMEOUT": "-1s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNormalizePort(t *testing.T) {
	assert.Equal(t, ":8081", NormalizePort(""))
	assert.Equal(t, ":80", NormalizePort("80"))
	assert.Equal(t, "127.0.0.1:80", NormalizePort("127.0.0.1:80"))
}
