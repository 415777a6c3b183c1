// Package config resolves gateway settings from .env, the process environment
// and an optional YAML file. The environment wins over the file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Port     string
	Env      string
	LogLevel string

	LLM LLMConfig

	PromptProfile string
	DecodePolicy  string
	DedupeSources bool
	RetainOnError bool
	DisplayTZ     string

	CORSAllowedOrigins []string

	Archive ArchiveConfig
}

type LLMConfig struct {
	Provider string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

type ArchiveConfig struct {
	Backend     string
	Dir         string
	DatabaseURL string
	Artifact    ArtifactConfig
}

type ArtifactConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// CanUseS3 reports whether every field minio needs is present.
func (a ArtifactConfig) CanUseS3() bool {
	return a.Endpoint != "" && a.AccessKey != "" && a.SecretKey != "" && a.Bucket != ""
}

const (
	ProviderGemini = "gemini"
	ProviderFake   = "fake"

	ArchiveNone     = "none"
	ArchiveMemory   = "memory"
	ArchiveFile     = "file"
	ArchivePostgres = "postgres"
	ArchiveS3       = "s3"
	ArchiveAWS      = "aws"
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("port", ":8081")
	v.SetDefault("app_env", "local")
	v.SetDefault("log_level", "info")
	v.SetDefault("llm_provider", ProviderGemini)
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("fetch_timeout", "90s")
	v.SetDefault("decode_policy", "strict")
	v.SetDefault("dedupe_sources", true)
	v.SetDefault("retain_on_error", false)
	v.SetDefault("display_tz", "Asia/Kolkata")
	v.SetDefault("archive_backend", ArchiveNone)
	v.SetDefault("archive_dir", "data/archive")
	v.SetDefault("artifact_s3_region", "us-east-1")
	v.SetDefault("artifact_s3_bucket", "boxoffice-snapshots")
	v.AutomaticEnv()
	return v
}

// Load reads .env when present, then the environment. path, when set, names
// a YAML file whose snake_case keys mirror the environment names.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := newViper()
	if p := strings.TrimSpace(path); p != "" {
		v.SetConfigFile(p)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	timeout := v.GetDuration("fetch_timeout")
	if timeout < 0 {
		return nil, fmt.Errorf("%w: fetch_timeout must not be negative", ErrInvalidConfig)
	}

	env := firstNonEmpty(strings.TrimSpace(v.GetString("app_env")), "local")
	cfg := &Config{
		Port:     NormalizePort(v.GetString("port")),
		Env:      env,
		LogLevel: strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		LLM: LLMConfig{
			Provider: strings.ToLower(strings.TrimSpace(v.GetString("llm_provider"))),
			APIKey:   firstNonEmpty(strings.TrimSpace(v.GetString("gemini_api_key")), strings.TrimSpace(v.GetString("api_key"))),
			Model:    strings.TrimSpace(v.GetString("gemini_model")),
			Timeout:  timeout,
		},
		PromptProfile:      strings.TrimSpace(v.GetString("prompt_profile")),
		DecodePolicy:       strings.TrimSpace(v.GetString("decode_policy")),
		DedupeSources:      v.GetBool("dedupe_sources"),
		RetainOnError:      v.GetBool("retain_on_error"),
		DisplayTZ:          strings.TrimSpace(v.GetString("display_tz")),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		Archive: ArchiveConfig{
			Backend:     strings.ToLower(strings.TrimSpace(v.GetString("archive_backend"))),
			Dir:         strings.TrimSpace(v.GetString("archive_dir")),
			DatabaseURL: strings.TrimSpace(v.GetString("database_url")),
			Artifact:    loadArtifactConfig(v, env),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderFake:
	case ProviderGemini:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY is required for the gemini provider", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown llm_provider %q", ErrInvalidConfig, c.LLM.Provider)
	}

	switch c.Archive.Backend {
	case ArchiveNone, ArchiveMemory:
	case ArchiveFile:
		if c.Archive.Dir == "" {
			return fmt.Errorf("%w: ARCHIVE_DIR is required for the file archive", ErrInvalidConfig)
		}
	case ArchivePostgres:
		if c.Archive.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for the postgres archive", ErrInvalidConfig)
		}
	case ArchiveS3:
		if !c.Archive.Artifact.CanUseS3() {
			return fmt.Errorf("%w: s3 archive needs endpoint, access key, secret key and bucket", ErrInvalidConfig)
		}
	case ArchiveAWS:
		if c.Archive.Artifact.Bucket == "" {
			return fmt.Errorf("%w: ARTIFACT_S3_BUCKET is required for the aws archive", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown archive_backend %q", ErrInvalidConfig, c.Archive.Backend)
	}
	return nil
}

func loadArtifactConfig(v *viper.Viper, env string) ArtifactConfig {
	if isLocal(env) {
		return localArtifactConfig(v)
	}
	return ArtifactConfig{
		Endpoint:  strings.TrimSpace(v.GetString("artifact_s3_endpoint")),
		Region:    strings.TrimSpace(v.GetString("artifact_s3_region")),
		AccessKey: firstNonEmpty(strings.TrimSpace(v.GetString("artifact_s3_access_key")), strings.TrimSpace(v.GetString("minio_root_user"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(v.GetString("artifact_s3_secret_key")), strings.TrimSpace(v.GetString("minio_root_password"))),
		Bucket:    strings.TrimSpace(v.GetString("artifact_s3_bucket")),
		UseSSL:    resolveUseSSL(v.GetString("artifact_s3_use_ssl")),
	}
}

func resolveUseSSL(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "0", "false", "f", "no", "off":
		return false
	}
	return true
}

// NormalizePort accepts "8081" or ":8081".
func NormalizePort(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ":8081"
	}
	if strings.Contains(p, ":") {
		return p
	}
	return ":" + p
}

func isLocal(env string) bool {
	return strings.EqualFold(strings.TrimSpace(env), "local")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
