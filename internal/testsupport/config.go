package testsupport

import (
	"path/filepath"
	"testing"

	"capforge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.UploadDir = filepath.Join(base, "uploads")
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.SocketPath = filepath.Join(base, "capforge.sock")
	cfg.Render.ProjectDir = filepath.Join(base, "render-project")
	cfg.Render.OutputDir = filepath.Join(base, "exports")
	cfg.Scribe.APIKey = "test-key"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithScribeBaseURL points the provider client at a test server.
func WithScribeBaseURL(url string) ConfigOption {
	return func(c *config.Config) {
		c.Scribe.BaseURL = url
	}
}

// WithEnvironment overrides the render environment profile.
func WithEnvironment(env string) ConfigOption {
	return func(c *config.Config) {
		c.Render.Environment = env
	}
}
