package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and socket configuration.
type Paths struct {
	UploadDir  string `toml:"upload_dir"`
	StagingDir string `toml:"staging_dir"`
	LogDir     string `toml:"log_dir"`
	SocketPath string `toml:"socket_path"`
}

// Scribe contains configuration for the speech-to-text provider.
type Scribe struct {
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url"`
	SpeechModel       string  `toml:"speech_model"`
	PollInterval      int     `toml:"poll_interval"`       // seconds between status polls
	MaxWait           int     `toml:"max_wait"`            // seconds, 0 = wait forever
	WordsPerSegment   int     `toml:"words_per_segment"`   // caption window size
	MaxSegmentSeconds float64 `toml:"max_segment_seconds"` // display resplit limit
}

// Render contains configuration for the compositing engine.
type Render struct {
	ProjectDir    string `toml:"project_dir"`
	CompositionID string `toml:"composition_id"`
	OutputDir     string `toml:"output_dir"`
	Environment   string `toml:"environment"` // "production" or "development"
	EngineBinary  string `toml:"engine_binary"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for capforge.
//
// Sections by subsystem:
//   - Paths: upload storage, staging temp dir, logs, IPC socket
//   - Scribe: speech-to-text provider connection and caption shaping
//   - Render: compositing project location and environment profile
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Scribe  Scribe  `toml:"scribe"`
	Render  Render  `toml:"render"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/capforge/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("capforge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	for _, field := range []*string{
		&c.Paths.UploadDir,
		&c.Paths.StagingDir,
		&c.Paths.LogDir,
		&c.Paths.SocketPath,
		&c.Render.ProjectDir,
		&c.Render.OutputDir,
	} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	if key := strings.TrimSpace(os.Getenv("SCRIBE_API_KEY")); key != "" {
		c.Scribe.APIKey = key
	}
	c.Scribe.APIKey = strings.TrimSpace(c.Scribe.APIKey)
	c.Scribe.BaseURL = strings.TrimRight(strings.TrimSpace(c.Scribe.BaseURL), "/")
	c.Render.Environment = strings.ToLower(strings.TrimSpace(c.Render.Environment))
	return nil
}

// Validate checks configuration invariants that cannot be defaulted away.
// The provider API key is deliberately not required here; the transcription
// client reports it as a configuration error at request time.
func (c *Config) Validate() error {
	if c.Scribe.BaseURL == "" {
		return fmt.Errorf("scribe.base_url must be set")
	}
	if c.Scribe.PollInterval <= 0 {
		return fmt.Errorf("scribe.poll_interval must be positive, got %d", c.Scribe.PollInterval)
	}
	if c.Scribe.MaxWait < 0 {
		return fmt.Errorf("scribe.max_wait cannot be negative, got %d", c.Scribe.MaxWait)
	}
	if c.Scribe.WordsPerSegment <= 0 {
		return fmt.Errorf("scribe.words_per_segment must be positive, got %d", c.Scribe.WordsPerSegment)
	}
	if c.Scribe.MaxSegmentSeconds <= 0 {
		return fmt.Errorf("scribe.max_segment_seconds must be positive, got %v", c.Scribe.MaxSegmentSeconds)
	}
	if c.Render.CompositionID == "" {
		return fmt.Errorf("render.composition_id must be set")
	}
	switch c.Render.Environment {
	case "production", "development":
	default:
		return fmt.Errorf("render.environment must be %q or %q, got %q", "production", "development", c.Render.Environment)
	}
	return nil
}

// IsProduction reports whether the production render profile applies.
func (c *Config) IsProduction() bool {
	return c.Render.Environment == "production"
}

// EnsureDirectories creates the directories capforge writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.UploadDir, c.Paths.StagingDir, c.Paths.LogDir, c.Render.OutputDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
