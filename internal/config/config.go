package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the client and server settings.
type Config struct {
	Endpoint       string
	UploadPath     string
	DownloadDir    string
	LogDir         string
	DefaultOptions []string
	APIKeyEnv      string
	Server         ServerConfig
}

// ServerConfig holds the upload server settings.
type ServerConfig struct {
	Listen      string
	Model       string
	MaxUploadMB int
}

const (
	defaultConfigPath  = "~/.config/quill/config.toml"
	defaultEndpoint    = "127.0.0.1:5000"
	defaultUploadPath  = "/upload"
	defaultDownloadDir = "~/Downloads"
	defaultLogDir      = "~/.local/share/quill/logs"
	defaultAPIKeyEnv   = "GEMINI_API_KEY"
	defaultListen      = "127.0.0.1:5000"
	defaultModel       = "gemini-3-flash-preview"
	defaultMaxUploadMB = 100
)

// Environment variables that override the file.
const (
	EnvEndpoint = "QUILL_ENDPOINT"
	EnvListen   = "QUILL_LISTEN"
	EnvModel    = "QUILL_MODEL"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Endpoint:       defaultEndpoint,
		UploadPath:     defaultUploadPath,
		DownloadDir:    mustExpand(defaultDownloadDir),
		LogDir:         mustExpand(defaultLogDir),
		DefaultOptions: []string{"readme"},
		APIKeyEnv:      defaultAPIKeyEnv,
		Server: ServerConfig{
			Listen:      defaultListen,
			Model:       defaultModel,
			MaxUploadMB: defaultMaxUploadMB,
		},
	}
}

// LoadDotEnv loads variables from a .env file in the working directory, if
// present. Variables already set are left alone.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load reads the config file, falling back to defaults when it is missing,
// then applies environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.applyEnv(os.Getenv)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Endpoint       string   `toml:"endpoint"`
		UploadPath     string   `toml:"upload_path"`
		DownloadDir    string   `toml:"download_dir"`
		LogDir         string   `toml:"log_dir"`
		DefaultOptions []string `toml:"default_options"`
		APIKeyEnv      string   `toml:"api_key_env"`
		Server         struct {
			Listen      string `toml:"listen"`
			Model       string `toml:"model"`
			MaxUploadMB int    `toml:"max_upload_mb"`
		} `toml:"server"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Endpoint = firstNonEmpty(raw.Endpoint, defaultEndpoint)
	cfg.UploadPath = firstNonEmpty(raw.UploadPath, defaultUploadPath)
	cfg.DownloadDir = mustExpand(firstNonEmpty(raw.DownloadDir, defaultDownloadDir))
	cfg.LogDir = mustExpand(firstNonEmpty(raw.LogDir, defaultLogDir))
	cfg.APIKeyEnv = firstNonEmpty(raw.APIKeyEnv, defaultAPIKeyEnv)
	if raw.DefaultOptions != nil {
		cfg.DefaultOptions = trimAll(raw.DefaultOptions)
	}

	cfg.Server.Listen = firstNonEmpty(raw.Server.Listen, defaultListen)
	cfg.Server.Model = firstNonEmpty(raw.Server.Model, defaultModel)
	if raw.Server.MaxUploadMB > 0 {
		cfg.Server.MaxUploadMB = raw.Server.MaxUploadMB
	}

	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvEndpoint)); v != "" {
		c.Endpoint = v
	}
	if v := strings.TrimSpace(getenv(EnvListen)); v != "" {
		c.Server.Listen = v
	}
	if v := strings.TrimSpace(getenv(EnvModel)); v != "" {
		c.Server.Model = v
	}
}

// APIKey returns the key from the configured environment variable, or "".
func (c Config) APIKey() string {
	name := firstNonEmpty(c.APIKeyEnv, defaultAPIKeyEnv)
	return strings.TrimSpace(os.Getenv(name))
}

// LogPath returns the client log file path.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/quill.log")
	}
	return filepath.Join(c.LogDir, "quill.log")
}

// MaxUploadBytes converts the server limit to bytes.
func (s ServerConfig) MaxUploadBytes() int64 {
	mb := s.MaxUploadMB
	if mb <= 0 {
		mb = defaultMaxUploadMB
	}
	return int64(mb) << 20
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
