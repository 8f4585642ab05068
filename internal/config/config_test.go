package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvEndpoint, EnvListen, EnvModel} {
		t.Setenv(name, "")
	}
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Endpoint != defaultEndpoint {
		t.Fatalf("Endpoint = %q, want %q", cfg.Endpoint, defaultEndpoint)
	}
	if cfg.UploadPath != defaultUploadPath {
		t.Fatalf("UploadPath = %q, want %q", cfg.UploadPath, defaultUploadPath)
	}
	if cfg.DownloadDir != filepath.Join(home, "Downloads") {
		t.Fatalf("DownloadDir = %q, want it under HOME %q", cfg.DownloadDir, home)
	}
	if !reflect.DeepEqual(cfg.DefaultOptions, []string{"readme"}) {
		t.Fatalf("DefaultOptions = %v, want [readme]", cfg.DefaultOptions)
	}
	if cfg.Server.Model != defaultModel {
		t.Fatalf("Server.Model = %q, want %q", cfg.Server.Model, defaultModel)
	}
	if got := cfg.Server.MaxUploadBytes(); got != 100<<20 {
		t.Fatalf("MaxUploadBytes = %d, want %d", got, 100<<20)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
endpoint = "  10.0.0.5:9999  "
upload_path = "/api/upload"
download_dir = "  ~/out  "
default_options = [" debug ", "", "suggest"]
api_key_env = "MY_KEY"

[server]
listen = ":8080"
model = "gemini-2.5-pro"
max_upload_mb = 8
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Endpoint != "10.0.0.5:9999" {
		t.Fatalf("Endpoint = %q, want %q", cfg.Endpoint, "10.0.0.5:9999")
	}
	if cfg.UploadPath != "/api/upload" {
		t.Fatalf("UploadPath = %q, want %q", cfg.UploadPath, "/api/upload")
	}
	if cfg.DownloadDir != filepath.Join(home, "out") {
		t.Fatalf("DownloadDir = %q, want %q", cfg.DownloadDir, filepath.Join(home, "out"))
	}
	if !reflect.DeepEqual(cfg.DefaultOptions, []string{"debug", "suggest"}) {
		t.Fatalf("DefaultOptions = %v, want [debug suggest]", cfg.DefaultOptions)
	}
	if cfg.APIKeyEnv != "MY_KEY" {
		t.Fatalf("APIKeyEnv = %q, want %q", cfg.APIKeyEnv, "MY_KEY")
	}
	if cfg.Server.Listen != ":8080" || cfg.Server.Model != "gemini-2.5-pro" {
		t.Fatalf("Server = %+v, want listen :8080 and model gemini-2.5-pro", cfg.Server)
	}
	if got := cfg.Server.MaxUploadBytes(); got != 8<<20 {
		t.Fatalf("MaxUploadBytes = %d, want %d", got, 8<<20)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
endpoint = "   "
upload_path = ""
[server]
model = " "
max_upload_mb = -3
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Endpoint != defaultEndpoint {
		t.Fatalf("Endpoint = %q, want %q", cfg.Endpoint, defaultEndpoint)
	}
	if cfg.UploadPath != defaultUploadPath {
		t.Fatalf("UploadPath = %q, want %q", cfg.UploadPath, defaultUploadPath)
	}
	if cfg.Server.Model != defaultModel {
		t.Fatalf("Server.Model = %q, want %q", cfg.Server.Model, defaultModel)
	}
	if cfg.Server.MaxUploadMB != defaultMaxUploadMB {
		t.Fatalf("Server.MaxUploadMB = %d, want %d", cfg.Server.MaxUploadMB, defaultMaxUploadMB)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvEndpoint, "example.test:443")
	t.Setenv(EnvListen, "0.0.0.0:9000")
	t.Setenv(EnvModel, "gemini-x")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`endpoint = "file:1"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Endpoint != "example.test:443" {
		t.Fatalf("Endpoint = %q, want %q", cfg.Endpoint, "example.test:443")
	}
	if cfg.Server.Listen != "0.0.0.0:9000" {
		t.Fatalf("Server.Listen = %q, want %q", cfg.Server.Listen, "0.0.0.0:9000")
	}
	if cfg.Server.Model != "gemini-x" {
		t.Fatalf("Server.Model = %q, want %q", cfg.Server.Model, "gemini-x")
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`endpoint = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestAPIKey_ReadsConfiguredVariable(t *testing.T) {
	t.Setenv("MY_KEY", "  secret  ")
	t.Setenv(defaultAPIKeyEnv, "other")

	cfg := Config{APIKeyEnv: "MY_KEY"}
	if got := cfg.APIKey(); got != "secret" {
		t.Fatalf("APIKey = %q, want %q", got, "secret")
	}
	if got := (Config{}).APIKey(); got != "other" {
		t.Fatalf("APIKey = %q, want %q", got, "other")
	}
}

func TestLoadDotEnv_DoesNotOverrideSetVariables(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("QUILL_MODEL=from-file\nQUILL_LISTEN=:1\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Chdir(dir)
	t.Setenv(EnvModel, "from-env")
	t.Setenv(EnvListen, "")
	os.Unsetenv(EnvListen)

	LoadDotEnv()

	if got := os.Getenv(EnvModel); got != "from-env" {
		t.Fatalf("%s = %q, want %q", EnvModel, got, "from-env")
	}
	if got := os.Getenv(EnvListen); got != ":1" {
		t.Fatalf("%s = %q, want %q", EnvListen, got, ":1")
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenLogDirEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/quill.log")) {
		t.Fatalf("LogPath = %q, want it to end with /quill.log", got)
	}
}
