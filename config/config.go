package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const (
	// AppDirectoryName is the per-user application data directory name.
	AppDirectoryName = "camptrack"
	// DataDirEnvVar overrides the resolved data directory when set.
	DataDirEnvVar = "CAMPTRACK_DATA_DIR"
	// DefaultPollIntervalMS is the live chat refresh interval in milliseconds.
	DefaultPollIntervalMS = 250
	// DefaultChatsPerPage is the conversation list page size.
	DefaultChatsPerPage = 3
	// DefaultMessagesPerPage is the message history window size.
	DefaultMessagesPerPage = 10
	// configFileName is the persisted configuration file.
	configFileName = "config.json"
)

// AppConfig contains persistent per-installation settings.
type AppConfig struct {
	InstallID       string `json:"install_id"`
	PollIntervalMS  int    `json:"poll_interval_ms"`
	ChatsPerPage    int    `json:"chats_per_page"`
	MessagesPerPage int    `json:"messages_per_page"`
	LogLevel        string `json:"log_level"`
}

// ResolveDataDir returns the OS-aware app data directory.
//
// A .env file in the working directory is honored, and CAMPTRACK_DATA_DIR
// takes precedence over the platform default.
func ResolveDataDir() (string, error) {
	_ = godotenv.Load()

	if override := os.Getenv(DataDirEnvVar); override != "" {
		return override, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}

	switch runtime.GOOS {
	case "windows":
		base := os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(base, AppDirectoryName), nil
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", AppDirectoryName), nil
	default:
		base := os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			base = filepath.Join(home, ".config")
		}
		return filepath.Join(base, AppDirectoryName), nil
	}
}

// ConfigPath returns the full path to config.json for a data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, configFileName)
}

// EnsureDataDirectories creates the app data directory layout if needed.
func EnsureDataDirectories(dataDir string) error {
	dirs := []string{
		dataDir,
		filepath.Join(dataDir, "logs"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}

	return nil
}

// Load reads and unmarshals config.json from disk.
func Load(path string) (*AppConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg AppConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

// Save marshals and writes config.json to disk.
func Save(path string, cfg *AppConfig) error {
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	raw = append(raw, '\n')
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// LoadOrCreate ensures directories and config exist, then returns the config
// and the resolved data directory.
func LoadOrCreate() (*AppConfig, string, error) {
	dataDir, err := ResolveDataDir()
	if err != nil {
		return nil, "", err
	}
	if err := EnsureDataDirectories(dataDir); err != nil {
		return nil, "", err
	}

	cfgPath := ConfigPath(dataDir)
	cfg, err := Load(cfgPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", err
		}

		cfg = defaultConfig()
		if err := Save(cfgPath, cfg); err != nil {
			return nil, "", err
		}

		return cfg, dataDir, nil
	}

	if normalizeDefaults(cfg) {
		if err := Save(cfgPath, cfg); err != nil {
			return nil, "", err
		}
	}

	return cfg, dataDir, nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		InstallID:       uuid.NewString(),
		PollIntervalMS:  DefaultPollIntervalMS,
		ChatsPerPage:    DefaultChatsPerPage,
		MessagesPerPage: DefaultMessagesPerPage,
		LogLevel:        "info",
	}
}

func normalizeDefaults(cfg *AppConfig) bool {
	updated := false

	if cfg.InstallID == "" {
		cfg.InstallID = uuid.NewString()
		updated = true
	}
	if cfg.PollIntervalMS <= 0 {
		cfg.PollIntervalMS = DefaultPollIntervalMS
		updated = true
	}
	if cfg.ChatsPerPage <= 0 {
		cfg.ChatsPerPage = DefaultChatsPerPage
		updated = true
	}
	if cfg.MessagesPerPage <= 0 {
		cfg.MessagesPerPage = DefaultMessagesPerPage
		updated = true
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
		updated = true
	}

	return updated
}
