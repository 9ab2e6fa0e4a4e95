package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - MOMENTLOG_CONFIG_PATH: config file location (default: ~/.config/momentlog.toml)
//   - MOMENTLOG_HOME: base directory for journal data (default: ~/.local/share/momentlog)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking MOMENTLOG_CONFIG_PATH
// first, then falling back to the default ~/.config/momentlog.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("MOMENTLOG_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "momentlog.toml"), nil
}

// getBaseDir returns the base directory for journal data, checking
// MOMENTLOG_HOME first, then falling back to the XDG default
// ~/.local/share/momentlog.
func getBaseDir() (string, error) {
	if path := os.Getenv("MOMENTLOG_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "momentlog"), nil
}
