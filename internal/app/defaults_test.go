package app

import (
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("environment variables override defaults", func(t *testing.T) {
		t.Setenv("MOMENTLOG_CONFIG_PATH", "/custom/momentlog.toml")
		t.Setenv("MOMENTLOG_HOME", "/custom/home")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/custom/momentlog.toml" {
			t.Errorf("config_path = %q", defaults["config_path"])
		}
		if defaults["base_dir"] != "/custom/home" {
			t.Errorf("base_dir = %q", defaults["base_dir"])
		}
		if defaults["log_dir"] != filepath.Join("/custom/home", "log") {
			t.Errorf("log_dir = %q", defaults["log_dir"])
		}
	})

	t.Run("falls back to home-relative paths", func(t *testing.T) {
		t.Setenv("MOMENTLOG_CONFIG_PATH", "")
		t.Setenv("MOMENTLOG_HOME", "")
		t.Setenv("HOME", "/home/tester")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/home/tester/.config/momentlog.toml" {
			t.Errorf("config_path = %q", defaults["config_path"])
		}
		if defaults["base_dir"] != "/home/tester/.local/share/momentlog" {
			t.Errorf("base_dir = %q", defaults["base_dir"])
		}
	})
}
