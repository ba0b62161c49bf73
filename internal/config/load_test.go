package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(LoadOptions{WorkingDir: t.TempDir(), Env: map[string]string{}})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("Version = %d", cfg.Version)
	}
	if cfg.IMVDB.BaseURL != "https://imvdb.com/api/v1" {
		t.Errorf("BaseURL = %q", cfg.IMVDB.BaseURL)
	}
	if cfg.Tools.YTDLP != "yt-dlp" || cfg.Tools.FFprobe != "ffprobe" {
		t.Errorf("tools = %+v", cfg.Tools)
	}
	if cfg.Tools.InfoTimeoutSeconds != 60 || cfg.Tools.DownloadTimeoutSeconds != 600 {
		t.Errorf("timeouts = %+v", cfg.Tools)
	}
}

func TestLoadProjectFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	payload := []byte(`
version: 1
library:
  source_dir: /incoming
  target_dir: /library
naming:
  scene_mode: true
tools:
  info_timeout_seconds: 30
`)
	if err := os.WriteFile(filepath.Join(dir, "mvorg.yaml"), payload, 0o644); err != nil {
		t.Fatal(err)
	}

	// Point the user config somewhere empty so only the project file applies.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(LoadOptions{WorkingDir: dir, Env: map[string]string{}})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Library.SourceDir != "/incoming" || cfg.Library.TargetDir != "/library" {
		t.Errorf("library = %+v", cfg.Library)
	}
	if !cfg.Naming.SceneMode {
		t.Error("scene_mode should be enabled")
	}
	if cfg.Tools.InfoTimeoutSeconds != 30 {
		t.Errorf("InfoTimeoutSeconds = %d", cfg.Tools.InfoTimeoutSeconds)
	}
	if cfg.Tools.DownloadTimeoutSeconds != 600 {
		t.Errorf("untouched keys must keep their defaults, got %d", cfg.Tools.DownloadTimeoutSeconds)
	}
}

func TestLoadExplicitPathMustExist(t *testing.T) {
	_, err := Load(LoadOptions{
		ExplicitPath: filepath.Join(t.TempDir(), "nope.yaml"),
		WorkingDir:   t.TempDir(),
		Env:          map[string]string{},
	})
	if err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(LoadOptions{
		WorkingDir: t.TempDir(),
		Env: map[string]string{
			"IMVDB_API_KEY":              "secret",
			"MVORG_TARGET_DIR":           "/mnt/library",
			"MVORG_YT_DLP":               "/opt/bin/yt-dlp",
			"MVORG_INFO_TIMEOUT_SECONDS": "15",
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.IMVDB.APIKey != "secret" {
		t.Errorf("APIKey = %q", cfg.IMVDB.APIKey)
	}
	if cfg.Library.TargetDir != "/mnt/library" {
		t.Errorf("TargetDir = %q", cfg.Library.TargetDir)
	}
	if cfg.Tools.YTDLP != "/opt/bin/yt-dlp" {
		t.Errorf("YTDLP = %q", cfg.Tools.YTDLP)
	}
	if cfg.Tools.InfoTimeoutSeconds != 15 {
		t.Errorf("InfoTimeoutSeconds = %d", cfg.Tools.InfoTimeoutSeconds)
	}
}

func TestLoadRejectsBadTimeoutValue(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := Load(LoadOptions{
		WorkingDir: t.TempDir(),
		Env:        map[string]string{"MVORG_INFO_TIMEOUT_SECONDS": "soon"},
	})
	if err == nil {
		t.Fatal("expected an error for a non-numeric timeout")
	}
}
