package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type LoadOptions struct {
	ExplicitPath string
	WorkingDir   string
	Env          map[string]string
}

// fileConfig mirrors Config with pointer fields so that absent keys in a
// config file do not clobber values set by an earlier layer.
type fileConfig struct {
	Version *int        `yaml:"version"`
	Library fileLibrary `yaml:"library"`
	IMVDB   fileIMVDB   `yaml:"imvdb"`
	Tools   fileTools   `yaml:"tools"`
	Naming  fileNaming  `yaml:"naming"`
}

type fileLibrary struct {
	SourceDir *string `yaml:"source_dir"`
	TargetDir *string `yaml:"target_dir"`
}

type fileIMVDB struct {
	BaseURL *string `yaml:"base_url"`
}

type fileTools struct {
	YTDLP                  *string `yaml:"yt_dlp"`
	FFprobe                *string `yaml:"ffprobe"`
	InfoTimeoutSeconds     *int    `yaml:"info_timeout_seconds"`
	DownloadTimeoutSeconds *int    `yaml:"download_timeout_seconds"`
}

type fileNaming struct {
	SceneMode *bool `yaml:"scene_mode"`
}

func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()

	cwd := opts.WorkingDir
	if strings.TrimSpace(cwd) == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("resolve working directory: %w", err)
		}
		cwd = wd
	}

	env := opts.Env
	if env == nil {
		env = osEnvMap()
	}

	if explicit := strings.TrimSpace(opts.ExplicitPath); explicit != "" {
		if err := mergeFile(&cfg, explicit, true); err != nil {
			return Config{}, err
		}
	} else {
		userPath, err := UserConfigPath()
		if err != nil {
			return Config{}, err
		}
		if err := mergeFile(&cfg, userPath, false); err != nil {
			return Config{}, err
		}
		if err := mergeFile(&cfg, ProjectConfigPath(cwd), false); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnvOverrides(&cfg, env); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func mergeFile(cfg *Config, path string, required bool) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file does not exist: %s", path)
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(payload, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Version != nil {
		cfg.Version = *fc.Version
	}
	if fc.Library.SourceDir != nil {
		cfg.Library.SourceDir = strings.TrimSpace(*fc.Library.SourceDir)
	}
	if fc.Library.TargetDir != nil {
		cfg.Library.TargetDir = strings.TrimSpace(*fc.Library.TargetDir)
	}
	if fc.IMVDB.BaseURL != nil {
		cfg.IMVDB.BaseURL = strings.TrimSpace(*fc.IMVDB.BaseURL)
	}
	if fc.Tools.YTDLP != nil {
		cfg.Tools.YTDLP = strings.TrimSpace(*fc.Tools.YTDLP)
	}
	if fc.Tools.FFprobe != nil {
		cfg.Tools.FFprobe = strings.TrimSpace(*fc.Tools.FFprobe)
	}
	if fc.Tools.InfoTimeoutSeconds != nil {
		cfg.Tools.InfoTimeoutSeconds = *fc.Tools.InfoTimeoutSeconds
	}
	if fc.Tools.DownloadTimeoutSeconds != nil {
		cfg.Tools.DownloadTimeoutSeconds = *fc.Tools.DownloadTimeoutSeconds
	}
	if fc.Naming.SceneMode != nil {
		cfg.Naming.SceneMode = *fc.Naming.SceneMode
	}

	return nil
}

func applyEnvOverrides(cfg *Config, env map[string]string) error {
	if value := strings.TrimSpace(env["IMVDB_API_KEY"]); value != "" {
		cfg.IMVDB.APIKey = value
	}
	if value := strings.TrimSpace(env["MVORG_IMVDB_BASE_URL"]); value != "" {
		cfg.IMVDB.BaseURL = value
	}
	if value := strings.TrimSpace(env["MVORG_SOURCE_DIR"]); value != "" {
		cfg.Library.SourceDir = value
	}
	if value := strings.TrimSpace(env["MVORG_TARGET_DIR"]); value != "" {
		cfg.Library.TargetDir = value
	}
	if value := strings.TrimSpace(env["MVORG_YT_DLP"]); value != "" {
		cfg.Tools.YTDLP = value
	}
	if value := strings.TrimSpace(env["MVORG_FFPROBE"]); value != "" {
		cfg.Tools.FFprobe = value
	}
	if value := strings.TrimSpace(env["MVORG_INFO_TIMEOUT_SECONDS"]); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MVORG_INFO_TIMEOUT_SECONDS value %q: %w", value, err)
		}
		cfg.Tools.InfoTimeoutSeconds = parsed
	}
	if value := strings.TrimSpace(env["MVORG_DOWNLOAD_TIMEOUT_SECONDS"]); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MVORG_DOWNLOAD_TIMEOUT_SECONDS value %q: %w", value, err)
		}
		cfg.Tools.DownloadTimeoutSeconds = parsed
	}
	return nil
}

func osEnvMap() map[string]string {
	result := map[string]string{}
	for _, pair := range os.Environ() {
		pieces := strings.SplitN(pair, "=", 2)
		if len(pieces) == 2 {
			result[pieces[0]] = pieces[1]
		}
	}
	return result
}
