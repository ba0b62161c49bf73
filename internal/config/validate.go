package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return "invalid config"
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(e.Problems, "; "))
}

// Mode selects which parts of the config a command actually needs.
type Mode int

const (
	// ModeOrganize requires a readable source directory.
	ModeOrganize Mode = iota
	// ModeCatalog requires the IMVDB API key (catalog scraping has no
	// YouTube-only fallback path).
	ModeCatalog
)

func Validate(cfg Config, mode Mode) error {
	problems := []string{}

	if cfg.Version != 1 {
		problems = append(problems, "version must be 1")
	}

	targetDir, err := ExpandPath(cfg.Library.TargetDir)
	if err != nil || strings.TrimSpace(targetDir) == "" {
		problems = append(problems, "library.target_dir must be set")
	}

	if mode == ModeOrganize {
		sourceDir, srcErr := ExpandPath(cfg.Library.SourceDir)
		if srcErr != nil || strings.TrimSpace(sourceDir) == "" {
			problems = append(problems, "library.source_dir must be set")
		} else if info, statErr := os.Stat(sourceDir); statErr != nil || !info.IsDir() {
			problems = append(problems, fmt.Sprintf("library.source_dir is not a readable directory: %s", sourceDir))
		}
	}

	if mode == ModeCatalog && strings.TrimSpace(cfg.IMVDB.APIKey) == "" {
		problems = append(problems, "IMVDB_API_KEY must be set for catalog scraping")
	}

	if strings.TrimSpace(cfg.IMVDB.BaseURL) == "" {
		problems = append(problems, "imvdb.base_url must be set")
	} else if err := validateURL(cfg.IMVDB.BaseURL); err != nil {
		problems = append(problems, fmt.Sprintf("imvdb.base_url is invalid: %v", err))
	}

	if strings.TrimSpace(cfg.Tools.YTDLP) == "" {
		problems = append(problems, "tools.yt_dlp must be set")
	}
	if strings.TrimSpace(cfg.Tools.FFprobe) == "" {
		problems = append(problems, "tools.ffprobe must be set")
	}
	if cfg.Tools.InfoTimeoutSeconds <= 0 {
		problems = append(problems, "tools.info_timeout_seconds must be > 0")
	}
	if cfg.Tools.DownloadTimeoutSeconds <= 0 {
		problems = append(problems, "tools.download_timeout_seconds must be > 0")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func validateURL(raw string) error {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}
