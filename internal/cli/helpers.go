package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jaa/mvorg/internal/config"
)

// loadConfig builds the effective config and layers the global flags on top.
func loadConfig(app *AppContext) (config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("resolve working directory: %w", err)
	}

	cfg, err := config.Load(config.LoadOptions{
		ExplicitPath: strings.TrimSpace(app.Opts.ConfigPath),
		WorkingDir:   wd,
	})
	if err != nil {
		return config.Config{}, err
	}

	if target := strings.TrimSpace(app.Opts.TargetDir); target != "" {
		cfg.Library.TargetDir = target
	}
	cfg.Tools.WinMode = app.Opts.WinMode

	return cfg, nil
}
