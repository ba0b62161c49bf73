package cli

import (
	"context"
	"errors"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaa/mvorg/internal/config"
	"github.com/jaa/mvorg/internal/engine"
	"github.com/jaa/mvorg/internal/exitcode"
	"github.com/jaa/mvorg/internal/imvdb"
)

func newScrapeCommand(app *AppContext) *cobra.Command {
	var artistSlug string
	var directorSlug string

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Download an artist's or director's full catalog from IMVDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			artist := strings.TrimSpace(artistSlug)
			director := strings.TrimSpace(directorSlug)
			if (artist == "") == (director == "") {
				return withExitCode(exitcode.InvalidUsage,
					errors.New("exactly one of --artist or --director is required"))
			}
			slug := artist
			if slug == "" {
				slug = director
			}

			cfg, err := loadConfig(app)
			if err != nil {
				return withExitCode(exitcode.InvalidConfig, err)
			}
			if err := config.Validate(cfg, config.ModeCatalog); err != nil {
				return withExitCode(exitcode.InvalidConfig, err)
			}

			targetRoot, err := config.ExpandPath(cfg.Library.TargetDir)
			if err != nil {
				return withExitCode(exitcode.InvalidConfig, err)
			}

			tools := buildToolchain(app, cfg)
			catalog := &engine.CatalogRunner{
				Metadata:   imvdb.NewClient(cfg.IMVDB.BaseURL, cfg.IMVDB.APIKey),
				Media:      tools.ytdlp,
				Emitter:    buildEmitter(app),
				TargetRoot: targetRoot,
				DryRun:     app.Opts.DryRun,
			}

			ctx, stop := signal.NotifyContext(context.Background(), interruptSignals()...)
			defer stop()

			result, runErr := catalog.Run(ctx, slug)
			if runErr != nil {
				return withExitCode(exitcode.RuntimeFailure, runErr)
			}
			return runResultError(result, "scrape")
		},
	}

	cmd.Flags().StringVar(&artistSlug, "artist", "", "IMVDB artist slug (e.g. nirvana)")
	cmd.Flags().StringVar(&directorSlug, "director", "", "IMVDB director slug (e.g. spike-jonze)")
	return cmd
}
