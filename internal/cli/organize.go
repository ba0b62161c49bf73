package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jaa/mvorg/internal/config"
	"github.com/jaa/mvorg/internal/engine"
	"github.com/jaa/mvorg/internal/execrun"
	"github.com/jaa/mvorg/internal/exitcode"
	"github.com/jaa/mvorg/internal/ffprobe"
	"github.com/jaa/mvorg/internal/imvdb"
	"github.com/jaa/mvorg/internal/output"
	"github.com/jaa/mvorg/internal/resolve"
	"github.com/jaa/mvorg/internal/ytdlp"
)

func newOrganizeCommand(app *AppContext) *cobra.Command {
	var sourceDir string
	var sceneMode bool

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Scan a directory and organize music videos into the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return withExitCode(exitcode.InvalidConfig, err)
			}
			if source := strings.TrimSpace(sourceDir); source != "" {
				cfg.Library.SourceDir = source
			}
			if cmd.Flags().Changed("scene") {
				cfg.Naming.SceneMode = sceneMode
			}
			if err := config.Validate(cfg, config.ModeOrganize); err != nil {
				return withExitCode(exitcode.InvalidConfig, err)
			}

			sourceRoot, err := config.ExpandPath(cfg.Library.SourceDir)
			if err != nil {
				return withExitCode(exitcode.InvalidConfig, err)
			}
			targetRoot, err := config.ExpandPath(cfg.Library.TargetDir)
			if err != nil {
				return withExitCode(exitcode.InvalidConfig, err)
			}

			tools := buildToolchain(app, cfg)

			var resolver *resolve.Resolver
			if strings.TrimSpace(cfg.IMVDB.APIKey) != "" {
				resolver = resolve.NewResolver(imvdb.NewClient(cfg.IMVDB.BaseURL, cfg.IMVDB.APIKey), tools.ytdlp)
			} else {
				// No metadata credential; identification runs on the
				// YouTube fallback alone.
				resolver = resolve.NewResolver(nil, tools.ytdlp)
			}

			organizer := &engine.Organizer{
				Resolver:   resolver,
				Prober:     tools.ffprobe,
				Media:      tools.ytdlp,
				Emitter:    buildEmitter(app),
				TargetRoot: targetRoot,
				SceneMode:  cfg.Naming.SceneMode,
				DryRun:     app.Opts.DryRun,
			}

			ctx, stop := signal.NotifyContext(context.Background(), interruptSignals()...)
			defer stop()

			result, runErr := organizer.Run(ctx, sourceRoot)
			if runErr != nil {
				return withExitCode(exitcode.RuntimeFailure, runErr)
			}
			return runResultError(result, "organize")
		},
	}

	cmd.Flags().StringVarP(&sourceDir, "source", "s", "", "Directory to scan for loose video files (overrides config)")
	cmd.Flags().BoolVarP(&sceneMode, "scene", "o", false, "Parse scene-style release names (dots, junk tags)")
	return cmd
}

type toolchain struct {
	ytdlp   *ytdlp.Client
	ffprobe *ffprobe.Prober
}

func buildToolchain(app *AppContext, cfg config.Config) toolchain {
	runnerStdout := io.Writer(app.IO.Out)
	runnerStderr := io.Writer(app.IO.ErrOut)
	if app.Opts.JSON {
		// Keep stdout clean for the event stream.
		runnerStdout = app.IO.ErrOut
	} else if app.Opts.Quiet {
		runnerStdout = io.Discard
		runnerStderr = io.Discard
	}
	runner := execrun.NewSubprocessRunner(runnerStdout, runnerStderr)

	return toolchain{
		ytdlp: ytdlp.NewClient(
			ytdlp.BinaryPath(cfg.Tools.YTDLP, cfg.Tools.WinMode),
			runner,
			time.Duration(cfg.Tools.InfoTimeoutSeconds)*time.Second,
			time.Duration(cfg.Tools.DownloadTimeoutSeconds)*time.Second,
		),
		ffprobe: ffprobe.NewProber(ytdlp.BinaryPath(cfg.Tools.FFprobe, cfg.Tools.WinMode), runner),
	}
}

func buildEmitter(app *AppContext) output.EventEmitter {
	if app.Opts.JSON {
		return output.NewJSONEmitter(app.IO.Out)
	}
	return output.NewHumanEmitter(app.IO.Out, app.IO.ErrOut, app.Opts.Quiet, app.Opts.Verbose)
}

func runResultError(result engine.RunResult, verb string) error {
	if result.Interrupted {
		return withExitCode(exitcode.Interrupted, fmt.Errorf("%s interrupted: %s", verb, result.Summary()))
	}
	// Per-item failures are already summarized in the event stream; a run
	// that made it to the end exits zero.
	return nil
}
