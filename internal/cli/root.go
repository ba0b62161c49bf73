// Package cli wires the mvorg commands: organize, scrape, doctor, version.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaa/mvorg/internal/exitcode"
	"github.com/jaa/mvorg/internal/logging"
)

func Execute(build BuildInfo, streams IOStreams) int {
	if wd, err := os.Getwd(); err == nil {
		if envErr := loadDotEnvFiles(wd); envErr != nil {
			fmt.Fprintln(streams.ErrOut, "WARN:", envErr)
		}
	}

	app := &AppContext{Build: build, IO: streams}
	root := newRootCommand(app)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(streams.ErrOut, "ERROR:", err)
		return mapExitCode(err)
	}
	return exitcode.Success
}

func newRootCommand(app *AppContext) *cobra.Command {
	showVersion := false

	root := &cobra.Command{
		Use:   "mvorg",
		Short: "Organize a music video library with IMVDB metadata",
		Long:  "mvorg scans loose music video files, identifies them against IMVDB with a YouTube fallback, and organizes them into an Artist/Artist - Song/ library with Kodi NFO sidecars.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(app.IO.ErrOut, app.Opts.Verbose, app.Opts.Quiet)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				printVersion(app)
				return nil
			}
			return cmd.Help()
		},
		SilenceErrors:     true,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}

	defaultConfigPath := os.Getenv("MVORG_CONFIG")
	root.PersistentFlags().StringVarP(&app.Opts.ConfigPath, "config", "c", defaultConfigPath, "Path to config file")
	root.PersistentFlags().BoolVar(&app.Opts.JSON, "json", false, "Emit newline-delimited JSON events")
	root.PersistentFlags().BoolVarP(&app.Opts.Quiet, "quiet", "q", false, "Reduce output to errors and summary")
	root.PersistentFlags().BoolVarP(&app.Opts.Verbose, "verbose", "v", false, "Increase diagnostic output")
	root.PersistentFlags().BoolVarP(&app.Opts.DryRun, "dry-run", "n", false, "Plan without moving, writing, or downloading anything")
	root.PersistentFlags().BoolVar(&app.Opts.WinMode, "win", false, "Resolve helper binaries next to the executable instead of PATH")
	root.PersistentFlags().StringVarP(&app.Opts.TargetDir, "target", "t", "", "Library root to organize into (overrides config)")
	root.Flags().BoolVar(&showVersion, "version", false, "Print version info")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withExitCode(exitcode.InvalidUsage, err)
	})

	root.AddCommand(newOrganizeCommand(app))
	root.AddCommand(newScrapeCommand(app))
	root.AddCommand(newDoctorCommand(app))
	root.AddCommand(newVersionCommand(app))

	return root
}

func printVersion(app *AppContext) {
	version := app.Build.Version
	if version == "" {
		version = "dev"
	}
	commit := app.Build.Commit
	if commit == "" {
		commit = "unknown"
	}
	date := app.Build.Date
	if date == "" {
		date = "unknown"
	}

	fmt.Fprintf(app.IO.Out, "mvorg version %s\ncommit: %s\nbuild_date: %s\n", version, commit, date)
}
