package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/jaa/mvorg/internal/ffprobe"
	"github.com/jaa/mvorg/internal/fileops"
	"github.com/jaa/mvorg/internal/organize"
	"github.com/jaa/mvorg/internal/output"
	"github.com/jaa/mvorg/internal/quality"
	"github.com/jaa/mvorg/internal/resolve"
	"github.com/jaa/mvorg/internal/scan"
	"github.com/jaa/mvorg/internal/ytdlp"
)

// MetadataResolver resolves a parsed filename to a metadata record.
type MetadataResolver interface {
	Resolve(ctx context.Context, parsed scan.Parsed) resolve.MatchResult
}

// Prober reads local media attributes.
type Prober interface {
	Probe(ctx context.Context, path string) (ffprobe.Info, error)
}

// MediaClient probes remote formats and downloads remote media.
type MediaClient interface {
	Formats(ctx context.Context, id string) (*ytdlp.Info, error)
	Download(ctx context.Context, id, outPath string) error
}

// RunResult is the end-of-run summary. Failed counts items only; the run
// itself finishes regardless.
type RunResult struct {
	Scanned     int
	Organized   int
	Upgraded    int
	Skipped     int
	Failed      int
	Interrupted bool
}

func (r RunResult) Summary() string {
	return fmt.Sprintf("scanned=%d organized=%d upgraded=%d skipped=%d failed=%d",
		r.Scanned, r.Organized, r.Upgraded, r.Skipped, r.Failed)
}

// Organizer runs the per-file pipeline: parse, resolve, compare, organize.
// Files are processed sequentially and independently.
type Organizer struct {
	Resolver   MetadataResolver
	Prober     Prober
	Media      MediaClient
	Emitter    output.EventEmitter
	Now        func() time.Time
	TargetRoot string
	SceneMode  bool
	DryRun     bool
}

func (o *Organizer) emit(level output.Level, name output.EventName, item, message string, details map[string]any) {
	if o.Emitter == nil {
		return
	}
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	_ = o.Emitter.Emit(output.Event{
		Timestamp: now(),
		Level:     level,
		Event:     name,
		Item:      item,
		Message:   message,
		Details:   details,
	})
}

// Run walks sourceRoot and processes every video file beneath it.
func (o *Organizer) Run(ctx context.Context, sourceRoot string) (RunResult, error) {
	result := RunResult{}

	files, err := scan.Videos(sourceRoot)
	if err != nil {
		return result, fmt.Errorf("scan source directory %s: %w", sourceRoot, err)
	}

	o.emit(output.LevelInfo, output.EventRunStarted, "",
		fmt.Sprintf("organize started (%d file(s))", len(files)),
		map[string]any{"total": len(files), "dry_run": o.DryRun})

	for _, path := range files {
		if ctx.Err() != nil {
			result.Interrupted = true
			break
		}
		result.Scanned++
		o.processFile(ctx, path, &result)
	}

	level := output.LevelInfo
	message := "organize finished: " + result.Summary()
	if result.Interrupted {
		level = output.LevelError
		message = "organize interrupted: " + result.Summary()
	}
	o.emit(level, output.EventRunFinished, "", message, map[string]any{
		"scanned":   result.Scanned,
		"organized": result.Organized,
		"upgraded":  result.Upgraded,
		"skipped":   result.Skipped,
		"failed":    result.Failed,
	})

	return result, nil
}

func (o *Organizer) processFile(ctx context.Context, path string, result *RunResult) {
	base := filepath.Base(path)
	o.emit(output.LevelInfo, output.EventItemStarted, path, "processing "+base, nil)

	parsed := scan.Parse(base, o.SceneMode)
	if !parsed.OK {
		// Best-effort terms still go to the resolver; just note it.
		itemErr := &ItemError{Kind: ErrKindParse, Path: path}
		o.emit(output.LevelWarn, output.EventItemStarted, path,
			fmt.Sprintf("%s: no separator matched, searching with %q", base, strings.TrimSpace(parsed.Artist+" "+parsed.Song)),
			map[string]any{"error_kind": string(itemErr.Kind)})
	}

	match := o.Resolver.Resolve(ctx, parsed)
	if !match.Matched {
		result.Skipped++
		o.emit(output.LevelWarn, output.EventItemSkipped, path,
			fmt.Sprintf("%s: no metadata match, leaving in place", base),
			map[string]any{"error_kind": string(ErrKindLookup)})
		return
	}
	record := match.Record
	entry := organize.Plan(o.TargetRoot, record, path, parsed.ExtraInfo)

	if o.DryRun {
		// Report the plan only; no probes, no yt-dlp, no filesystem.
		result.Organized++
		o.emit(output.LevelInfo, output.EventItemOrganized, path,
			fmt.Sprintf("%s -> %s (dry-run)", base, entry.TargetPath()),
			map[string]any{"dry_run": true, "target": entry.TargetPath()})
		return
	}

	decision, localInfo := o.decide(ctx, path, record)

	if decision == quality.DownloadUpgrade && !strings.Contains(strings.ToLower(base), strings.ToLower(organize.OriginalSuffix)) {
		o.upgrade(ctx, path, entry, record, result)
		return
	}

	moved, err := organize.Place(entry, path, record)
	if err != nil {
		result.Failed++
		itemErr := &ItemError{Kind: ErrKindFilesystem, Path: path, Err: err}
		o.emit(output.LevelError, output.EventItemFailed, path, itemErr.Error(),
			map[string]any{"error_kind": string(itemErr.Kind)})
		return
	}

	if !moved {
		result.Skipped++
		o.emit(output.LevelInfo, output.EventItemSkipped, path,
			fmt.Sprintf("%s already organized at %s", base, entry.TargetPath()),
			map[string]any{"target": entry.TargetPath()})
		return
	}

	result.Organized++
	details := map[string]any{"target": entry.TargetPath(), "decision": decision.String()}
	if localInfo != nil {
		details["local_height"] = localInfo.Height
		details["local_bitrate_kbps"] = localInfo.BitrateKbps
	}
	o.emit(output.LevelInfo, output.EventItemOrganized, path,
		fmt.Sprintf("%s -> %s", base, entry.TargetPath()), details)
}

// decide probes the local file and the remote candidate and picks a quality
// decision. Without a remote reference there is nothing to compare.
func (o *Organizer) decide(ctx context.Context, path string, record resolve.Record) (quality.Decision, *ffprobe.Info) {
	var localInfo *ffprobe.Info
	probed, probeErr := ffprobe.Info{}, error(nil)
	if o.Prober != nil {
		probed, probeErr = o.Prober.Probe(ctx, path)
		if probeErr != nil {
			log.WithField("path", path).WithError(probeErr).Warn("local probe failed, quality unknown")
		} else {
			localInfo = &probed
		}
	}

	if record.YouTubeID == "" || o.Media == nil {
		if localInfo != nil && quality.IsStaticImage(*localInfo) {
			return quality.LocalIsStaticImage, localInfo
		}
		return quality.KeepLocalOnly, localInfo
	}

	var remote *quality.Remote
	if formats, err := o.Media.Formats(ctx, record.YouTubeID); err != nil {
		log.WithField("youtube_id", record.YouTubeID).WithError(err).Warn("remote format probe failed")
	} else {
		remote = &quality.Remote{Height: formats.Height, BitrateKbps: formats.VideoBitrate}
	}

	return quality.Compare(localInfo, remote), localInfo
}

func (o *Organizer) upgrade(ctx context.Context, path string, entry organize.Entry, record resolve.Record, result *RunResult) {
	base := filepath.Base(path)

	if err := os.MkdirAll(entry.TargetDir, 0o755); err != nil {
		result.Failed++
		itemErr := &ItemError{Kind: ErrKindFilesystem, Path: path, Err: err}
		o.emit(output.LevelError, output.EventItemFailed, path, itemErr.Error(),
			map[string]any{"error_kind": string(itemErr.Kind)})
		return
	}

	downloadPath := entry.DownloadPath()
	if fileops.Exists(downloadPath) && filepath.Clean(path) != filepath.Clean(downloadPath) {
		// A previous run already fetched the upgrade; just tuck the
		// original alongside it.
		if _, err := organize.PreserveOriginal(entry, path); err != nil {
			result.Failed++
			itemErr := &ItemError{Kind: ErrKindFilesystem, Path: path, Err: err}
			o.emit(output.LevelError, output.EventItemFailed, path, itemErr.Error(),
				map[string]any{"error_kind": string(itemErr.Kind)})
			return
		}
		result.Skipped++
		o.emit(output.LevelInfo, output.EventItemSkipped, path,
			fmt.Sprintf("%s: upgrade already present at %s", base, downloadPath),
			map[string]any{"target": downloadPath})
		return
	}

	// Download beside the target first. The original stays untouched until
	// the new file is fully on disk, even when the original already sits at
	// the download path itself.
	partPath := downloadPath + ".part"
	if err := o.Media.Download(ctx, record.YouTubeID, partPath); err != nil {
		_ = os.Remove(partPath)

		// Partial success: the original is still organized under its
		// normal name.
		itemErr := &ItemError{Kind: ErrKindDownload, Path: path, Err: err}
		o.emit(output.LevelWarn, output.EventItemFailed, path,
			fmt.Sprintf("%s: upgrade download failed, keeping original: %v", base, err),
			map[string]any{"error_kind": string(itemErr.Kind)})

		if _, placeErr := organize.Place(entry, path, record); placeErr != nil {
			result.Failed++
			o.emit(output.LevelError, output.EventItemFailed, path, placeErr.Error(),
				map[string]any{"error_kind": string(ErrKindFilesystem)})
			return
		}
		result.Organized++
		return
	}

	originalPath, err := organize.PreserveOriginal(entry, path)
	if err != nil {
		_ = os.Remove(partPath)
		result.Failed++
		itemErr := &ItemError{Kind: ErrKindFilesystem, Path: path, Err: err}
		o.emit(output.LevelError, output.EventItemFailed, path, itemErr.Error(),
			map[string]any{"error_kind": string(itemErr.Kind)})
		return
	}

	if err := fileops.Move(partPath, downloadPath); err != nil {
		result.Failed++
		itemErr := &ItemError{Kind: ErrKindFilesystem, Path: path, Err: err}
		o.emit(output.LevelError, output.EventItemFailed, path, itemErr.Error(),
			map[string]any{"error_kind": string(itemErr.Kind)})
		return
	}

	if err := organize.WriteNFO(entry.NFOPath, record); err != nil {
		result.Failed++
		o.emit(output.LevelError, output.EventItemFailed, path, err.Error(),
			map[string]any{"error_kind": string(ErrKindFilesystem)})
		return
	}

	result.Upgraded++
	o.emit(output.LevelInfo, output.EventItemUpgraded, path,
		fmt.Sprintf("%s upgraded -> %s (original kept as %s)", base, entry.DownloadPath(), filepath.Base(originalPath)),
		map[string]any{
			"download": entry.DownloadPath(),
			"original": originalPath,
		})
}
