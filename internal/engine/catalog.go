package engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jaa/mvorg/internal/fileops"
	"github.com/jaa/mvorg/internal/organize"
	"github.com/jaa/mvorg/internal/output"
	"github.com/jaa/mvorg/internal/resolve"
)

// CatalogRunner downloads and organizes an artist's or director's full
// filmography from the metadata service's catalog.
type CatalogRunner struct {
	Metadata   resolve.MetadataService
	Media      MediaClient
	Emitter    output.EventEmitter
	Now        func() time.Time
	TargetRoot string
	DryRun     bool
}

func (c *CatalogRunner) emit(level output.Level, name output.EventName, item, message string, details map[string]any) {
	if c.Emitter == nil {
		return
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	_ = c.Emitter.Emit(output.Event{
		Timestamp: now(),
		Level:     level,
		Event:     name,
		Item:      item,
		Message:   message,
		Details:   details,
	})
}

// Run enumerates the entity's videos and fetches each one that has a
// locatable media source and is not already present in the library.
func (c *CatalogRunner) Run(ctx context.Context, slug string) (RunResult, error) {
	result := RunResult{}

	c.emit(output.LevelInfo, output.EventRunStarted, slug,
		fmt.Sprintf("scraping catalog for %s", slug),
		map[string]any{"slug": slug, "dry_run": c.DryRun})

	resolver := resolve.NewResolver(c.Metadata, nil)
	catalog := resolver.Catalog(slug)

	for {
		if ctx.Err() != nil {
			result.Interrupted = true
			break
		}
		video, ok := catalog.Next(ctx)
		if !ok {
			break
		}
		result.Scanned++
		c.processVideo(ctx, slug, video.ID, &result)
	}

	if err := catalog.Err(); err != nil {
		return result, fmt.Errorf("enumerate catalog for %s: %w", slug, err)
	}

	level := output.LevelInfo
	message := "catalog scrape finished: " + result.Summary()
	if result.Interrupted {
		level = output.LevelError
		message = "catalog scrape interrupted: " + result.Summary()
	}
	c.emit(level, output.EventRunFinished, slug, message, map[string]any{
		"scanned":   result.Scanned,
		"organized": result.Organized,
		"skipped":   result.Skipped,
		"failed":    result.Failed,
	})

	return result, nil
}

func (c *CatalogRunner) processVideo(ctx context.Context, slug string, videoID int64, result *RunResult) {
	details, err := c.Metadata.VideoDetails(ctx, videoID)
	if err != nil {
		result.Failed++
		c.emit(output.LevelWarn, output.EventItemFailed, slug,
			fmt.Sprintf("video %d: details fetch failed: %v", videoID, err),
			map[string]any{"error_kind": string(ErrKindLookup), "video_id": videoID})
		return
	}

	record := resolve.DetailRecord(details, slug)
	item := record.Artist + " - " + record.Song
	c.emit(output.LevelInfo, output.EventItemStarted, item, "processing "+item, nil)

	if record.YouTubeID == "" {
		result.Skipped++
		c.emit(output.LevelWarn, output.EventItemSkipped, item,
			item+": no media source, skipping", nil)
		return
	}

	entry := organize.Plan(c.TargetRoot, record, record.Artist+" - "+record.Song+".mp4", "")
	downloadPath := entry.DownloadPath()

	if fileops.Exists(downloadPath) {
		result.Skipped++
		c.emit(output.LevelInfo, output.EventItemSkipped, item,
			item+": already exists, skipping",
			map[string]any{"target": downloadPath})
		return
	}

	if c.DryRun {
		result.Organized++
		c.emit(output.LevelInfo, output.EventItemOrganized, item,
			fmt.Sprintf("%s -> %s (dry-run)", item, downloadPath),
			map[string]any{"dry_run": true, "target": downloadPath})
		return
	}

	if err := os.MkdirAll(entry.TargetDir, 0o755); err != nil {
		result.Failed++
		c.emit(output.LevelError, output.EventItemFailed, item,
			(&ItemError{Kind: ErrKindFilesystem, Path: downloadPath, Err: err}).Error(),
			map[string]any{"error_kind": string(ErrKindFilesystem)})
		return
	}

	if err := c.Media.Download(ctx, record.YouTubeID, downloadPath); err != nil {
		result.Failed++
		c.emit(output.LevelWarn, output.EventItemFailed, item,
			fmt.Sprintf("%s: download failed: %v", item, err),
			map[string]any{"error_kind": string(ErrKindDownload)})
		return
	}

	if err := organize.WriteNFO(entry.NFOPath, record); err != nil {
		result.Failed++
		c.emit(output.LevelError, output.EventItemFailed, item, err.Error(),
			map[string]any{"error_kind": string(ErrKindFilesystem)})
		return
	}

	result.Organized++
	c.emit(output.LevelInfo, output.EventItemOrganized, item,
		fmt.Sprintf("%s -> %s", item, downloadPath),
		map[string]any{"target": downloadPath})
}
