// Package resolve matches parsed filenames against the IMVDB metadata
// service, with a YouTube search fallback.
package resolve

import (
	"context"

	"github.com/apex/log"

	"github.com/jaa/mvorg/internal/imvdb"
	"github.com/jaa/mvorg/internal/scan"
	"github.com/jaa/mvorg/internal/ytdlp"
)

// MetadataService is the slice of the IMVDB client the resolver needs.
type MetadataService interface {
	SearchVideos(ctx context.Context, query string) (*imvdb.SearchPage, error)
	VideoDetails(ctx context.Context, id int64) (*imvdb.VideoDetails, error)
	EntityVideos(ctx context.Context, slug string, page int) (*imvdb.SearchPage, error)
}

// VideoSearcher is the slice of the yt-dlp client used for fallback search.
type VideoSearcher interface {
	Lookup(ctx context.Context, queryOrURL string) (*ytdlp.Info, error)
}

type Resolver struct {
	Metadata MetadataService
	YouTube  VideoSearcher
}

func NewResolver(metadata MetadataService, youtube VideoSearcher) *Resolver {
	return &Resolver{Metadata: metadata, YouTube: youtube}
}

// Resolve looks the parsed artist/song pair up on IMVDB and falls back to a
// YouTube search when IMVDB has no acceptable candidate. Service errors are
// non-fatal: they resolve to NotFound for this item and the caller moves on.
func (r *Resolver) Resolve(ctx context.Context, parsed scan.Parsed) MatchResult {
	logger := log.WithField("artist", parsed.Artist).WithField("song", parsed.Song)

	if result := r.resolveDirect(ctx, parsed, logger); result.Matched {
		return result
	}
	return r.resolveFallback(ctx, parsed, logger)
}

func (r *Resolver) resolveDirect(ctx context.Context, parsed scan.Parsed, logger log.Interface) MatchResult {
	if r.Metadata == nil {
		return NotFound()
	}

	query := parsed.Artist + " " + parsed.Song
	page, err := r.Metadata.SearchVideos(ctx, query)
	if err != nil {
		logger.WithError(err).Warn("imvdb search failed")
		return NotFound()
	}

	candidate := pickCandidate(page.Results, parsed)
	if candidate == nil {
		return NotFound()
	}

	record := Record{
		Artist: candidate.Artists[0].Name,
		Song:   candidate.SongTitle,
		Year:   candidate.Year,
		Source: SourceIMVDB,
	}

	details, err := r.Metadata.VideoDetails(ctx, candidate.ID)
	if err != nil {
		// The search hit alone is still a usable match.
		logger.WithError(err).Warn("imvdb details fetch failed")
		r.backfillYouTube(ctx, &record, logger)
		return Matched(record)
	}

	if details.Year != 0 {
		record.Year = details.Year
	}
	record.IMVDBID = details.ID
	record.IMVDBURL = details.URL
	record.AspectRatio = details.AspectRatio
	record.YouTubeID = details.YouTubeID()
	if details.Image != nil {
		record.Thumbnail = details.Image.Original
	}
	if details.Popularity != nil {
		record.Views = details.Popularity.ViewsAllTime
	}
	for _, director := range details.Directors {
		record.Directors = append(record.Directors, director.EntityName)
	}
	for _, crew := range details.Credits.Crew {
		record.Credits = append(record.Credits, Credit{Role: crew.PositionName, Name: crew.EntityName})
	}

	logger.WithField("imvdb_id", record.IMVDBID).Debug("matched on imvdb")
	r.backfillYouTube(ctx, &record, logger)
	return Matched(record)
}

// backfillYouTube fills a missing media source (and year) from a YouTube
// search. IMVDB lists no playable source for many entries; without one the
// item could never be quality-compared or upgraded. The IMVDB match already
// passed the similarity gate, so the top search hit is taken as-is.
func (r *Resolver) backfillYouTube(ctx context.Context, record *Record, logger log.Interface) {
	if record.YouTubeID != "" || r.YouTube == nil {
		return
	}

	info, err := r.YouTube.Lookup(ctx, record.Artist+" "+record.Song)
	if err != nil {
		logger.WithError(err).Warn("youtube source backfill failed")
		return
	}
	if info == nil || info.ID == "" {
		return
	}

	record.YouTubeID = info.ID
	if record.Year == 0 {
		record.Year = info.UploadYear()
	}
	logger.WithField("youtube_id", record.YouTubeID).Debug("backfilled media source from youtube")
}

// pickCandidate returns the first search result whose artist and song both
// clear the similarity threshold against the parsed strings.
func pickCandidate(results []imvdb.Video, parsed scan.Parsed) *imvdb.Video {
	for i := range results {
		candidate := &results[i]
		if len(candidate.Artists) == 0 || candidate.Artists[0].Name == "" || candidate.SongTitle == "" {
			continue
		}
		if Similarity(parsed.Artist, candidate.Artists[0].Name) < SimilarityThreshold {
			continue
		}
		if Similarity(parsed.Song, candidate.SongTitle) < SimilarityThreshold {
			continue
		}
		return candidate
	}
	return nil
}

func (r *Resolver) resolveFallback(ctx context.Context, parsed scan.Parsed, logger log.Interface) MatchResult {
	if r.YouTube == nil {
		return NotFound()
	}

	info, err := r.YouTube.Lookup(ctx, parsed.Artist+" "+parsed.Song)
	if err != nil {
		logger.WithError(err).Warn("youtube fallback search failed")
		return NotFound()
	}
	if info == nil || info.ID == "" {
		return NotFound()
	}

	if Similarity(parsed.Artist+" "+parsed.Song, info.Title) < SimilarityThreshold {
		logger.WithField("title", info.Title).Debug("youtube top result below similarity threshold")
		return NotFound()
	}

	record := Record{
		Artist:    parsed.Artist,
		Song:      parsed.Song,
		YouTubeID: info.ID,
		Year:      info.UploadYear(),
		Source:    SourceYouTube,
	}
	// Prefer the platform's own track metadata over filename guesses.
	if info.Artist != "" {
		record.Artist = info.Artist
	}
	if info.Track != "" {
		record.Song = info.Track
	}

	logger.WithField("youtube_id", record.YouTubeID).Debug("matched via youtube fallback")
	return Matched(record)
}
