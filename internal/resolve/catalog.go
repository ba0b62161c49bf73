package resolve

import (
	"context"

	"github.com/jaa/mvorg/internal/imvdb"
)

// Catalog iterates an artist's or director's full IMVDB filmography,
// fetching pages lazily. One pass only; build a new Catalog to re-scan.
type Catalog struct {
	metadata MetadataService
	slug     string

	page int
	buf  []imvdb.Video
	done bool
	err  error
}

func (r *Resolver) Catalog(slug string) *Catalog {
	return &Catalog{metadata: r.Metadata, slug: slug}
}

// Next returns the next video in the catalog, or false when exhausted or
// after an error. Check Err after the loop.
func (c *Catalog) Next(ctx context.Context) (imvdb.Video, bool) {
	for len(c.buf) == 0 {
		if c.done || c.err != nil {
			return imvdb.Video{}, false
		}
		c.fetchPage(ctx)
	}

	video := c.buf[0]
	c.buf = c.buf[1:]
	return video, true
}

func (c *Catalog) Err() error {
	return c.err
}

func (c *Catalog) fetchPage(ctx context.Context) {
	c.page++
	page, err := c.metadata.EntityVideos(ctx, c.slug, c.page)
	if err != nil {
		c.err = err
		return
	}

	c.buf = page.Results
	if len(page.Results) == 0 || (page.TotalPages > 0 && c.page >= page.TotalPages) {
		c.done = true
	}
}

// DetailRecord turns full video details into a normalized Record.
func DetailRecord(details *imvdb.VideoDetails, fallbackArtist string) Record {
	artist := fallbackArtist
	if len(details.Artists) > 0 && details.Artists[0].Name != "" {
		artist = details.Artists[0].Name
	}

	record := Record{
		Artist:      artist,
		Song:        details.SongTitle,
		Year:        details.Year,
		IMVDBID:     details.ID,
		IMVDBURL:    details.URL,
		AspectRatio: details.AspectRatio,
		YouTubeID:   details.YouTubeID(),
		Source:      SourceIMVDB,
	}
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
	return record
}
