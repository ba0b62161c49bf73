package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaa/mvorg/internal/imvdb"
	"github.com/jaa/mvorg/internal/scan"
	"github.com/jaa/mvorg/internal/ytdlp"
)

type fakeMetadata struct {
	searchPage  *imvdb.SearchPage
	searchErr   error
	details     map[int64]*imvdb.VideoDetails
	detailsErr  error
	entityPages map[int]*imvdb.SearchPage
	entityErr   error
}

func (f *fakeMetadata) SearchVideos(ctx context.Context, query string) (*imvdb.SearchPage, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.searchPage == nil {
		return &imvdb.SearchPage{}, nil
	}
	return f.searchPage, nil
}

func (f *fakeMetadata) VideoDetails(ctx context.Context, id int64) (*imvdb.VideoDetails, error) {
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	details, ok := f.details[id]
	if !ok {
		return nil, errors.New("unknown video id")
	}
	return details, nil
}

func (f *fakeMetadata) EntityVideos(ctx context.Context, slug string, page int) (*imvdb.SearchPage, error) {
	if f.entityErr != nil {
		return nil, f.entityErr
	}
	result, ok := f.entityPages[page]
	if !ok {
		return &imvdb.SearchPage{CurrentPage: page}, nil
	}
	return result, nil
}

type fakeSearcher struct {
	info *ytdlp.Info
	err  error
}

func (f *fakeSearcher) Lookup(ctx context.Context, queryOrURL string) (*ytdlp.Info, error) {
	return f.info, f.err
}

func nirvanaVideo() imvdb.Video {
	return imvdb.Video{
		ID:        101,
		SongTitle: "Smells Like Teen Spirit",
		Artists:   []imvdb.Entity{{Name: "Nirvana", Slug: "nirvana"}},
		Year:      1991,
	}
}

func nirvanaDetails() *imvdb.VideoDetails {
	details := &imvdb.VideoDetails{
		Video:       nirvanaVideo(),
		AspectRatio: "4:3",
		Directors:   []imvdb.Director{{EntityName: "Samuel Bayer"}},
		Sources: []imvdb.Source{
			{Source: "vimeo", SourceData: "12345"},
			{Source: "youtube", SourceData: "hTWKbfoikeg", IsPrimary: true},
		},
		Popularity: &imvdb.Popularity{ViewsAllTime: 9000},
	}
	details.Credits.Crew = []imvdb.Credit{{PositionName: "Producer", EntityName: "Someone"}}
	return details
}

func TestResolveMatchesOnMetadataService(t *testing.T) {
	metadata := &fakeMetadata{
		searchPage: &imvdb.SearchPage{TotalResults: 1, Results: []imvdb.Video{nirvanaVideo()}},
		details:    map[int64]*imvdb.VideoDetails{101: nirvanaDetails()},
	}
	resolver := NewResolver(metadata, &fakeSearcher{})

	result := resolver.Resolve(context.Background(), scan.Parsed{Artist: "Nirvana", Song: "Smells Like Teen Spirit", OK: true})

	require.True(t, result.Matched)
	assert.Equal(t, "Nirvana", result.Record.Artist)
	assert.Equal(t, "Smells Like Teen Spirit", result.Record.Song)
	assert.Equal(t, 1991, result.Record.Year)
	assert.Equal(t, "hTWKbfoikeg", result.Record.YouTubeID)
	assert.Equal(t, []string{"Samuel Bayer"}, result.Record.Directors)
	assert.Equal(t, int64(9000), result.Record.Views)
	assert.Equal(t, SourceIMVDB, result.Record.Source)
}

func TestResolveDetailsFailureStillMatches(t *testing.T) {
	metadata := &fakeMetadata{
		searchPage: &imvdb.SearchPage{TotalResults: 1, Results: []imvdb.Video{nirvanaVideo()}},
		detailsErr: errors.New("boom"),
	}
	resolver := NewResolver(metadata, nil)

	result := resolver.Resolve(context.Background(), scan.Parsed{Artist: "Nirvana", Song: "Smells Like Teen Spirit", OK: true})

	require.True(t, result.Matched)
	assert.Equal(t, "Nirvana", result.Record.Artist)
	assert.Empty(t, result.Record.YouTubeID)
}

func TestResolveBackfillsMissingYouTubeSource(t *testing.T) {
	details := nirvanaDetails()
	details.Sources = []imvdb.Source{{Source: "vimeo", SourceData: "12345"}}
	metadata := &fakeMetadata{
		searchPage: &imvdb.SearchPage{TotalResults: 1, Results: []imvdb.Video{nirvanaVideo()}},
		details:    map[int64]*imvdb.VideoDetails{101: details},
	}
	searcher := &fakeSearcher{info: &ytdlp.Info{ID: "hTWKbfoikeg", UploadDate: "20091016"}}
	resolver := NewResolver(metadata, searcher)

	result := resolver.Resolve(context.Background(), scan.Parsed{Artist: "Nirvana", Song: "Smells Like Teen Spirit", OK: true})

	require.True(t, result.Matched)
	assert.Equal(t, SourceIMVDB, result.Record.Source)
	assert.Equal(t, "hTWKbfoikeg", result.Record.YouTubeID, "missing source must be backfilled from youtube")
	assert.Equal(t, 1991, result.Record.Year, "a known year is not overwritten by the upload date")
}

func TestResolveBackfillFillsMissingYear(t *testing.T) {
	video := nirvanaVideo()
	video.Year = 0
	metadata := &fakeMetadata{
		searchPage: &imvdb.SearchPage{TotalResults: 1, Results: []imvdb.Video{video}},
		detailsErr: errors.New("boom"),
	}
	searcher := &fakeSearcher{info: &ytdlp.Info{ID: "hTWKbfoikeg", UploadDate: "20091016"}}
	resolver := NewResolver(metadata, searcher)

	result := resolver.Resolve(context.Background(), scan.Parsed{Artist: "Nirvana", Song: "Smells Like Teen Spirit", OK: true})

	require.True(t, result.Matched)
	assert.Equal(t, SourceIMVDB, result.Record.Source)
	assert.Equal(t, "hTWKbfoikeg", result.Record.YouTubeID)
	assert.Equal(t, 2009, result.Record.Year)
}

func TestResolveRejectsDissimilarCandidates(t *testing.T) {
	wrong := nirvanaVideo()
	wrong.SongTitle = "Come As You Are"
	metadata := &fakeMetadata{
		searchPage: &imvdb.SearchPage{TotalResults: 1, Results: []imvdb.Video{wrong}},
	}
	resolver := NewResolver(metadata, nil)

	result := resolver.Resolve(context.Background(), scan.Parsed{Artist: "Nirvana", Song: "Smells Like Teen Spirit", OK: true})
	assert.False(t, result.Matched)
}

func TestResolveFallsBackToVideoSearch(t *testing.T) {
	metadata := &fakeMetadata{searchErr: errors.New("service down")}
	searcher := &fakeSearcher{info: &ytdlp.Info{
		ID:         "hTWKbfoikeg",
		Title:      "Nirvana - Smells Like Teen Spirit (Official Music Video)",
		Artist:     "Nirvana",
		Track:      "Smells Like Teen Spirit",
		UploadDate: "20091016",
	}}
	resolver := NewResolver(metadata, searcher)

	result := resolver.Resolve(context.Background(), scan.Parsed{Artist: "Nirvana", Song: "Smells Like Teen Spirit", OK: true})

	require.True(t, result.Matched)
	assert.Equal(t, SourceYouTube, result.Record.Source)
	assert.Equal(t, "hTWKbfoikeg", result.Record.YouTubeID)
	assert.Equal(t, "Smells Like Teen Spirit", result.Record.Song)
	assert.Equal(t, 2009, result.Record.Year)
}

func TestResolveFallbackBelowThresholdIsNotFound(t *testing.T) {
	searcher := &fakeSearcher{info: &ytdlp.Info{
		ID:    "dQw4w9WgXcQ",
		Title: "Completely Unrelated Cooking Tutorial Episode Twelve",
	}}
	resolver := NewResolver(nil, searcher)

	result := resolver.Resolve(context.Background(), scan.Parsed{Artist: "Nirvana", Song: "Smells Like Teen Spirit", OK: true})
	assert.False(t, result.Matched)
}

func TestResolveWithoutServicesIsNotFound(t *testing.T) {
	resolver := NewResolver(nil, nil)
	result := resolver.Resolve(context.Background(), scan.Parsed{Artist: "Nirvana", Song: "Smells Like Teen Spirit", OK: true})
	assert.False(t, result.Matched)
}

func TestCatalogIteratesAllPages(t *testing.T) {
	first := nirvanaVideo()
	second := nirvanaVideo()
	second.ID = 102
	second.SongTitle = "Come As You Are"

	metadata := &fakeMetadata{entityPages: map[int]*imvdb.SearchPage{
		1: {TotalResults: 2, CurrentPage: 1, TotalPages: 2, Results: []imvdb.Video{first}},
		2: {TotalResults: 2, CurrentPage: 2, TotalPages: 2, Results: []imvdb.Video{second}},
	}}
	catalog := NewResolver(metadata, nil).Catalog("nirvana")

	var ids []int64
	for {
		video, ok := catalog.Next(context.Background())
		if !ok {
			break
		}
		ids = append(ids, video.ID)
	}

	require.NoError(t, catalog.Err())
	assert.Equal(t, []int64{101, 102}, ids)
}

func TestCatalogSurfacesFetchErrors(t *testing.T) {
	metadata := &fakeMetadata{entityErr: errors.New("rate limited")}
	catalog := NewResolver(metadata, nil).Catalog("nirvana")

	_, ok := catalog.Next(context.Background())
	assert.False(t, ok)
	assert.Error(t, catalog.Err())
}

func TestDetailRecordFallsBackToSlugArtist(t *testing.T) {
	details := nirvanaDetails()
	details.Artists = nil

	record := DetailRecord(details, "nirvana")
	assert.Equal(t, "nirvana", record.Artist)
	assert.Equal(t, "Smells Like Teen Spirit", record.Song)
	assert.Equal(t, "hTWKbfoikeg", record.YouTubeID)
}
