package resolve

// MetadataSource identifies which service produced a Record.
type MetadataSource string

const (
	SourceIMVDB   MetadataSource = "imvdb"
	SourceYouTube MetadataSource = "youtube"
)

type Credit struct {
	Role string
	Name string
}

// Record is a normalized metadata record. Fields are validated at the
// resolver boundary; downstream components never see missing-field
// ambiguity beyond documented zero values.
type Record struct {
	Artist      string
	Song        string
	Directors   []string
	Credits     []Credit
	Year        int
	YouTubeID   string
	IMVDBID     int64
	IMVDBURL    string
	AspectRatio string
	Thumbnail   string
	Views       int64
	Source      MetadataSource
}

// MatchResult is the tagged outcome of a lookup: Matched carries a Record,
// otherwise the item is NotFound. No partial state is modeled; the first
// acceptable candidate wins.
type MatchResult struct {
	Matched bool
	Record  Record
}

func NotFound() MatchResult {
	return MatchResult{}
}

func Matched(record Record) MatchResult {
	return MatchResult{Matched: true, Record: record}
}
