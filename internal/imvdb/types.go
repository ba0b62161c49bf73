package imvdb

// Entity is an artist or director as IMVDB returns it.
type Entity struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Image struct {
	Original string `json:"o"`
	Large    string `json:"l"`
}

type Video struct {
	ID        int64    `json:"id"`
	SongTitle string   `json:"song_title"`
	Artists   []Entity `json:"artists"`
	Year      int      `json:"year"`
	URL       string   `json:"url"`
	Image     *Image   `json:"image"`
}

type Credit struct {
	PositionName string `json:"position_name"`
	EntityName   string `json:"entity_name"`
}

type Director struct {
	EntityName string `json:"entity_name"`
	EntitySlug string `json:"entity_slug"`
}

type Source struct {
	Source     string `json:"source"`
	SourceData string `json:"source_data"`
	IsPrimary  bool   `json:"is_primary"`
}

type Popularity struct {
	ViewsAllTime int64 `json:"views_all_time"`
}

type VideoDetails struct {
	Video
	AspectRatio string      `json:"aspect_ratio"`
	Directors   []Director  `json:"directors"`
	Sources     []Source    `json:"sources"`
	Popularity  *Popularity `json:"popularity"`
	Credits     struct {
		Crew []Credit `json:"crew"`
	} `json:"credits"`
}

// YouTubeID returns the primary YouTube source, falling back to the first
// YouTube source of any kind. Empty when the video has none.
func (d *VideoDetails) YouTubeID() string {
	first := ""
	for _, source := range d.Sources {
		if source.Source != "youtube" {
			continue
		}
		if source.IsPrimary {
			return source.SourceData
		}
		if first == "" {
			first = source.SourceData
		}
	}
	return first
}

type SearchPage struct {
	TotalResults int     `json:"total_results"`
	CurrentPage  int     `json:"current_page"`
	TotalPages   int     `json:"total_pages"`
	Results      []Video `json:"results"`
}
