package organize

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/jaa/mvorg/internal/resolve"
)

// NFOFileName is the sidecar filename Kodi looks for next to a music video.
const NFOFileName = "video.nfo"

type nfoCredit struct {
	Role string `xml:"role,attr"`
	Name string `xml:",chardata"`
}

type nfoCredits struct {
	Credits []nfoCredit `xml:"credit"`
}

type musicVideoNFO struct {
	XMLName     xml.Name    `xml:"musicvideo"`
	Title       string      `xml:"title"`
	Artist      string      `xml:"artist"`
	Year        int         `xml:"year,omitempty"`
	Directors   []string    `xml:"director,omitempty"`
	AspectRatio string      `xml:"aspectratio,omitempty"`
	YouTubeID   string      `xml:"youtube_id,omitempty"`
	IMVDBURL    string      `xml:"imvdb_url,omitempty"`
	IMVDBID     int64       `xml:"imvdb_id,omitempty"`
	Views       int64       `xml:"views,omitempty"`
	Thumb       string      `xml:"thumb,omitempty"`
	Credits     *nfoCredits `xml:"credits,omitempty"`
}

// WriteNFO writes a Kodi-compatible musicvideo sidecar for the record.
func WriteNFO(path string, record resolve.Record) error {
	doc := musicVideoNFO{
		Title:       record.Song,
		Artist:      record.Artist,
		Year:        record.Year,
		Directors:   record.Directors,
		AspectRatio: record.AspectRatio,
		YouTubeID:   record.YouTubeID,
		IMVDBURL:    record.IMVDBURL,
		IMVDBID:     record.IMVDBID,
		Views:       record.Views,
		Thumb:       record.Thumbnail,
	}
	if len(record.Credits) > 0 {
		credits := &nfoCredits{}
		for _, credit := range record.Credits {
			credits.Credits = append(credits.Credits, nfoCredit{Role: credit.Role, Name: credit.Name})
		}
		doc.Credits = credits
	}

	payload, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal nfo: %w", err)
	}

	content := []byte(xml.Header)
	content = append(content, payload...)
	content = append(content, '\n')

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write nfo %s: %w", path, err)
	}
	return nil
}
