// Package scan extracts artist/song candidates from music-video filenames
// and enumerates video files under a source root.
package scan

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Parsed is the best-effort artist/song split of a filename. OK is false when
// no separator pattern matched; Artist/Song still carry usable search terms.
type Parsed struct {
	Artist       string
	Song         string
	SongOriginal string
	ExtraInfo    string
	OK           bool
}

var (
	parentheticalPattern = regexp.MustCompile(`\s*[(\[{].*?[)\]}]\s*`)
	parentheticalExtract = regexp.MustCompile(`[(\[{].*?[)\]}]`)
	featuringPattern     = regexp.MustCompile(`(?i)\s+featuring\.?\s+.*$`)
	multiSpacePattern    = regexp.MustCompile(`\s+`)
	looseDashPattern     = regexp.MustCompile(`\s*-\s*`)

	// Release/rip tags that must never survive into artist or song strings.
	junkTokenPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^\d{3,4}p$`),
		regexp.MustCompile(`(?i)^web-?dl$`),
		regexp.MustCompile(`(?i)^web-?rip$`),
		regexp.MustCompile(`(?i)^blu-?ray$`),
		regexp.MustCompile(`(?i)^hdtv$`),
		regexp.MustCompile(`(?i)^[xh]26[45]$`),
		regexp.MustCompile(`(?i)^xvid$`),
		regexp.MustCompile(`(?i)^divx$`),
		regexp.MustCompile(`(?i)^aac\d?$`),
		regexp.MustCompile(`(?i)^ac3$`),
		regexp.MustCompile(`(?i)^dts$`),
		regexp.MustCompile(`(?i)^proper$`),
		regexp.MustCompile(`(?i)^repack$`),
		regexp.MustCompile(`(?i)^remux$`),
		regexp.MustCompile(`(?i)rip$`),
	}

	// Scene-release junk stripped from the end of oddly named files before
	// any separator heuristics run.
	sceneJunkPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)[-.]svcd.*$`),
		regexp.MustCompile(`(?i)[-.]dvdrip.*$`),
		regexp.MustCompile(`(?i)[-.]vcdrip.*$`),
		regexp.MustCompile(`(?i)[-.]x264.*$`),
		regexp.MustCompile(`(?i)[-.]xvid.*$`),
		regexp.MustCompile(`(?i)[-.]ac3.*$`),
		regexp.MustCompile(`(?i)[-.]mv$`),
		regexp.MustCompile(`(?i)[-.]mb$`),
		regexp.MustCompile(`\[.*?\]`),
		regexp.MustCompile(`(?i)\(official video\)`),
		regexp.MustCompile(`(?i)\(official\)`),
		regexp.MustCompile(`"`),
		regexp.MustCompile(`＂`),
	}
)

// Parse splits a filename (with or without extension) into artist and song.
// Standard mode expects "Artist - Song" ordering; scene mode tolerates
// dotted scene naming, " by " separators, and trailing release-group junk.
func Parse(filename string, scene bool) Parsed {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	if scene {
		return parseScene(name)
	}
	return parseStandard(name)
}

func parseStandard(name string) Parsed {
	name = strings.ReplaceAll(name, "_", " ")
	name = collapseSpaces(name)

	if artist, songPart, ok := strings.Cut(name, " - "); ok {
		return splitSong(artist, songPart)
	}

	// No separator: hand the whole cleaned name back as a search term.
	return Parsed{
		Song:         stripJunkTokens(name),
		SongOriginal: name,
	}
}

func parseScene(name string) Parsed {
	for _, pattern := range sceneJunkPatterns {
		name = pattern.ReplaceAllString(name, "")
	}

	// Double dots separate fields in some scene names; keep that boundary
	// as a dash candidate before flattening single dots to spaces.
	name = strings.ReplaceAll(name, "..", " . ")
	name = strings.ReplaceAll(name, ".", " ")
	name = strings.ReplaceAll(name, "_", " ")
	name = collapseSpaces(name)

	if artist, songPart, ok := strings.Cut(name, " - "); ok {
		return splitSong(artist, songPart)
	}

	if idx := strings.Index(strings.ToLower(name), " by "); idx >= 0 {
		artist := featuringPattern.ReplaceAllString(name[:idx], "")
		return splitSong(artist, name[idx+4:])
	}

	if parts := looseDashPattern.Split(name, -1); len(parts) >= 2 {
		// Second field is the song; anything after is release junk.
		return splitSong(parts[0], parts[1])
	}

	return Parsed{
		Song:         stripJunkTokens(name),
		SongOriginal: name,
	}
}

func splitSong(artist, songPart string) Parsed {
	artist = strings.TrimSpace(artist)
	songPart = strings.TrimSpace(songPart)

	songClean := strings.TrimSpace(parentheticalPattern.ReplaceAllString(songPart, " "))
	extra := strings.Join(parentheticalExtract.FindAllString(songPart, -1), " ")

	return Parsed{
		Artist:       stripJunkTokens(artist),
		Song:         stripJunkTokens(songClean),
		SongOriginal: songPart,
		ExtraInfo:    extra,
		OK:           true,
	}
}

func stripJunkTokens(s string) string {
	words := strings.Fields(s)
	kept := words[:0]
	for _, word := range words {
		if isJunkToken(word) {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

func isJunkToken(word string) bool {
	if strings.Trim(word, "-.") == "" {
		return true
	}
	for _, pattern := range junkTokenPatterns {
		if pattern.MatchString(word) {
			return true
		}
	}
	return false
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(s, " "))
}
