// Package ytdlp drives the yt-dlp helper binary for YouTube lookups,
// format probing, and downloads.
package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/jaa/mvorg/internal/execrun"
)

var youtubeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// Info is the subset of yt-dlp's --dump-json output the organizer uses.
type Info struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Artist         string  `json:"artist"`
	Track          string  `json:"track"`
	UploadDate     string  `json:"upload_date"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	VideoCodec     string  `json:"vcodec"`
	AudioCodec     string  `json:"acodec"`
	VideoBitrate   float64 `json:"vbr"`
	AudioBitrate   float64 `json:"abr"`
	Ext            string  `json:"ext"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
}

// UploadYear returns the four-digit year from UploadDate (YYYYMMDD), or 0.
func (i *Info) UploadYear() int {
	if len(i.UploadDate) < 4 {
		return 0
	}
	year := 0
	if _, err := fmt.Sscanf(i.UploadDate[:4], "%d", &year); err != nil {
		return 0
	}
	return year
}

type Client struct {
	Binary          string
	Runner          execrun.Runner
	InfoTimeout     time.Duration
	DownloadTimeout time.Duration
}

func NewClient(binary string, runner execrun.Runner, infoTimeout, downloadTimeout time.Duration) *Client {
	return &Client{
		Binary:          binary,
		Runner:          runner,
		InfoTimeout:     infoTimeout,
		DownloadTimeout: downloadTimeout,
	}
}

// BinaryPath resolves the yt-dlp binary name. In win mode the helper binary
// lives next to the executable instead of on PATH.
func BinaryPath(configured string, winMode bool) string {
	if !winMode {
		return configured
	}
	exe, err := os.Executable()
	if err != nil {
		return "." + string(filepath.Separator) + configured
	}
	return filepath.Join(filepath.Dir(exe), configured)
}

// WatchURL builds a YouTube watch URL for a video ID.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// Lookup fetches metadata for a video ID, URL, or free-text search query.
// Bare 11-character IDs become watch URLs; anything that is not a URL is
// wrapped in a ytsearch1: query so the top search hit is returned.
func (c *Client) Lookup(ctx context.Context, queryOrURL string) (*Info, error) {
	target := queryOrURL
	switch {
	case youtubeIDPattern.MatchString(target):
		target = WatchURL(target)
	case !strings.HasPrefix(target, "http"):
		target = "ytsearch1:" + target
	}

	return c.dumpJSON(ctx, []string{"--dump-json", "--no-download", "--no-playlist", target})
}

// Formats probes the best available format for a video ID.
func (c *Client) Formats(ctx context.Context, id string) (*Info, error) {
	return c.dumpJSON(ctx, []string{"--dump-json", "--no-download", WatchURL(id)})
}

func (c *Client) dumpJSON(ctx context.Context, args []string) (*Info, error) {
	result := c.Runner.Run(ctx, execrun.Spec{
		Bin:            c.Binary,
		Args:           args,
		Timeout:        c.InfoTimeout,
		CaptureStdout:  true,
		DisplayCommand: c.Binary + " " + strings.Join(args, " "),
	})
	if result.ExitCode != 0 {
		return nil, fmt.Errorf("yt-dlp exited with code %d: %s", result.ExitCode, strings.TrimSpace(result.StderrTail))
	}
	payload := strings.TrimSpace(string(result.Stdout))
	if payload == "" {
		return nil, fmt.Errorf("yt-dlp produced no output")
	}

	var info Info
	if err := json.Unmarshal([]byte(payload), &info); err != nil {
		return nil, fmt.Errorf("decode yt-dlp output: %w", err)
	}
	log.WithField("id", info.ID).Debug("yt-dlp lookup")
	return &info, nil
}

// Download fetches the best-quality mp4 for a video ID into outPath.
func (c *Client) Download(ctx context.Context, id, outPath string) error {
	args := []string{
		"-f", "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
		"-o", outPath,
		WatchURL(id),
	}
	result := c.Runner.Run(ctx, execrun.Spec{
		Bin:            c.Binary,
		Args:           args,
		Timeout:        c.DownloadTimeout,
		CaptureStdout:  true,
		DisplayCommand: c.Binary + " " + strings.Join(args, " "),
	})
	if result.ExitCode != 0 {
		return fmt.Errorf("yt-dlp download exited with code %d: %s", result.ExitCode, strings.TrimSpace(result.StderrTail))
	}
	return nil
}
