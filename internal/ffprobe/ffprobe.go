// Package ffprobe reads technical attributes of local media files.
package ffprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jaa/mvorg/internal/execrun"
)

// Info holds the probed attributes the quality comparator needs.
type Info struct {
	Width       int
	Height      int
	VideoCodec  string
	AudioCodec  string
	DurationSec float64
	SizeBytes   int64
	// BitrateKbps is the average bitrate of the whole file in kilobits
	// per second, from the container header or derived from size/duration.
	BitrateKbps float64
}

type Prober struct {
	Binary  string
	Runner  execrun.Runner
	Timeout time.Duration
}

func NewProber(binary string, runner execrun.Runner) *Prober {
	return &Prober{
		Binary:  binary,
		Runner:  runner,
		Timeout: 30 * time.Second,
	}
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type probeFormat struct {
	Duration string `json:"duration"`
	Size     string `json:"size"`
	BitRate  string `json:"bit_rate"`
}

func (p *Prober) Probe(ctx context.Context, path string) (Info, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams", "-show_format",
		path,
	}
	result := p.Runner.Run(ctx, execrun.Spec{
		Bin:            p.Binary,
		Args:           args,
		Timeout:        p.Timeout,
		CaptureStdout:  true,
		DisplayCommand: p.Binary + " " + strings.Join(args, " "),
	})
	if result.ExitCode != 0 {
		return Info{}, fmt.Errorf("ffprobe exited with code %d: %s", result.ExitCode, strings.TrimSpace(result.StderrTail))
	}

	var out probeOutput
	if err := json.Unmarshal(result.Stdout, &out); err != nil {
		return Info{}, fmt.Errorf("decode ffprobe output: %w", err)
	}

	info := Info{}
	for _, stream := range out.Streams {
		switch stream.CodecType {
		case "video":
			if info.VideoCodec == "" {
				info.VideoCodec = stream.CodecName
				info.Width = stream.Width
				info.Height = stream.Height
			}
		case "audio":
			if info.AudioCodec == "" {
				info.AudioCodec = stream.CodecName
			}
		}
	}

	info.DurationSec, _ = strconv.ParseFloat(out.Format.Duration, 64)
	info.SizeBytes, _ = strconv.ParseInt(out.Format.Size, 10, 64)
	if rate, err := strconv.ParseFloat(out.Format.BitRate, 64); err == nil && rate > 0 {
		info.BitrateKbps = rate / 1000
	} else if info.DurationSec > 0 && info.SizeBytes > 0 {
		info.BitrateKbps = float64(info.SizeBytes) * 8 / info.DurationSec / 1000
	}

	if info.VideoCodec == "" {
		return info, fmt.Errorf("no video stream in %s", path)
	}
	return info, nil
}
