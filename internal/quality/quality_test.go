package quality

import (
	"testing"

	"github.com/jaa/mvorg/internal/ffprobe"
)

func TestIsStaticImage(t *testing.T) {
	if IsStaticImage(ffprobe.Info{BitrateKbps: 50}) != true {
		t.Fatal("50 kbps should classify as a static image")
	}
	if IsStaticImage(ffprobe.Info{BitrateKbps: 100}) {
		t.Fatal("the threshold itself is not a static image")
	}
	if IsStaticImage(ffprobe.Info{BitrateKbps: 0}) {
		t.Fatal("unknown bitrate must not classify as a static image")
	}
}

func TestCompare(t *testing.T) {
	local720 := &ffprobe.Info{Height: 720, BitrateKbps: 2000}

	tests := []struct {
		name   string
		local  *ffprobe.Info
		remote *Remote
		want   Decision
	}{
		{
			name:  "no remote keeps local",
			local: local720,
			want:  KeepLocalOnly,
		},
		{
			name:   "higher resolution is an upgrade",
			local:  local720,
			remote: &Remote{Height: 1080, BitrateKbps: 4000},
			want:   DownloadUpgrade,
		},
		{
			name:   "lower resolution is never an upgrade",
			local:  local720,
			remote: &Remote{Height: 480, BitrateKbps: 9000},
			want:   KeepLocalOnly,
		},
		{
			name:   "equal resolution needs a meaningful bitrate gain",
			local:  local720,
			remote: &Remote{Height: 720, BitrateKbps: 2100},
			want:   KeepLocalOnly,
		},
		{
			name:   "equal resolution with bitrate above margin upgrades",
			local:  local720,
			remote: &Remote{Height: 720, BitrateKbps: 2300},
			want:   DownloadUpgrade,
		},
		{
			name:   "static local file is flagged, never replaced",
			local:  &ffprobe.Info{Height: 1080, BitrateKbps: 40},
			remote: &Remote{Height: 2160, BitrateKbps: 9000},
			want:   LocalIsStaticImage,
		},
		{
			name:   "starved remote candidate keeps local",
			local:  local720,
			remote: &Remote{Height: 2160, BitrateKbps: 50},
			want:   KeepLocalOnly,
		},
		{
			name:   "unreadable local with remote candidate downloads",
			local:  nil,
			remote: &Remote{Height: 720, BitrateKbps: 2000},
			want:   DownloadUpgrade,
		},
		{
			name:  "unreadable local without remote keeps local",
			local: nil,
			want:  KeepLocalOnly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.local, tt.remote); got != tt.want {
				t.Fatalf("Compare() = %v, want %v", got, tt.want)
			}
		})
	}
}
