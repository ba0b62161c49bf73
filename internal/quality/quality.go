// Package quality decides whether a remote candidate is a genuine upgrade
// over a local file, and flags static-image "videos".
package quality

import (
	"github.com/jaa/mvorg/internal/ffprobe"
)

// Decision is the outcome of comparing a local file with a remote candidate.
type Decision int

const (
	// KeepLocalOnly: the local file stays; no download.
	KeepLocalOnly Decision = iota
	// DownloadUpgrade: the remote candidate is strictly better; download it
	// alongside the preserved original.
	DownloadUpgrade
	// LocalIsStaticImage: the local file is a still image with an audio
	// track. It is organized but never replaced.
	LocalIsStaticImage
)

func (d Decision) String() string {
	switch d {
	case DownloadUpgrade:
		return "download_upgrade"
	case LocalIsStaticImage:
		return "static_image"
	default:
		return "keep_local"
	}
}

const (
	// StaticImageBitrateKbps separates slideshow files from real motion
	// video. Below this average bitrate a file is a static-image video.
	StaticImageBitrateKbps = 100

	// UpgradeBitrateMargin is how much higher (fractionally) the remote
	// bitrate must be at equal resolution to count as a meaningful upgrade.
	// Ties and lateral moves keep the local file.
	UpgradeBitrateMargin = 0.10
)

// Remote describes the advertised quality of a remote candidate.
type Remote struct {
	Height      int
	BitrateKbps float64
}

// IsStaticImage classifies a probed local file via the low-bitrate heuristic.
func IsStaticImage(local ffprobe.Info) bool {
	return local.BitrateKbps > 0 && local.BitrateKbps < StaticImageBitrateKbps
}

// Compare decides what to do with a local file given an optional remote
// candidate. local is nil when the probe failed.
//
// Probe-failure policy: a file ffprobe cannot read has unknown quality, so
// the remote candidate is assumed better and downloaded; the unreadable
// original is still preserved alongside. Skipping the download would be
// equally defensible, but an unreadable file is exactly the case where a
// fresh copy is most useful.
func Compare(local *ffprobe.Info, remote *Remote) Decision {
	if local != nil && IsStaticImage(*local) {
		return LocalIsStaticImage
	}
	if remote == nil {
		return KeepLocalOnly
	}
	// A remote candidate this starved for bits is itself a static image.
	if remote.BitrateKbps > 0 && remote.BitrateKbps < StaticImageBitrateKbps {
		return KeepLocalOnly
	}
	if local == nil {
		return DownloadUpgrade
	}

	switch {
	case remote.Height > local.Height:
		return DownloadUpgrade
	case remote.Height < local.Height:
		return KeepLocalOnly
	case remote.BitrateKbps > local.BitrateKbps*(1+UpgradeBitrateMargin):
		return DownloadUpgrade
	default:
		return KeepLocalOnly
	}
}
