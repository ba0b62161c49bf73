package ytdlp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jaa/mvorg/internal/execrun"
)

type fakeRunner struct {
	specs  []execrun.Spec
	result execrun.Result
}

func (f *fakeRunner) Run(ctx context.Context, spec execrun.Spec) execrun.Result {
	f.specs = append(f.specs, spec)
	return f.result
}

func infoJSON() []byte {
	return []byte(`{
		"id": "hTWKbfoikeg",
		"title": "Nirvana - Smells Like Teen Spirit",
		"artist": "Nirvana",
		"track": "Smells Like Teen Spirit",
		"upload_date": "20091016",
		"width": 1920,
		"height": 1080,
		"vcodec": "avc1.640028",
		"vbr": 4200.5
	}`)
}

func newTestClient(runner execrun.Runner) *Client {
	return NewClient("yt-dlp", runner, 30*time.Second, 5*time.Minute)
}

func TestLookupWithBareVideoID(t *testing.T) {
	runner := &fakeRunner{result: execrun.Result{Stdout: infoJSON()}}
	info, err := newTestClient(runner).Lookup(context.Background(), "hTWKbfoikeg")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	args := runner.specs[0].Args
	target := args[len(args)-1]
	if target != "https://www.youtube.com/watch?v=hTWKbfoikeg" {
		t.Fatalf("target = %q, bare IDs become watch URLs", target)
	}
	if info.Height != 1080 || info.VideoBitrate != 4200.5 {
		t.Fatalf("info = %+v", info)
	}
}

func TestLookupWithFreeTextUsesSearch(t *testing.T) {
	runner := &fakeRunner{result: execrun.Result{Stdout: infoJSON()}}
	if _, err := newTestClient(runner).Lookup(context.Background(), "Nirvana Smells Like Teen Spirit"); err != nil {
		t.Fatal(err)
	}

	args := runner.specs[0].Args
	target := args[len(args)-1]
	if target != "ytsearch1:Nirvana Smells Like Teen Spirit" {
		t.Fatalf("target = %q, free text goes through ytsearch1", target)
	}
	if !containsArg(args, "--no-playlist") || !containsArg(args, "--no-download") {
		t.Fatalf("args = %v", args)
	}
}

func TestLookupPassesURLsThrough(t *testing.T) {
	runner := &fakeRunner{result: execrun.Result{Stdout: infoJSON()}}
	url := "https://www.youtube.com/watch?v=hTWKbfoikeg"
	if _, err := newTestClient(runner).Lookup(context.Background(), url); err != nil {
		t.Fatal(err)
	}

	args := runner.specs[0].Args
	if args[len(args)-1] != url {
		t.Fatalf("target = %q", args[len(args)-1])
	}
}

func TestLookupReportsToolFailure(t *testing.T) {
	runner := &fakeRunner{result: execrun.Result{ExitCode: 1, StderrTail: "ERROR: video unavailable"}}
	_, err := newTestClient(runner).Lookup(context.Background(), "hTWKbfoikeg")
	if err == nil || !strings.Contains(err.Error(), "video unavailable") {
		t.Fatalf("err = %v", err)
	}
}

func TestDownloadUsesMP4FormatChain(t *testing.T) {
	runner := &fakeRunner{result: execrun.Result{}}
	if err := newTestClient(runner).Download(context.Background(), "hTWKbfoikeg", "/library/out.mp4"); err != nil {
		t.Fatal(err)
	}

	args := runner.specs[0].Args
	if !containsArg(args, "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best") {
		t.Fatalf("args = %v", args)
	}
	if !containsArg(args, "/library/out.mp4") {
		t.Fatalf("args = %v", args)
	}
	if runner.specs[0].Timeout != 5*time.Minute {
		t.Fatalf("Timeout = %v, downloads use the long timeout", runner.specs[0].Timeout)
	}
}

func TestUploadYear(t *testing.T) {
	info := &Info{UploadDate: "19911001"}
	if got := info.UploadYear(); got != 1991 {
		t.Fatalf("UploadYear() = %d", got)
	}
	empty := &Info{}
	if got := empty.UploadYear(); got != 0 {
		t.Fatalf("UploadYear() = %d, want 0 for missing dates", got)
	}
}

func TestBinaryPathPlain(t *testing.T) {
	if got := BinaryPath("yt-dlp", false); got != "yt-dlp" {
		t.Fatalf("BinaryPath = %q", got)
	}
	if got := BinaryPath("yt-dlp", true); got == "yt-dlp" {
		t.Fatalf("win mode must resolve relative to the executable, got %q", got)
	}
}

func containsArg(args []string, want string) bool {
	for _, arg := range args {
		if arg == want {
			return true
		}
	}
	return false
}
