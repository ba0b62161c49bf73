// Package doctor verifies that the helper binaries, credentials, and
// directories the organizer relies on are actually usable.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/jaa/mvorg/internal/config"
	"github.com/jaa/mvorg/internal/ytdlp"
)

type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

type Check struct {
	Severity Severity `json:"severity"`
	Name     string   `json:"name"`
	Message  string   `json:"message"`
}

type Report struct {
	Checks []Check `json:"checks"`
}

func (r Report) HasErrors() bool {
	for _, check := range r.Checks {
		if check.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (r Report) ErrorCount() int {
	count := 0
	for _, check := range r.Checks {
		if check.Severity == SeverityError {
			count++
		}
	}
	return count
}

// Checker runs environment checks. The function fields exist so tests can
// substitute fakes for PATH lookups and subprocess calls.
type Checker struct {
	LookPath      func(string) (string, error)
	ReadVersion   func(context.Context, string) (string, error)
	Getenv        func(string) string
	CheckReadable func(string) error
	CheckWritable func(string) error
}

func NewChecker() *Checker {
	return &Checker{
		LookPath:      exec.LookPath,
		ReadVersion:   defaultReadVersion,
		Getenv:        os.Getenv,
		CheckReadable: checkDirReadable,
		CheckWritable: checkDirWritable,
	}
}

// Check inspects the helper binaries, the IMVDB credential, and the library
// directories. Every finding is reported; nothing short-circuits.
func (c *Checker) Check(ctx context.Context, cfg config.Config) Report {
	report := Report{Checks: []Check{}}

	binaries := []string{
		ytdlp.BinaryPath(cfg.Tools.YTDLP, cfg.Tools.WinMode),
		ytdlp.BinaryPath(cfg.Tools.FFprobe, cfg.Tools.WinMode),
	}
	for _, binary := range binaries {
		location, err := c.LookPath(binary)
		if err != nil {
			report.Checks = append(report.Checks, Check{
				Severity: SeverityError,
				Name:     "dependency",
				Message:  fmt.Sprintf("%s not found in PATH", binary),
			})
			continue
		}

		report.Checks = append(report.Checks, Check{
			Severity: SeverityInfo,
			Name:     "dependency",
			Message:  fmt.Sprintf("%s found at %s", binary, location),
		})

		output, versionErr := c.ReadVersion(ctx, location)
		if versionErr != nil {
			report.Checks = append(report.Checks, Check{
				Severity: SeverityWarn,
				Name:     "dependency",
				Message:  fmt.Sprintf("%s version could not be read: %v", binary, versionErr),
			})
			continue
		}

		version, parseErr := extractVersion(output)
		if parseErr != nil {
			report.Checks = append(report.Checks, Check{
				Severity: SeverityWarn,
				Name:     "dependency",
				Message:  fmt.Sprintf("%s version output is unrecognized: %q", binary, strings.TrimSpace(output)),
			})
			continue
		}

		report.Checks = append(report.Checks, Check{
			Severity: SeverityInfo,
			Name:     "dependency",
			Message:  fmt.Sprintf("%s version %s", binary, version),
		})
	}

	if strings.TrimSpace(c.Getenv("IMVDB_API_KEY")) == "" {
		report.Checks = append(report.Checks, Check{
			Severity: SeverityWarn,
			Name:     "auth",
			Message:  "IMVDB_API_KEY is not set; metadata lookups will rely on the YouTube fallback and catalog scraping will fail",
		})
	} else {
		report.Checks = append(report.Checks, Check{
			Severity: SeverityInfo,
			Name:     "auth",
			Message:  "IMVDB_API_KEY is present",
		})
	}

	if strings.TrimSpace(cfg.Library.SourceDir) != "" {
		sourceDir, err := config.ExpandPath(cfg.Library.SourceDir)
		if err != nil {
			report.Checks = append(report.Checks, Check{Severity: SeverityError, Name: "filesystem", Message: fmt.Sprintf("source_dir is invalid: %v", err)})
		} else if err := c.CheckReadable(sourceDir); err != nil {
			report.Checks = append(report.Checks, Check{Severity: SeverityError, Name: "filesystem", Message: fmt.Sprintf("source_dir is not readable: %v", err)})
		} else {
			report.Checks = append(report.Checks, Check{Severity: SeverityInfo, Name: "filesystem", Message: fmt.Sprintf("source_dir %s is readable", sourceDir)})
		}
	} else {
		report.Checks = append(report.Checks, Check{Severity: SeverityWarn, Name: "config", Message: "source_dir is not configured"})
	}

	if strings.TrimSpace(cfg.Library.TargetDir) != "" {
		targetDir, err := config.ExpandPath(cfg.Library.TargetDir)
		if err != nil {
			report.Checks = append(report.Checks, Check{Severity: SeverityError, Name: "filesystem", Message: fmt.Sprintf("target_dir is invalid: %v", err)})
		} else if err := c.CheckWritable(targetDir); err != nil {
			report.Checks = append(report.Checks, Check{Severity: SeverityError, Name: "filesystem", Message: fmt.Sprintf("target_dir is not writable: %v", err)})
		} else {
			report.Checks = append(report.Checks, Check{Severity: SeverityInfo, Name: "filesystem", Message: fmt.Sprintf("target_dir %s is writable", targetDir)})
		}
	} else {
		report.Checks = append(report.Checks, Check{Severity: SeverityWarn, Name: "config", Message: "target_dir is not configured"})
	}

	return report
}

func defaultReadVersion(ctx context.Context, binary string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, "--version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", err
	}
	return string(output), nil
}

func checkDirReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	return file.Close()
}

func checkDirWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}

	file, err := os.CreateTemp(path, ".mvorg-write-check-*")
	if err != nil {
		return err
	}
	name := file.Name()
	_ = file.Close()
	_ = os.Remove(name)
	return nil
}

// yt-dlp reports calendar versions (2024.08.06) and ffprobe reports semantic
// versions with a leading name; both match on the digit groups.
var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

func extractVersion(raw string) (string, error) {
	matches := versionPattern.FindStringSubmatch(raw)
	if len(matches) == 0 {
		return "", fmt.Errorf("no version found")
	}
	version := matches[1] + "." + matches[2]
	if matches[3] != "" {
		version += "." + matches[3]
	}
	return version, nil
}
