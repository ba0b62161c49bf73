package config

// Config is the immutable runtime configuration, assembled once at startup
// from defaults, config files, environment, and flags.
type Config struct {
	Version int     `yaml:"version"`
	Library Library `yaml:"library"`
	IMVDB   IMVDB   `yaml:"imvdb"`
	Tools   Tools   `yaml:"tools"`
	Naming  Naming  `yaml:"naming"`
}

// Library holds the directories the organizer works between.
type Library struct {
	SourceDir string `yaml:"source_dir"`
	TargetDir string `yaml:"target_dir"`
}

// IMVDB holds metadata-service settings. The API key is never written to or
// read from yaml; it comes from the environment only.
type IMVDB struct {
	APIKey  string `yaml:"-"`
	BaseURL string `yaml:"base_url"`
}

// Tools configures the external helper binaries.
type Tools struct {
	YTDLP                  string `yaml:"yt_dlp"`
	FFprobe                string `yaml:"ffprobe"`
	WinMode                bool   `yaml:"-"`
	InfoTimeoutSeconds     int    `yaml:"info_timeout_seconds"`
	DownloadTimeoutSeconds int    `yaml:"download_timeout_seconds"`
}

// Naming controls filename parsing behavior.
type Naming struct {
	SceneMode bool `yaml:"scene_mode"`
}

func DefaultConfig() Config {
	return Config{
		Version: 1,
		IMVDB: IMVDB{
			BaseURL: "https://imvdb.com/api/v1",
		},
		Tools: Tools{
			YTDLP:                  "yt-dlp",
			FFprobe:                "ffprobe",
			InfoTimeoutSeconds:     60,
			DownloadTimeoutSeconds: 600,
		},
	}
}
