package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// flagValues receives parsed flags before they are copied over the file
// and environment settings.
type flagValues struct {
	configPath   string
	dataFile     string
	logFile      string
	logLevel     string
	verbose      bool
	quiet        bool
	input        string
	output       string
	voice        string
	language     string
	proxy        string
	cacheDir     string
	diskCache    bool
	chime        string
	whisperBin   string
	whisperModel string
	recordSecs   int
	exitPause    float64
}

// Load builds the configuration:
//  1. defaults
//  2. the TOML file (--config, default voicetodo.toml; a missing default
//     file is fine)
//  3. environment variables
//  4. flags the user actually set
//
// The result is validated.
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	cfg := Default()
	fv := defineFlags(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := loadConfigFile(cfg, fv.configPath, fs.Changed("config")); err != nil {
		return nil, err
	}

	loadFromEnv(cfg)
	applyFlags(cfg, fs, fv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func defineFlags(fs *pflag.FlagSet, d *Config) *flagValues {
	fv := &flagValues{}
	fs.StringVarP(&fv.configPath, "config", "c", DefaultConfigFile, "path to the TOML config file")
	fs.StringVar(&fv.dataFile, "data-file", d.DataFile, "path to the to-do list JSON file")
	fs.StringVar(&fv.logFile, "log-file", d.LogFile, "file to write logs to (use \"stderr\" to log to console)")
	fs.StringVar(&fv.logLevel, "log-level", d.LogLevel, "log level: off, normal or verbose")
	fs.BoolVarP(&fv.verbose, "verbose", "v", false, "enable verbose/debug logging")
	fs.BoolVarP(&fv.quiet, "quiet", "q", false, "disable all logging")
	fs.StringVarP(&fv.input, "input", "i", d.Input, "voice input: cloud, whisper or text")
	fs.StringVarP(&fv.output, "output", "o", d.Output, "voice output: azure, espeak or text")
	fs.StringVar(&fv.voice, "voice", d.Azure.Voice, "Azure TTS voice name")
	fs.StringVar(&fv.language, "language", d.Azure.Language, "recognition language")
	fs.StringVar(&fv.proxy, "proxy", d.Proxy, "SOCKS5 proxy (host:port) for speech requests")
	fs.StringVar(&fv.cacheDir, "cache-dir", d.CacheDir, "directory for persistent TTS audio cache")
	fs.BoolVar(&fv.diskCache, "disk-cache", d.DiskCache, "persist TTS audio cache to disk (reads from disk even when false)")
	fs.StringVar(&fv.chime, "chime", d.ChimeFile, "MP3 to play before each reminder")
	fs.StringVar(&fv.whisperBin, "whisper-bin", d.Whisper.Bin, "path to the whisper-cpp CLI binary")
	fs.StringVar(&fv.whisperModel, "whisper-model", d.Whisper.Model, "path to the Whisper GGML model file")
	fs.IntVar(&fv.recordSecs, "record-secs", int(d.Whisper.RecordDuration.Seconds()), "seconds per whisper recording")
	fs.Float64Var(&fv.exitPause, "exit-pause", d.ExitPause.Seconds(), "seconds to wait after saying goodbye")
	return fv
}

// loadConfigFile decodes path over cfg. A missing file is an error only
// when the path was given explicitly.
func loadConfigFile(cfg *Config, path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !explicit {
		return nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config file %s: unknown keys %v", path, undecoded)
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv(EnvAzureKey); v != "" {
		cfg.Azure.Key = v
	}
	if v := os.Getenv(EnvAzureRegion); v != "" {
		cfg.Azure.Region = v
	}
	if v := os.Getenv(EnvProxy); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv(EnvDataFile); v != "" {
		cfg.DataFile = v
	}
}

// applyFlags copies only the flags set on the command line.
func applyFlags(cfg *Config, fs *pflag.FlagSet, fv *flagValues) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "data-file":
			cfg.DataFile = fv.dataFile
		case "log-file":
			cfg.LogFile = fv.logFile
		case "log-level":
			cfg.LogLevel = fv.logLevel
		case "input":
			cfg.Input = fv.input
		case "output":
			cfg.Output = fv.output
		case "voice":
			cfg.Azure.Voice = fv.voice
		case "language":
			cfg.Azure.Language = fv.language
		case "proxy":
			cfg.Proxy = fv.proxy
		case "cache-dir":
			cfg.CacheDir = fv.cacheDir
		case "disk-cache":
			cfg.DiskCache = fv.diskCache
		case "chime":
			cfg.ChimeFile = fv.chime
		case "whisper-bin":
			cfg.Whisper.Bin = fv.whisperBin
		case "whisper-model":
			cfg.Whisper.Model = fv.whisperModel
		case "record-secs":
			cfg.Whisper.RecordDuration = secondsToDuration(float64(fv.recordSecs))
		case "exit-pause":
			cfg.ExitPause = secondsToDuration(fv.exitPause)
		}
	})

	// verbose and quiet win over any log level.
	if fv.verbose {
		cfg.LogLevel = "verbose"
	}
	if fv.quiet {
		cfg.LogLevel = "off"
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
