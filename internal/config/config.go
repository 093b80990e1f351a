// Package config loads runtime settings from defaults, an optional TOML
// file, the environment and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hammamikhairi/voicetodo/internal/speech"
)

// Input backends.
const (
	InputCloud   = "cloud"
	InputWhisper = "whisper"
	InputText    = "text"
)

// Output backends.
const (
	OutputAzure  = "azure"
	OutputEspeak = "espeak"
	OutputText   = "text"
)

// Defaults.
const (
	DefaultConfigFile = "voicetodo.toml"
	DefaultDataFile   = "data.json"
	DefaultLogFile    = ".voicetodo-logs/voicetodo.log"
	DefaultCacheDir   = ".voicetodo-cache"
	DefaultExitPause  = 1500 * time.Millisecond
)

// Environment variables read after the config file.
const (
	EnvAzureKey    = speech.EnvAzureSpeechKey
	EnvAzureRegion = speech.EnvAzureSpeechRegion
	EnvProxy       = "VOICETODO_PROXY"
	EnvDataFile    = "VOICETODO_DATA_FILE"
)

// ErrMissingCredentials is returned when an Azure backend is selected
// without a key and region.
var ErrMissingCredentials = errors.New("azure speech key and region are required")

// Config is the full runtime configuration.
type Config struct {
	DataFile  string        `toml:"data_file"`
	LogFile   string        `toml:"log_file"`
	LogLevel  string        `toml:"log_level"`
	Input     string        `toml:"input"`
	Output    string        `toml:"output"`
	ExitPause time.Duration `toml:"exit_pause"`
	ChimeFile string        `toml:"chime_file"`
	CacheDir  string        `toml:"cache_dir"`
	DiskCache bool          `toml:"disk_cache"`
	Proxy     string        `toml:"proxy"`

	Azure    AzureConfig    `toml:"azure"`
	Whisper  WhisperConfig  `toml:"whisper"`
	Recorder RecorderConfig `toml:"recorder"`
	Espeak   EspeakConfig   `toml:"espeak"`
}

// AzureConfig holds Azure Speech credentials and voice settings.
type AzureConfig struct {
	Key      string `toml:"key"`
	Region   string `toml:"region"`
	Voice    string `toml:"voice"`
	Language string `toml:"language"`
}

// WhisperConfig locates the local whisper-cli install.
type WhisperConfig struct {
	Bin            string        `toml:"bin"`
	Model          string        `toml:"model"`
	RecordDuration time.Duration `toml:"record_duration"`
}

// RecorderConfig tunes end-of-speech detection for cloud input.
type RecorderConfig struct {
	SilenceThreshold float64       `toml:"silence_threshold"`
	Pause            time.Duration `toml:"pause"`
	MaxDuration      time.Duration `toml:"max_duration"`
	InitialTimeout   time.Duration `toml:"initial_timeout"`
}

// EspeakConfig configures the espeak-ng output backend.
type EspeakConfig struct {
	Bin   string `toml:"bin"`
	Voice string `toml:"voice"`
	Rate  int    `toml:"rate"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataFile:  DefaultDataFile,
		LogFile:   DefaultLogFile,
		LogLevel:  "normal",
		Input:     InputCloud,
		Output:    OutputAzure,
		ExitPause: DefaultExitPause,
		CacheDir:  DefaultCacheDir,
		DiskCache: true,
		Azure: AzureConfig{
			Voice:    speech.DefaultVoice,
			Language: speech.DefaultLanguage,
		},
		Whisper: WhisperConfig{
			Bin:            "whisper-cli",
			Model:          "bin/ggml-small.bin",
			RecordDuration: 5 * time.Second,
		},
		Recorder: RecorderConfig{
			SilenceThreshold: 0.015,
			Pause:            800 * time.Millisecond,
			MaxDuration:      10 * time.Second,
			InitialTimeout:   8 * time.Second,
		},
		Espeak: EspeakConfig{
			Bin:   speech.DefaultEspeakBin,
			Voice: "en-us",
		},
	}
}

// NeedsAzure reports whether any selected backend talks to Azure.
func (c *Config) NeedsAzure() bool {
	return c.Input == InputCloud || c.Output == OutputAzure
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.DataFile) == "" {
		errs = append(errs, errors.New("data_file must not be empty"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "off", "quiet", "none", "normal", "", "verbose", "debug":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	switch c.Input {
	case InputCloud, InputWhisper, InputText:
	default:
		errs = append(errs, fmt.Errorf("unknown input %q (want cloud, whisper or text)", c.Input))
	}
	switch c.Output {
	case OutputAzure, OutputEspeak, OutputText:
	default:
		errs = append(errs, fmt.Errorf("unknown output %q (want azure, espeak or text)", c.Output))
	}
	if c.ExitPause < 0 {
		errs = append(errs, errors.New("exit_pause must not be negative"))
	}

	if c.NeedsAzure() && (c.Azure.Key == "" || c.Azure.Region == "") {
		errs = append(errs, fmt.Errorf("%w: set %s and %s", ErrMissingCredentials, EnvAzureKey, EnvAzureRegion))
	}

	if c.Input == InputWhisper {
		if c.Whisper.Bin == "" || c.Whisper.Model == "" {
			errs = append(errs, errors.New("whisper.bin and whisper.model are required for whisper input"))
		}
		if c.Whisper.RecordDuration <= 0 {
			errs = append(errs, errors.New("whisper.record_duration must be positive"))
		}
	}

	if c.Input == InputCloud {
		r := c.Recorder
		if r.SilenceThreshold <= 0 || r.SilenceThreshold >= 1 {
			errs = append(errs, fmt.Errorf("recorder.silence_threshold %v must be between 0 and 1", r.SilenceThreshold))
		}
		if r.Pause <= 0 || r.MaxDuration <= 0 || r.InitialTimeout <= 0 {
			errs = append(errs, errors.New("recorder durations must be positive"))
		}
	}

	return errors.Join(errs...)
}
