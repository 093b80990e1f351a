package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	audiotranscriber "github.com/sklyt/whisper/pkg"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
	"github.com/hammamikhairi/voicetodo/internal/speech"
)

// Compile-time interface check.
var _ domain.Transcriber = (*WhisperEar)(nil)

// transcribeTimeout bounds how long whisper-cli may take after recording.
const transcribeTimeout = time.Minute

// WhisperOption configures the WhisperEar.
type WhisperOption func(*WhisperEar)

// WithRecordDuration sets how long each utterance window lasts.
func WithRecordDuration(d time.Duration) WhisperOption {
	return func(e *WhisperEar) { e.recordDuration = d }
}

// WithTempDir sets the directory for temporary WAV files.
func WithTempDir(dir string) WhisperOption {
	return func(e *WhisperEar) { e.tempDir = dir }
}

// WhisperEar records fixed-length windows and transcribes them locally with
// whisper-cli.
type WhisperEar struct {
	whisperBin     string
	modelPath      string
	tempDir        string
	recordDuration time.Duration
	log            *logger.Logger
}

// NewWhisperEar checks that the whisper binary and model exist.
func NewWhisperEar(whisperBin, modelPath string, log *logger.Logger, opts ...WhisperOption) (*WhisperEar, error) {
	e := &WhisperEar{
		whisperBin:     whisperBin,
		modelPath:      modelPath,
		tempDir:        ".voicetodo-stt",
		recordDuration: 5 * time.Second,
		log:            log,
	}
	for _, opt := range opts {
		opt(e)
	}

	if _, err := exec.LookPath(e.whisperBin); err != nil {
		return nil, fmt.Errorf("whisper binary %q: %w", e.whisperBin, err)
	}
	if _, err := os.Stat(e.modelPath); err != nil {
		return nil, fmt.Errorf("whisper model: %w", err)
	}
	if err := os.MkdirAll(e.tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("whisper temp dir: %w", err)
	}
	return e, nil
}

// Transcribe records one window and returns whisper's text with artifacts
// removed. Silence yields domain.ErrUnintelligible.
func (e *WhisperEar) Transcribe(ctx context.Context) (string, error) {
	result := make(chan string, 1)
	callback := func(text string) {
		select {
		case result <- text:
		default:
		}
	}

	verbose := e.log.GetLevel() >= logger.LevelVerbose
	t, err := audiotranscriber.NewTranscriber(
		e.whisperBin,
		e.modelPath,
		e.tempDir,
		"wav",
		callback,
		verbose,
	)
	if err != nil {
		return "", fmt.Errorf("transcriber init: %w", err)
	}

	if err := t.Start(); err != nil {
		return "", fmt.Errorf("recording start: %w", err)
	}

	timer := time.NewTimer(e.recordDuration)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		t.Stop()
		return "", ctx.Err()
	}

	t.Stop()

	var text string
	select {
	case text = <-result:
	case <-time.After(transcribeTimeout):
		return "", fmt.Errorf("whisper gave no result within %s", transcribeTimeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}

	text = speech.CleanTranscription(text)
	if text == "" {
		return "", domain.ErrUnintelligible
	}
	e.log.Debug("whisper: heard %q", text)
	return text, nil
}
