package speech

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// Compile-time interface check.
var _ domain.Transcriber = (*CloudEar)(nil)

// Recorder captures one utterance from the microphone as 16 kHz mono WAV.
// It returns domain.ErrUnintelligible when nobody spoke.
type Recorder interface {
	Record(ctx context.Context) ([]byte, error)
}

// Recognizer turns a WAV utterance into text.
type Recognizer interface {
	Recognize(ctx context.Context, wav []byte) (string, error)
}

// CloudEar records locally and transcribes remotely.
type CloudEar struct {
	rec Recorder
	stt Recognizer
	log *logger.Logger
}

// NewCloudEar creates an ear from a recorder and a recognizer.
func NewCloudEar(rec Recorder, stt Recognizer, log *logger.Logger) *CloudEar {
	return &CloudEar{rec: rec, stt: stt, log: log}
}

// Transcribe records one utterance and sends it for recognition.
func (e *CloudEar) Transcribe(ctx context.Context) (string, error) {
	wav, err := e.rec.Record(ctx)
	if err != nil {
		return "", fmt.Errorf("recording: %w", err)
	}
	e.log.Debug("cloud ear: recorded %d bytes", len(wav))

	text, err := e.stt.Recognize(ctx, wav)
	if err != nil {
		return "", fmt.Errorf("recognizing: %w", err)
	}
	return text, nil
}
