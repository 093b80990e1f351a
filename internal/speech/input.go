package speech

import (
	"context"
	"errors"
	"time"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// Compile-time interface check.
var _ domain.Listener = (*VoiceInput)(nil)

// InputOption configures VoiceInput.
type InputOption func(*VoiceInput)

// WithErrorBackoff sets the pause after an unexpected ear failure.
func WithErrorBackoff(d time.Duration) InputOption {
	return func(v *VoiceInput) {
		v.backoff = d
	}
}

// VoiceInput turns an ear into the listener the dispatch loop uses. It
// tells the user about recognition problems itself and reports them as an
// empty transcript.
type VoiceInput struct {
	ear      domain.Transcriber
	notifier domain.Notifier
	log      *logger.Logger
	backoff  time.Duration
}

// NewVoiceInput wraps ear. Apologies go through notifier.
func NewVoiceInput(ear domain.Transcriber, notifier domain.Notifier, log *logger.Logger, opts ...InputOption) *VoiceInput {
	v := &VoiceInput{
		ear:      ear,
		notifier: notifier,
		log:      log,
		backoff:  errorBackoff,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Listen captures one utterance and returns it lowercased, without edge
// punctuation. Silence yields "" without an apology. Errors are returned only when ctx is done or the ear has no
// more input (domain.ErrStopped).
func (v *VoiceInput) Listen(ctx context.Context) (string, error) {
	v.log.Debug("listening...")
	text, err := v.ear.Transcribe(ctx)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	switch {
	case err == nil:
		text = NormalizeTranscript(text)
		if text != "" {
			v.log.Info("heard: %q", text)
		}
		return text, nil
	case errors.Is(err, domain.ErrStopped):
		return "", err
	case errors.Is(err, domain.ErrNoSpeech):
		v.log.Debug("no speech, listening again")
	case errors.Is(err, domain.ErrUnintelligible):
		v.log.Debug("unintelligible input")
		v.say(ctx, LineDidNotCatch())
	case errors.Is(err, domain.ErrNetwork):
		v.log.Warn("speech recognition unreachable: %v", err)
		v.say(ctx, LineNetworkError())
	default:
		v.log.Error("voice input: %v", err)
		v.wait(ctx)
	}
	return "", nil
}

func (v *VoiceInput) say(ctx context.Context, msg string) {
	if err := v.notifier.Notify(ctx, msg); err != nil {
		v.log.Warn("notify %q: %v", msg, err)
	}
}

func (v *VoiceInput) wait(ctx context.Context) {
	if v.backoff <= 0 {
		return
	}
	t := time.NewTimer(v.backoff)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
