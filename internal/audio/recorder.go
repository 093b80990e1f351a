package audio

import (
	"context"
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
	"github.com/hammamikhairi/voicetodo/internal/wave"
)

const (
	recordRate = 16000
	frameSize  = 320 // 20ms at 16 kHz
	frameDur   = 20 * time.Millisecond
)

// RecorderOption configures the Recorder.
type RecorderOption func(*Recorder)

// WithSilenceThreshold sets the RMS level (0..1) above which a frame
// counts as speech.
func WithSilenceThreshold(rms float64) RecorderOption {
	return func(r *Recorder) { r.threshold = rms }
}

// WithPauseDuration sets how much trailing silence ends an utterance.
func WithPauseDuration(d time.Duration) RecorderOption {
	return func(r *Recorder) { r.pause = d }
}

// WithMaxDuration caps the length of one utterance.
func WithMaxDuration(d time.Duration) RecorderOption {
	return func(r *Recorder) { r.maxLen = d }
}

// WithInitialTimeout sets how long to wait for speech to start.
func WithInitialTimeout(d time.Duration) RecorderOption {
	return func(r *Recorder) { r.initial = d }
}

// Recorder captures one utterance at a time from the default input device
// and returns it as 16 kHz mono WAV.
type Recorder struct {
	log       *logger.Logger
	threshold float64
	pause     time.Duration
	maxLen    time.Duration
	initial   time.Duration
}

// NewRecorder initializes PortAudio. Call Close when done.
func NewRecorder(log *logger.Logger, opts ...RecorderOption) (*Recorder, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing portaudio: %w", err)
	}
	r := &Recorder{
		log:       log,
		threshold: 0.015,
		pause:     800 * time.Millisecond,
		maxLen:    10 * time.Second,
		initial:   8 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Close releases PortAudio.
func (r *Recorder) Close() error {
	return portaudio.Terminate()
}

// Record waits for speech, keeps recording until a pause, and returns the
// utterance. It returns domain.ErrNoSpeech if nobody spoke before the
// initial timeout.
func (r *Recorder) Record(ctx context.Context) ([]byte, error) {
	buf := make([]int16, frameSize)
	stream, err := portaudio.OpenDefaultStream(1, 0, recordRate, len(buf), buf)
	if err != nil {
		return nil, fmt.Errorf("opening input stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("starting input stream: %w", err)
	}
	defer stream.Stop()

	var (
		out           = make([]int16, 0, recordRate*3)
		speaking      bool
		silent        time.Duration
		waited        time.Duration
		maxFrames     = int(r.maxLen / frameDur)
		initialFrames = int(r.initial / frameDur)
	)

	for i := 0; i < maxFrames+initialFrames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := stream.Read(); err != nil {
			return nil, fmt.Errorf("reading input stream: %w", err)
		}

		loud := wave.RMS(buf) > r.threshold
		switch {
		case loud:
			speaking = true
			silent = 0
			out = append(out, buf...)
		case speaking:
			silent += frameDur
			out = append(out, buf...)
			if silent >= r.pause {
				return r.finish(out)
			}
		default:
			waited += frameDur
			if waited >= r.initial {
				return nil, domain.ErrNoSpeech
			}
		}

		if time.Duration(len(out)/frameSize)*frameDur >= r.maxLen {
			break
		}
	}

	if !speaking {
		return nil, domain.ErrNoSpeech
	}
	return r.finish(out)
}

func (r *Recorder) finish(samples []int16) ([]byte, error) {
	r.log.Debug("recorder: captured %s", time.Duration(len(samples)/frameSize)*frameDur)
	return wave.Encode(samples, recordRate)
}
