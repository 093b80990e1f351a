package audio

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// Compile-time interface check.
var _ domain.Chimer = (*Chime)(nil)

// Chime plays a short MP3 before a reminder is announced.
type Chime struct {
	path string
	log  *logger.Logger

	initOnce sync.Once
	initErr  error
	rate     beep.SampleRate
	mu       sync.Mutex
}

// NewChime checks that the MP3 at path exists.
func NewChime(path string, log *logger.Logger) (*Chime, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("chime file: %w", err)
	}
	return &Chime{path: path, log: log}, nil
}

// Play decodes and plays the chime, blocking until it ends or ctx is done.
func (c *Chime) Play(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.Open(c.path)
	if err != nil {
		return fmt.Errorf("opening chime: %w", err)
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decoding chime: %w", err)
	}
	defer streamer.Close()

	c.initOnce.Do(func() {
		c.rate = format.SampleRate
		c.initErr = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
	})
	if c.initErr != nil {
		return fmt.Errorf("initializing speaker: %w", c.initErr)
	}

	var s beep.Streamer = streamer
	if format.SampleRate != c.rate {
		s = beep.Resample(4, format.SampleRate, c.rate, streamer)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		c.log.Debug("chime played")
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}
