// Package audio talks to sound hardware: PCM playback, microphone capture,
// local whisper transcription and the reminder chime.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/voicetodo/internal/logger"
	"github.com/hammamikhairi/voicetodo/internal/wave"
)

// Player handles audio playback of 16-bit WAV data via oto. The oto context
// is process-wide, so every clip must match the rate it was opened with.
type Player struct {
	ctx      *oto.Context
	rate     int
	channels int
	log      *logger.Logger

	mu sync.Mutex // one clip at a time
}

// NewPlayer initializes the system audio context. Returns an error if the
// audio device is unavailable.
func NewPlayer(sampleRate, channels int, log *logger.Logger) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("opening audio output: %w", err)
	}
	<-readyChan

	log.Debug("audio player initialized (rate=%d, channels=%d)", sampleRate, channels)
	return &Player{ctx: ctx, rate: sampleRate, channels: channels, log: log}, nil
}

// Play plays WAV audio synchronously. Cancelling ctx stops playback.
func (p *Player) Play(ctx context.Context, wav []byte) error {
	pcm, f, err := wave.Decode(wav)
	if err != nil {
		return err
	}
	if f.SampleRate != p.rate || f.Channels != p.channels {
		return fmt.Errorf("clip is %d Hz/%d ch, player is %d Hz/%d ch",
			f.SampleRate, f.Channels, p.rate, p.channels)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	player := p.ctx.NewPlayer(bytes.NewReader(pcm))
	defer player.Close()

	player.Play()
	p.log.Debug("audio player: playing %d bytes of PCM", len(pcm))

	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for player.IsPlaying() {
		select {
		case <-tick.C:
		case <-ctx.Done():
			player.Pause()
			p.log.Debug("audio player: interrupted")
			return ctx.Err()
		}
	}
	return nil
}
