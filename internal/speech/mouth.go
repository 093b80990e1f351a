package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// Compile-time interface check.
var _ domain.Speaker = (*Mouth)(nil)

// Synthesizer renders text as WAV bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Player plays WAV bytes and blocks until playback ends or ctx is done.
type Player interface {
	Play(ctx context.Context, wav []byte) error
}

// MouthOption configures the Mouth.
type MouthOption func(*Mouth)

// WithChunkSize sets the approximate max character count per TTS request.
// Longer text is split at sentence boundaries and the pieces are
// synthesized in parallel.
func WithChunkSize(n int) MouthOption {
	return func(m *Mouth) {
		m.chunkSize = n
	}
}

// WithCacheDir sets the filesystem directory used for persistent audio
// caching. If empty, the disk layer is disabled.
func WithCacheDir(dir string) MouthOption {
	return func(m *Mouth) {
		m.cacheDir = dir
	}
}

// WithDiskWrite controls whether new cache entries are written to disk.
// Existing entries are read either way.
func WithDiskWrite(enabled bool) MouthOption {
	return func(m *Mouth) {
		m.diskWrite = enabled
	}
}

// Mouth speaks one utterance at a time: chunk, synthesize (cached,
// parallel per chunk), then play in order. Speak blocks until the audio has
// played, so callers that speak concurrently are queued on the mutex.
type Mouth struct {
	tts    Synthesizer
	player Player
	log    *logger.Logger
	cache  *AudioCache

	mu        sync.Mutex
	chunkSize int
	cacheDir  string
	diskWrite bool
}

// NewMouth creates a speech pipeline. When tts reports a Voice, it is part
// of every cache key.
func NewMouth(tts Synthesizer, player Player, log *logger.Logger, opts ...MouthOption) *Mouth {
	m := &Mouth{
		tts:       tts,
		player:    player,
		log:       log,
		chunkSize: 200,
		diskWrite: true,
	}
	for _, opt := range opts {
		opt(m)
	}

	voice := ""
	if v, ok := tts.(interface{ Voice() string }); ok {
		voice = v.Voice()
	}
	m.cache = NewAudioCache(voice, m.cacheDir, m.diskWrite, log)
	return m
}

// Speak synthesizes and plays text. Chunks that fail to synthesize are
// skipped; their errors are returned after the rest has played.
func (m *Mouth) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Debug("mouth: speaking: %s", truncate(text, 60))

	chunks := m.splitChunks(text)
	audio := make([][]byte, len(chunks))
	errs := make([]error, len(chunks))

	if len(chunks) == 1 {
		audio[0], errs[0] = m.synthesizeWithCache(ctx, chunks[0])
	} else {
		m.log.Debug("mouth: split into %d chunks for parallel synthesis", len(chunks))
		var wg sync.WaitGroup
		for i, chunk := range chunks {
			wg.Add(1)
			go func(idx int, t string) {
				defer wg.Done()
				audio[idx], errs[idx] = m.synthesizeWithCache(ctx, t)
			}(i, chunk)
		}
		wg.Wait()
	}

	for i, a := range audio {
		if errs[i] != nil {
			m.log.Error("mouth: chunk %d synthesis failed: %v", i, errs[i])
			continue
		}
		if err := m.player.Play(ctx, a); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			errs[i] = fmt.Errorf("playing chunk %d: %w", i, err)
			m.log.Error("mouth: %v", errs[i])
		}
	}
	return errors.Join(errs...)
}

// Cache returns the audio cache used by this Mouth.
func (m *Mouth) Cache() *AudioCache { return m.cache }

func (m *Mouth) synthesizeWithCache(ctx context.Context, text string) ([]byte, error) {
	if audio, ok := m.cache.Get(text); ok {
		return audio, nil
	}
	audio, err := m.tts.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	m.cache.Put(text, audio)
	return audio, nil
}

// splitChunks breaks text into sentence-boundary chunks of roughly
// m.chunkSize characters.
func (m *Mouth) splitChunks(text string) []string {
	if m.chunkSize <= 0 || len(text) <= m.chunkSize {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	for _, s := range splitSentences(text) {
		if current.Len() > 0 && current.Len()+len(s) > m.chunkSize {
			if c := strings.TrimSpace(current.String()); c != "" {
				chunks = append(chunks, c)
			}
			current.Reset()
		}
		current.WriteString(s)
	}
	if c := strings.TrimSpace(current.String()); c != "" {
		chunks = append(chunks, c)
	}
	return chunks
}

// splitSentences splits text after . ! or ? keeping the punctuation and
// trailing whitespace with the preceding sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])
		if isSentenceEnd(runes[i]) {
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
				current.WriteRune(runes[i])
			}
			sentences = append(sentences, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
