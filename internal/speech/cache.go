package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// DefaultCacheEntries bounds the in-memory tier of the audio cache.
const DefaultCacheEntries = 256

// AudioCache keeps synthesized WAV audio for replies that repeat, such as
// the greeting, the apologies and "Added ... to your list.".
//
// There are two tiers. Memory holds up to maxEntries clips and evicts the
// oldest first. The disk directory, when set, is always read; clips are
// written to it only when diskWrite is true. Keys hash the voice with the
// text so a voice change never replays another voice's audio.
type AudioCache struct {
	log *logger.Logger

	voice     string
	dir       string
	diskWrite bool

	mu         sync.Mutex
	clips      map[string][]byte
	order      []string // insertion order, oldest first
	maxEntries int
	hits       int64
	misses     int64
}

// NewAudioCache creates an audio cache for voice. An empty dir disables the
// disk tier.
func NewAudioCache(voice, dir string, diskWrite bool, log *logger.Logger) *AudioCache {
	c := &AudioCache{
		log:        log,
		voice:      voice,
		dir:        dir,
		diskWrite:  diskWrite,
		clips:      make(map[string][]byte),
		maxEntries: DefaultCacheEntries,
	}

	if dir != "" && diskWrite {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Warn("audio cache: cannot create %s, disk writes off: %v", dir, err)
			c.diskWrite = false
		}
	}
	return c
}

// Get returns the clip for text. A disk hit is promoted to memory.
func (c *AudioCache) Get(text string) ([]byte, bool) {
	key := c.key(text)

	c.mu.Lock()
	clip, ok := c.clips[key]
	c.mu.Unlock()

	if !ok && c.dir != "" {
		if data, err := os.ReadFile(c.path(key)); err == nil && len(data) > 0 {
			clip, ok = data, true
			c.remember(key, clip)
			c.log.Debug("audio cache: disk hit %q", truncate(text, 40))
		}
	}

	c.mu.Lock()
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()
	return clip, ok
}

// Put stores the clip for text.
func (c *AudioCache) Put(text string, clip []byte) {
	key := c.key(text)
	c.remember(key, clip)

	if c.dir == "" || !c.diskWrite {
		return
	}
	if err := c.persist(key, clip); err != nil {
		c.log.Warn("audio cache: %v", err)
		return
	}
	c.log.Debug("audio cache: stored %s (%d bytes)", key[:12], len(clip))
}

// Len returns the number of clips held in memory.
func (c *AudioCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clips)
}

// Stats returns hit and miss counts.
func (c *AudioCache) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *AudioCache) remember(key string, clip []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.clips[key]; !exists {
		c.order = append(c.order, key)
	}
	c.clips[key] = clip

	for len(c.order) > c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.clips, oldest)
	}
}

// persist writes the clip through a temp file so a crash never leaves a
// truncated WAV under the final name.
func (c *AudioCache) persist(key string, clip []byte) error {
	tmp, err := os.CreateTemp(c.dir, key[:12]+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(clip); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.path(key))
}

func (c *AudioCache) key(text string) string {
	sum := sha256.Sum256([]byte(c.voice + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

func (c *AudioCache) path(key string) string {
	return filepath.Join(c.dir, key+".wav")
}

// truncate shortens a string for logging.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
