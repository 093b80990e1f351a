package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// Compile-time interface check.
var _ domain.Speaker = (*Espeak)(nil)

// DefaultEspeakBin is looked up in PATH.
const DefaultEspeakBin = "espeak-ng"

// Espeak speaks through the espeak-ng command-line synthesizer, which plays
// the audio itself.
type Espeak struct {
	bin   string
	voice string
	rate  int
	log   *logger.Logger
}

// NewEspeak resolves bin in PATH. An empty voice uses espeak's default and
// a rate of 0 keeps espeak's default speed.
func NewEspeak(bin, voice string, rate int, log *logger.Logger) (*Espeak, error) {
	if bin == "" {
		bin = DefaultEspeakBin
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("espeak binary %q: %w", bin, err)
	}
	return &Espeak{bin: path, voice: voice, rate: rate, log: log}, nil
}

// Speak runs espeak-ng and waits for it to finish. Cancelling ctx kills it.
func (e *Espeak) Speak(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, e.bin, e.args()...)
	cmd.Stdin = strings.NewReader(text)
	e.log.Debug("espeak: %s", truncate(text, 60))
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("espeak: %w: %s", err, out)
	}
	return nil
}

func (e *Espeak) args() []string {
	args := []string{"--stdin"}
	if e.voice != "" {
		args = append(args, "-v", e.voice)
	}
	if e.rate > 0 {
		args = append(args, "-s", strconv.Itoa(e.rate))
	}
	return args
}
