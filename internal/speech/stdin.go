package speech

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// Compile-time interface check.
var _ domain.Transcriber = (*TextEar)(nil)

// TextEar reads typed commands, one line per Transcribe. Lines are read by
// a background goroutine so a pending Transcribe can be cancelled.
type TextEar struct {
	in     io.Reader
	prompt io.Writer
	log    *logger.Logger

	once  sync.Once
	lines chan string
	err   error
}

// NewTextEar reads from in and writes a "> " prompt to prompt before each
// line. A nil prompt disables it.
func NewTextEar(in io.Reader, prompt io.Writer, log *logger.Logger) *TextEar {
	return &TextEar{
		in:     in,
		prompt: prompt,
		log:    log,
		lines:  make(chan string),
	}
}

// Transcribe returns the next typed line. After the input closes it
// returns domain.ErrStopped.
func (e *TextEar) Transcribe(ctx context.Context) (string, error) {
	e.once.Do(func() { go e.read() })

	if e.prompt != nil {
		fmt.Fprint(e.prompt, "> ")
	}

	select {
	case line, ok := <-e.lines:
		if !ok {
			if e.err != nil {
				return "", fmt.Errorf("reading input: %w: %w", domain.ErrStopped, e.err)
			}
			return "", domain.ErrStopped
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (e *TextEar) read() {
	defer close(e.lines)

	sc := bufio.NewScanner(e.in)
	for sc.Scan() {
		e.lines <- sc.Text()
	}
	e.err = sc.Err()
	if e.err != nil {
		e.log.Error("text input: %v", e.err)
	}
}
