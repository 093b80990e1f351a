package speech

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// scriptedEar returns one canned result per call.
type scriptedEar struct {
	text string
	err  error
}

func (e scriptedEar) Transcribe(context.Context) (string, error) {
	return e.text, e.err
}

func TestVoiceInputListen(t *testing.T) {
	tests := []struct {
		name     string
		ear      scriptedEar
		want     string
		wantSaid string
		wantErr  error
	}{
		{"normalized", scriptedEar{text: "  Show my list. "}, "show my list", "", nil},
		{"keeps inner punctuation", scriptedEar{text: "Add milk, eggs."}, "add milk, eggs", "", nil},
		{"blank", scriptedEar{text: " ... "}, "", "", nil},
		{"unintelligible", scriptedEar{err: domain.ErrUnintelligible}, "", LineDidNotCatch(), nil},
		{"wrapped unintelligible", scriptedEar{err: fmt.Errorf("recording: %w", domain.ErrUnintelligible)}, "", LineDidNotCatch(), nil},
		{"silence", scriptedEar{err: fmt.Errorf("recording: %w", domain.ErrNoSpeech)}, "", "", nil},
		{"network", scriptedEar{err: fmt.Errorf("stt: %w", domain.ErrNetwork)}, "", LineNetworkError(), nil},
		{"other error", scriptedEar{err: errors.New("mic unplugged")}, "", "", nil},
		{"input closed", scriptedEar{err: domain.ErrStopped}, "", "", domain.ErrStopped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &mockNotifier{}
			v := NewVoiceInput(tt.ear, n, logger.New(logger.LevelOff, nil), WithErrorBackoff(0))

			got, err := v.Listen(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}

			said := n.messages()
			if tt.wantSaid == "" {
				if len(said) != 0 {
					t.Errorf("expected nothing said, got %q", said)
				}
				return
			}
			if len(said) != 1 || said[0] != tt.wantSaid {
				t.Errorf("said %q, want %q", said, tt.wantSaid)
			}
		})
	}
}

// blockingEar waits for cancellation.
type blockingEar struct{}

func (blockingEar) Transcribe(ctx context.Context) (string, error) {
	<-ctx.Done()
	return "", errors.New("recording aborted")
}

func TestVoiceInputReturnsContextError(t *testing.T) {
	n := &mockNotifier{}
	v := NewVoiceInput(blockingEar{}, n, logger.New(logger.LevelOff, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := v.Listen(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if len(n.messages()) != 0 {
		t.Fatal("cancellation should not be announced")
	}
}
