package speech

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// mockNotifier collects printed messages.
type mockNotifier struct {
	mu      sync.Mutex
	said    []string
	urgent  []string
	printed []string
}

func (m *mockNotifier) Notify(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.said = append(m.said, msg)
	return nil
}

func (m *mockNotifier) NotifyUrgent(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urgent = append(m.urgent, msg)
	return nil
}

func (m *mockNotifier) Println(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.printed = append(m.printed, text)
}

func (m *mockNotifier) messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.said...)
}

// mockSpeaker records spoken text.
type mockSpeaker struct {
	mu     sync.Mutex
	spoken []string
	err    error
}

func (m *mockSpeaker) Speak(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spoken = append(m.spoken, text)
	return m.err
}

func TestSpeakingNotifier(t *testing.T) {
	text := &mockNotifier{}
	sp := &mockSpeaker{}
	n := NewSpeakingNotifier(text, sp, logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	if err := n.Notify(ctx, "No items found."); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := n.NotifyUrgent(ctx, "Reminder: \x1b[1mcall mom\x1b[0m"); err != nil {
		t.Fatalf("notify urgent: %v", err)
	}
	n.Println("1. eggs - pending")

	if len(text.said) != 1 || len(text.urgent) != 1 {
		t.Fatalf("printed said=%q urgent=%q", text.said, text.urgent)
	}
	want := []string{"No items found.", "Reminder: call mom"}
	if len(sp.spoken) != len(want) {
		t.Fatalf("spoken %q, want %q", sp.spoken, want)
	}
	for i := range want {
		if sp.spoken[i] != want[i] {
			t.Errorf("spoken[%d] = %q, want %q", i, sp.spoken[i], want[i])
		}
	}
	if len(text.printed) != 1 {
		t.Errorf("listing line should pass through unspoken, got %q", text.printed)
	}
}

func TestSpeakingNotifierReportsSpeechError(t *testing.T) {
	text := &mockNotifier{}
	sp := &mockSpeaker{err: errors.New("no audio device")}
	n := NewSpeakingNotifier(text, sp, logger.New(logger.LevelOff, nil))

	if err := n.Notify(context.Background(), "hello"); err == nil {
		t.Fatal("expected speech error")
	}
	if len(text.said) != 1 {
		t.Fatal("message should still be printed")
	}
}
