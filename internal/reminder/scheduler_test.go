package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// mockNotifier collects notifications for testing.
type mockNotifier struct {
	mu       sync.Mutex
	messages []string
	urgent   []string
}

func (m *mockNotifier) Notify(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockNotifier) NotifyUrgent(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urgent = append(m.urgent, msg)
	return nil
}

func (m *mockNotifier) urgentMessages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.urgent...)
}

type countingChime struct {
	mu    sync.Mutex
	plays int
}

func (c *countingChime) Play(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plays++
	return nil
}

func TestSchedulerFiresOnce(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	notifier := &mockNotifier{}
	chime := &countingChime{}
	s := New(notifier, log, WithChime(chime))
	defer s.Stop()

	start := time.Now()
	id, err := s.Schedule("call mom", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("reminder ID %q is not a UUID: %v", id, err)
	}
	if len(s.Pending()) != 1 {
		t.Fatalf("expected 1 pending reminder, got %d", len(s.Pending()))
	}

	s.Wait()

	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Fatalf("reminder fired too early: %s", elapsed)
	}
	got := notifier.urgentMessages()
	if len(got) != 1 || got[0] != "Reminder: call mom" {
		t.Fatalf("expected one reminder notification, got %v", got)
	}
	if chime.plays != 1 {
		t.Fatalf("expected chime once, got %d", chime.plays)
	}
	if len(s.Pending()) != 0 {
		t.Fatalf("expected no pending reminders, got %d", len(s.Pending()))
	}
}

func TestSchedulerRunsRemindersIndependently(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	notifier := &mockNotifier{}
	s := New(notifier, log)
	defer s.Stop()

	s.Schedule("second", 80*time.Millisecond)
	s.Schedule("first", 10*time.Millisecond)

	pending := s.Pending()
	if len(pending) != 2 || pending[0].Text != "first" {
		t.Fatalf("expected pending sorted by fire time, got %+v", pending)
	}

	s.Wait()

	got := notifier.urgentMessages()
	if len(got) != 2 || got[0] != "Reminder: first" || got[1] != "Reminder: second" {
		t.Fatalf("expected delay-expiry order, got %v", got)
	}
}

func TestSchedulerStopCancelsPending(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	notifier := &mockNotifier{}
	s := New(notifier, log)

	s.Schedule("much later", time.Hour)

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}

	if len(notifier.urgentMessages()) != 0 {
		t.Fatal("cancelled reminder must not fire")
	}
	if _, err := s.Schedule("after stop", time.Millisecond); !errors.Is(err, domain.ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestSchedulerZeroDelay(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	notifier := &mockNotifier{}
	s := New(notifier, log)
	defer s.Stop()

	s.Schedule("now", -time.Second)
	s.Wait()

	if len(notifier.urgentMessages()) != 1 {
		t.Fatal("expected negative delay to fire immediately")
	}
}
