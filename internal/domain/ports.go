package domain

import (
	"context"
	"time"
)

// ItemStore persists the to-do list as a whole. Implementations rewrite the
// full collection on every Save.
type ItemStore interface {
	Load(ctx context.Context) ([]Item, error)
	Save(ctx context.Context, items []Item) error
	// Clear removes the persisted state and reports whether any existed.
	Clear(ctx context.Context) (bool, error)
}

// IntentParser converts a transcript into a structured intent.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}

// Notifier delivers messages to the user. Implementations can write to
// stdout, use text-to-speech, or both.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// Speaker renders text as audio. Speak blocks until playback finishes.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Transcriber captures one utterance and returns its text. It reports
// ErrUnintelligible when nothing usable was heard and wraps ErrNetwork when
// a remote recognizer could not be reached.
type Transcriber interface {
	Transcribe(ctx context.Context) (string, error)
}

// Listener is the voice-input collaborator used by the dispatch loop. It
// reports recognition problems to the user itself and returns "" for them;
// only context cancellation is returned as an error.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// ReminderScheduler starts delayed one-shot notifications.
type ReminderScheduler interface {
	Schedule(text string, delay time.Duration) (string, error)
}

// Chimer plays a short attention sound.
type Chimer interface {
	Play(ctx context.Context) error
}

// ItemList is the serialized to-do collection the command interpreter
// works against. Mutations are persisted before they return.
type ItemList interface {
	Add(ctx context.Context, text string) (Item, int, error)
	Items(ctx context.Context) ([]Item, error)
	MarkDone(ctx context.Context, name string) (Item, error)
	Delete(ctx context.Context, name string) (Item, int, error)
	Clear(ctx context.Context) (bool, error)
	Summary(ctx context.Context) (Summary, error)
}
