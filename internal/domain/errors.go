package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound       = errors.New("not found")
	ErrEmptyText      = errors.New("item text is empty")
	ErrStopped        = errors.New("stopped")
	ErrUnintelligible = errors.New("speech was not understood")
	ErrNoSpeech       = errors.New("no speech detected")
	ErrNetwork        = errors.New("speech service unreachable")
)
