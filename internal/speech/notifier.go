package speech

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*SpeakingNotifier)(nil)

// SpeakingNotifier prints every message through a text notifier and then
// speaks it. Notify returns once the speech has finished.
type SpeakingNotifier struct {
	text    domain.Notifier
	speaker domain.Speaker
	log     *logger.Logger
}

// NewSpeakingNotifier creates a notifier that both prints and speaks.
func NewSpeakingNotifier(text domain.Notifier, speaker domain.Speaker, log *logger.Logger) *SpeakingNotifier {
	return &SpeakingNotifier{
		text:    text,
		speaker: speaker,
		log:     log,
	}
}

// Notify prints the message and speaks it.
func (n *SpeakingNotifier) Notify(ctx context.Context, message string) error {
	if err := n.text.Notify(ctx, message); err != nil {
		return err
	}
	return n.speak(ctx, message)
}

// NotifyUrgent prints the message in the urgent style and speaks it.
func (n *SpeakingNotifier) NotifyUrgent(ctx context.Context, message string) error {
	if err := n.text.NotifyUrgent(ctx, message); err != nil {
		return err
	}
	return n.speak(ctx, message)
}

// Println shows a line without speaking it.
func (n *SpeakingNotifier) Println(text string) {
	if lp, ok := n.text.(interface{ Println(string) }); ok {
		lp.Println(text)
		return
	}
	fmt.Println(text)
}

func (n *SpeakingNotifier) speak(ctx context.Context, message string) error {
	cleaned := cleanForSpeech(message)
	if cleaned == "" {
		return nil
	}
	if err := n.speaker.Speak(ctx, cleaned); err != nil {
		return fmt.Errorf("speaking: %w", err)
	}
	return nil
}

var ansiCodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// cleanForSpeech strips terminal escapes that shouldn't be spoken.
func cleanForSpeech(msg string) string {
	return strings.TrimSpace(ansiCodes.ReplaceAllString(msg, ""))
}
