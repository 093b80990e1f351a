// Package conversation provides intent parsing and user notification implementations.
package conversation

import (
	"context"
	"strings"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches a transcript against trigger substrings in a fixed
// priority order. The first rule with any trigger contained in the input
// wins; there is no scoring. Triggers can appear anywhere, so an item named
// "address book" still reads as an add command.
type KeywordParser struct {
	log   *logger.Logger
	rules []keywordRule
}

type keywordRule struct {
	triggers []string
	intent   domain.IntentType
	payload  func(input string, triggers []string) string
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	return &KeywordParser{
		log: log,
		rules: []keywordRule{
			{[]string{"add"}, domain.IntentAdd, stripTriggers},
			{[]string{"show"}, domain.IntentShow, nil},
			{[]string{"mark done", "complete"}, domain.IntentMarkDone, stripTriggers},
			{[]string{"delete", "remove"}, domain.IntentDelete, stripTriggers},
			{[]string{"clear all"}, domain.IntentClearAll, nil},
			{[]string{"summary", "status"}, domain.IntentSummary, nil},
			{[]string{"remind me"}, domain.IntentRemind, wholeInput},
			{[]string{"time"}, domain.IntentTime, nil},
			{[]string{"date"}, domain.IntentDate, nil},
			{[]string{"exit", "quit", "stop"}, domain.IntentExit, nil},
			{[]string{"help"}, domain.IntentHelp, nil},
		},
	}
}

// Parse converts a transcript into an intent. Input is lowercased first.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	lower := strings.ToLower(strings.TrimSpace(input))
	if lower == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", lower)

	for _, rule := range p.rules {
		if !containsAny(lower, rule.triggers) {
			continue
		}
		intent := &domain.Intent{Type: rule.intent}
		if rule.payload != nil {
			intent.Payload = rule.payload(lower, rule.triggers)
		}
		p.log.Debug("matched intent: %s (payload=%q)", intent.Type, intent.Payload)
		return intent, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: lower}, nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// stripTriggers removes every occurrence of each trigger, in order, and
// trims what is left. Occurrences inside other words are removed too.
func stripTriggers(input string, triggers []string) string {
	for _, t := range triggers {
		input = strings.ReplaceAll(input, t, "")
	}
	return strings.TrimSpace(input)
}

func wholeInput(input string, _ []string) string {
	return input
}
