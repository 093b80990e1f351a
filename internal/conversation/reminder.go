package conversation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultReminderDelay applies when the phrase names no known unit.
const DefaultReminderDelay = 60 * time.Second

// reminderUnits are checked in this order; the first one present wins.
var reminderUnits = []struct {
	keyword string
	unit    time.Duration
}{
	{"minute", time.Minute},
	{"second", time.Second},
	{"hour", time.Hour},
}

// ReminderRequest is a parsed "remind me to X in N units" phrase.
type ReminderRequest struct {
	Text  string        // what to remind about
	When  string        // the time phrase as spoken, e.g. "5 minutes"
	Delay time.Duration // how long to wait
}

// ReminderFormatError reports a reminder phrase that could not be parsed.
type ReminderFormatError struct {
	Input  string
	Reason string
}

func (e *ReminderFormatError) Error() string {
	return fmt.Sprintf("reminder %q: %s", e.Input, e.Reason)
}

// ParseReminder splits input on " in ". The left side, minus "remind me to",
// is the reminder text. The right side must start with a whole number
// followed by minute(s), second(s) or hour(s); a right side naming none of
// those units means DefaultReminderDelay. Only a single unit is understood.
func ParseReminder(input string) (ReminderRequest, error) {
	parts := strings.Split(input, " in ")
	if len(parts) < 2 {
		return ReminderRequest{}, &ReminderFormatError{Input: input, Reason: `missing " in "`}
	}

	req := ReminderRequest{
		Text: strings.TrimSpace(strings.ReplaceAll(parts[0], "remind me to", "")),
		When: strings.TrimSpace(parts[1]),
	}
	when := parts[1]

	for _, u := range reminderUnits {
		before, _, found := strings.Cut(when, u.keyword)
		if !found {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(before))
		if err != nil {
			return ReminderRequest{}, &ReminderFormatError{
				Input:  input,
				Reason: fmt.Sprintf("no number before %q", u.keyword),
			}
		}
		if n < 0 {
			return ReminderRequest{}, &ReminderFormatError{Input: input, Reason: "negative delay"}
		}
		if int64(n) > math.MaxInt64/int64(u.unit) {
			return ReminderRequest{}, &ReminderFormatError{Input: input, Reason: "delay too long"}
		}
		req.Delay = time.Duration(n) * u.unit
		return req, nil
	}

	req.Delay = DefaultReminderDelay
	return req, nil
}
