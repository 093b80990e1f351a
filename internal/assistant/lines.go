// Package assistant turns transcripts into to-do list actions and runs the
// listen/dispatch loop.
package assistant

import (
	"fmt"
	"time"

	"github.com/hammamikhairi/voicetodo/internal/domain"
)

// Every string the assistant says lives here.

// ── Global ───────────────────────────────────────────────────────

func LineGreeting() string {
	return "Voice Assistant Started. Say a command anytime."
}

func LineEcho(transcript string) string {
	return "You said: " + transcript
}

func LineGoodbye() string {
	return "Goodbye! Have a nice day."
}

func LineNotRecognized() string {
	return "Command not recognized. Please try again."
}

func LineHelp() string {
	return "You can say: add an item, show my list, mark done an item, delete an item, " +
		"clear all, summary, remind me to do something in 5 minutes, time, date, or exit."
}

func LineSaveFailed() string {
	return "I couldn't save your list."
}

func LineUnavailable() string {
	return "Sorry, something went wrong. Please try again."
}

// ── Items ────────────────────────────────────────────────────────

func LineAdded(text string, total int) string {
	return fmt.Sprintf("Added '%s'. You now have %d items total.", text, total)
}

func LineNothingToAdd() string {
	return "Please say what to add."
}

func LineNoItems() string {
	return "No items found."
}

func LineItemCount(n int) string {
	return fmt.Sprintf("You have %d items.", n)
}

// LineListEntry is printed, never spoken. index is 1-based.
func LineListEntry(index int, it domain.Item) string {
	return fmt.Sprintf("%d. %s - %s (Added: %s)",
		index, it.Text, it.Status, it.CreatedAt.Format(domain.TimeLayout))
}

func LineMarkedDone(text string) string {
	return fmt.Sprintf("'%s' marked as done.", text)
}

func LineMarkNotFound() string {
	return "Couldn't find that item."
}

func LineDeleted(text string, left int) string {
	return fmt.Sprintf("'%s' deleted. You now have %d items left.", text, left)
}

func LineDeleteNotFound() string {
	return "No matching item found."
}

func LineCleared() string {
	return "All items have been cleared."
}

func LineNothingToClear() string {
	return "No items to clear."
}

func LineSummary(s domain.Summary) string {
	return fmt.Sprintf("You have %d items, %d completed and %d pending.", s.Total, s.Done, s.Pending)
}

// ── Reminders ────────────────────────────────────────────────────

func LineReminderSet(text, when string) string {
	return fmt.Sprintf("Reminder set for %s in %s.", text, when)
}

func LineReminderFormat() string {
	return "Sorry, I couldn't understand the reminder format. Please try again."
}

// ── Clock ────────────────────────────────────────────────────────

func LineTime(now time.Time) string {
	return "The time is " + now.Format("03:04 PM")
}

func LineDate(now time.Time) string {
	return "Today is " + now.Format("Monday, January 02, 2006")
}
