// Package domain defines the core types and interfaces for the to-do
// assistant. All other packages depend on domain; domain depends on nothing.
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the on-disk format of an item's creation time.
const TimeLayout = "2006-01-02 15:04:05.000000"

// Status is the completion state of an item.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusDone
}

// Item is a single to-do entry as spoken by the user.
type Item struct {
	Text      string
	Status    Status
	CreatedAt time.Time
}

// NewItem creates a pending item. The creation time is truncated to the
// precision the data file keeps so a save/load round trip is lossless.
func NewItem(text string, now time.Time) Item {
	return Item{
		Text:      text,
		Status:    StatusPending,
		CreatedAt: now.Truncate(time.Microsecond),
	}
}

// Matches reports whether the item text contains name, case-insensitively.
// An empty name matches nothing.
func (it Item) Matches(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	return strings.Contains(strings.ToLower(it.Text), name)
}

// itemRecord is the persisted shape of an Item.
type itemRecord struct {
	Item      string `json:"item"`
	Status    Status `json:"status"`
	TimeAdded string `json:"time_added"`
}

// MarshalJSON writes the item using the data file field names.
func (it Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemRecord{
		Item:      it.Text,
		Status:    it.Status,
		TimeAdded: it.CreatedAt.Format(TimeLayout),
	})
}

// UnmarshalJSON reads an item from the data file format. time_added is
// interpreted in local time; fractional seconds are optional.
func (it *Item) UnmarshalJSON(data []byte) error {
	var rec itemRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	created, err := time.ParseInLocation(time.DateTime, rec.TimeAdded, time.Local)
	if err != nil {
		return fmt.Errorf("parsing time_added %q: %w", rec.TimeAdded, err)
	}
	if !rec.Status.Valid() {
		return fmt.Errorf("invalid status %q", rec.Status)
	}
	*it = Item{Text: rec.Item, Status: rec.Status, CreatedAt: created}
	return nil
}

// Summary counts items by status. Pending is always Total - Done.
type Summary struct {
	Total   int
	Done    int
	Pending int
}

// Summarize computes the summary for a collection.
func Summarize(items []Item) Summary {
	done := 0
	for _, it := range items {
		if it.Status == StatusDone {
			done++
		}
	}
	return Summary{Total: len(items), Done: done, Pending: len(items) - done}
}

// Reminder is a one-shot delayed notification. It only exists in memory.
type Reminder struct {
	ID     string
	Text   string
	FireAt time.Time
}
