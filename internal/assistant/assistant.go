package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hammamikhairi/voicetodo/internal/conversation"
	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// DefaultExitPause is how long the assistant waits after saying goodbye.
const DefaultExitPause = 1500 * time.Millisecond

// Option configures the assistant.
type Option func(*Assistant)

// WithClock overrides the time source for the time and date commands.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) {
		a.now = now
	}
}

// WithExitPause sets the pause after the farewell. Zero disables it.
func WithExitPause(d time.Duration) Option {
	return func(a *Assistant) {
		a.exitPause = d
	}
}

// WithPrinter sets where the item listing goes. The listing is shown, not
// spoken.
func WithPrinter(fn func(line string)) Option {
	return func(a *Assistant) {
		a.print = fn
	}
}

// linePrinter is implemented by notifiers that can show unspoken lines.
type linePrinter interface {
	Println(text string)
}

// Assistant executes one transcript at a time against the item list. It is
// safe to call Handle from several goroutines; the list serializes
// mutations itself.
type Assistant struct {
	parser    domain.IntentParser
	items     domain.ItemList
	reminders domain.ReminderScheduler
	notifier  domain.Notifier
	log       *logger.Logger

	now       func() time.Time
	exitPause time.Duration
	print     func(line string)
}

// New creates an assistant. If no printer is configured and the notifier
// can print plain lines, the listing goes through the notifier.
func New(
	parser domain.IntentParser,
	items domain.ItemList,
	reminders domain.ReminderScheduler,
	notifier domain.Notifier,
	log *logger.Logger,
	opts ...Option,
) *Assistant {
	a := &Assistant{
		parser:    parser,
		items:     items,
		reminders: reminders,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
		exitPause: DefaultExitPause,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.print == nil {
		if lp, ok := notifier.(linePrinter); ok {
			a.print = lp.Println
		} else {
			a.print = func(line string) { fmt.Println(line) }
		}
	}
	return a
}

// Handle echoes the transcript, runs the matching command and reports the
// outcome to the user. It returns false when the user asked to exit.
func (a *Assistant) Handle(ctx context.Context, transcript string) bool {
	a.say(ctx, LineEcho(transcript))

	intent, err := a.parser.Parse(ctx, transcript)
	if err != nil {
		a.log.Warn("parse %q: %v", transcript, err)
		a.say(ctx, LineNotRecognized())
		return true
	}

	a.log.Info("command: %s", intent.Type)

	switch intent.Type {
	case domain.IntentAdd:
		a.add(ctx, intent.Payload)
	case domain.IntentShow:
		a.show(ctx)
	case domain.IntentMarkDone:
		a.markDone(ctx, intent.Payload)
	case domain.IntentDelete:
		a.delete(ctx, intent.Payload)
	case domain.IntentClearAll:
		a.clear(ctx)
	case domain.IntentSummary:
		a.summary(ctx)
	case domain.IntentRemind:
		a.remind(ctx, intent.Payload)
	case domain.IntentTime:
		a.say(ctx, LineTime(a.now()))
	case domain.IntentDate:
		a.say(ctx, LineDate(a.now()))
	case domain.IntentHelp:
		a.say(ctx, LineHelp())
	case domain.IntentExit:
		a.say(ctx, LineGoodbye())
		a.pause(ctx, a.exitPause)
		return false
	default:
		a.say(ctx, LineNotRecognized())
	}
	return true
}

func (a *Assistant) add(ctx context.Context, text string) {
	item, total, err := a.items.Add(ctx, text)
	switch {
	case errors.Is(err, domain.ErrEmptyText):
		a.say(ctx, LineNothingToAdd())
	case err != nil:
		a.fail(ctx, "add", err)
	default:
		a.say(ctx, LineAdded(item.Text, total))
	}
}

func (a *Assistant) show(ctx context.Context) {
	items, err := a.items.Items(ctx)
	if err != nil {
		a.fail(ctx, "show", err)
		return
	}
	if len(items) == 0 {
		a.say(ctx, LineNoItems())
		return
	}
	a.say(ctx, LineItemCount(len(items)))
	for i, it := range items {
		a.print(LineListEntry(i+1, it))
	}
}

func (a *Assistant) markDone(ctx context.Context, name string) {
	item, err := a.items.MarkDone(ctx, name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.say(ctx, LineMarkNotFound())
	case err != nil:
		a.fail(ctx, "mark done", err)
	default:
		a.say(ctx, LineMarkedDone(item.Text))
	}
}

func (a *Assistant) delete(ctx context.Context, name string) {
	item, left, err := a.items.Delete(ctx, name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.say(ctx, LineDeleteNotFound())
	case err != nil:
		a.fail(ctx, "delete", err)
	default:
		a.say(ctx, LineDeleted(item.Text, left))
	}
}

func (a *Assistant) clear(ctx context.Context) {
	existed, err := a.items.Clear(ctx)
	switch {
	case err != nil:
		a.fail(ctx, "clear", err)
	case existed:
		a.say(ctx, LineCleared())
	default:
		a.say(ctx, LineNothingToClear())
	}
}

func (a *Assistant) summary(ctx context.Context) {
	sum, err := a.items.Summary(ctx)
	if err != nil {
		a.fail(ctx, "summary", err)
		return
	}
	a.say(ctx, LineSummary(sum))
}

func (a *Assistant) remind(ctx context.Context, phrase string) {
	req, err := conversation.ParseReminder(phrase)
	if err != nil {
		a.log.Info("reminder: %v", err)
		a.say(ctx, LineReminderFormat())
		return
	}

	a.say(ctx, LineReminderSet(req.Text, req.When))

	id, err := a.reminders.Schedule(req.Text, req.Delay)
	if err != nil {
		a.log.Warn("scheduling reminder %q: %v", req.Text, err)
		return
	}
	a.log.Debug("reminder %s: %q in %s", id, req.Text, req.Delay)
}

// fail reports an unexpected list error. Anything other than a stopped
// list or a cancelled context came from the store.
func (a *Assistant) fail(ctx context.Context, op string, err error) {
	a.log.Error("%s: %v", op, err)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return
	case errors.Is(err, domain.ErrStopped):
		a.say(ctx, LineUnavailable())
	default:
		a.say(ctx, LineSaveFailed())
	}
}

func (a *Assistant) say(ctx context.Context, msg string) {
	if err := a.notifier.Notify(ctx, msg); err != nil {
		a.log.Warn("notify %q: %v", msg, err)
	}
}

func (a *Assistant) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
