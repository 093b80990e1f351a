// Package engine owns the in-memory to-do list. A single goroutine applies
// every read and mutation in arrival order and persists the result before
// the next request is served, so concurrent commands never lose updates.
package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// Compile-time interface check.
var _ domain.ItemList = (*Engine)(nil)

// Option configures the engine.
type Option func(*Engine)

// WithClock overrides the time source used for new items.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// mutation receives the current list and returns its replacement, or nil
// when the request only reads.
type mutation func(items []domain.Item) ([]domain.Item, error)

// commit persists a replacement list before the engine adopts it.
type commit func(ctx context.Context, next []domain.Item) error

type request struct {
	apply  mutation
	commit commit
	reply  chan error
}

// Engine serializes access to the item collection.
type Engine struct {
	store domain.ItemStore
	log   *logger.Logger
	now   func() time.Time

	items []domain.Item
	reqs  chan request

	mu      sync.Mutex
	running bool
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New loads the persisted list and returns an engine that has not started
// serving yet. A malformed data file is an error the caller should treat
// as fatal.
func New(ctx context.Context, store domain.ItemStore, log *logger.Logger, opts ...Option) (*Engine, error) {
	items, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}

	e := &Engine{
		store: store,
		log:   log,
		now:   time.Now,
		items: items,
		reqs:  make(chan request),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	log.Info("engine: loaded %d items", len(items))
	return e, nil
}

// Start begins serving requests in the background. Non-blocking.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running || e.stopped {
		e.log.Warn("engine already running or stopped")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.running = true

	go e.loop(childCtx)
}

// Stop shuts the owner goroutine down and waits for it to exit. Requests
// made afterwards fail with domain.ErrStopped.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.cancel()
	e.running = false
	e.stopped = true
	e.mu.Unlock()

	<-e.done
}

func (e *Engine) loop(ctx context.Context) {
	defer close(e.done)

	for {
		select {
		case <-ctx.Done():
			return
		case req := <-e.reqs:
			req.reply <- e.serve(ctx, req)
		}
	}
}

// serve runs one request against the current list. The replacement is only
// committed once it has been persisted.
func (e *Engine) serve(ctx context.Context, req request) error {
	next, err := req.apply(e.items)
	if err != nil || next == nil {
		return err
	}

	if err := req.commit(ctx, next); err != nil {
		return err
	}

	e.items = next
	return nil
}

func (e *Engine) save(ctx context.Context, next []domain.Item) error {
	if err := e.store.Save(ctx, next); err != nil {
		return fmt.Errorf("saving items: %w", err)
	}
	return nil
}

func (e *Engine) do(ctx context.Context, apply mutation) error {
	return e.doCommit(ctx, apply, e.save)
}

func (e *Engine) doCommit(ctx context.Context, apply mutation, c commit) error {
	req := request{apply: apply, commit: c, reply: make(chan error, 1)}

	select {
	case e.reqs <- req:
	case <-e.done:
		return domain.ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	return <-req.reply
}

// Add appends a pending item and returns it with the new total.
func (e *Engine) Add(ctx context.Context, text string) (domain.Item, int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Item{}, 0, domain.ErrEmptyText
	}

	var (
		item  domain.Item
		total int
	)
	err := e.do(ctx, func(items []domain.Item) ([]domain.Item, error) {
		item = domain.NewItem(text, e.now())
		next := append(slices.Clip(items), item)
		total = len(next)
		return next, nil
	})
	if err != nil {
		return domain.Item{}, 0, err
	}

	e.log.Debug("engine: added %q (total=%d)", item.Text, total)
	return item, total, nil
}

// Items returns a snapshot of the list in insertion order.
func (e *Engine) Items(ctx context.Context) ([]domain.Item, error) {
	var out []domain.Item
	err := e.do(ctx, func(items []domain.Item) ([]domain.Item, error) {
		out = slices.Clone(items)
		return nil, nil
	})
	return out, err
}

// MarkDone sets the first item whose text contains name to done.
func (e *Engine) MarkDone(ctx context.Context, name string) (domain.Item, error) {
	var item domain.Item
	err := e.do(ctx, func(items []domain.Item) ([]domain.Item, error) {
		idx := firstMatch(items, name)
		if idx < 0 {
			return nil, domain.ErrNotFound
		}
		next := slices.Clone(items)
		next[idx].Status = domain.StatusDone
		item = next[idx]
		return next, nil
	})
	if err != nil {
		return domain.Item{}, err
	}

	e.log.Debug("engine: marked %q done", item.Text)
	return item, nil
}

// Delete removes the first item whose text contains name and returns it
// with the number of items left.
func (e *Engine) Delete(ctx context.Context, name string) (domain.Item, int, error) {
	var (
		item domain.Item
		left int
	)
	err := e.do(ctx, func(items []domain.Item) ([]domain.Item, error) {
		idx := firstMatch(items, name)
		if idx < 0 {
			return nil, domain.ErrNotFound
		}
		item = items[idx]
		next := slices.Delete(slices.Clone(items), idx, idx+1)
		left = len(next)
		return next, nil
	})
	if err != nil {
		return domain.Item{}, 0, err
	}

	e.log.Debug("engine: deleted %q (left=%d)", item.Text, left)
	return item, left, nil
}

// Clear removes the persisted list and empties the collection. It reports
// whether there was anything persisted to remove.
func (e *Engine) Clear(ctx context.Context) (bool, error) {
	var existed bool
	clearStore := func(ctx context.Context, _ []domain.Item) error {
		var err error
		if existed, err = e.store.Clear(ctx); err != nil {
			return fmt.Errorf("clearing items: %w", err)
		}
		return nil
	}
	err := e.doCommit(ctx, func(items []domain.Item) ([]domain.Item, error) {
		return []domain.Item{}, nil
	}, clearStore)
	if err != nil {
		return false, err
	}

	e.log.Debug("engine: cleared list (existed=%v)", existed)
	return existed, nil
}

// Summary counts items by status.
func (e *Engine) Summary(ctx context.Context) (domain.Summary, error) {
	var sum domain.Summary
	err := e.do(ctx, func(items []domain.Item) ([]domain.Item, error) {
		sum = domain.Summarize(items)
		return nil, nil
	})
	return sum, err
}

func firstMatch(items []domain.Item, name string) int {
	return slices.IndexFunc(items, func(it domain.Item) bool {
		return it.Matches(name)
	})
}
