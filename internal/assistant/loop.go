package assistant

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// Handler executes one transcript and reports whether to keep listening.
type Handler interface {
	Handle(ctx context.Context, transcript string) bool
}

// Loop acquires transcripts and runs each one in its own goroutine so the
// next listen starts right away.
type Loop struct {
	listener domain.Listener
	handler  Handler
	notifier domain.Notifier
	log      *logger.Logger

	stopped atomic.Bool
	wg      sync.WaitGroup
}

// NewLoop creates a dispatch loop.
func NewLoop(listener domain.Listener, handler Handler, notifier domain.Notifier, log *logger.Logger) *Loop {
	return &Loop{
		listener: listener,
		handler:  handler,
		notifier: notifier,
		log:      log,
	}
}

// Run greets the user and dispatches commands until one asks to exit, the
// listener runs out of input or ctx is cancelled. An exit command aborts
// the listen in progress. Run waits for in-flight commands before
// returning.
func (l *Loop) Run(ctx context.Context) error {
	listenCtx, cancelListen := context.WithCancel(ctx)
	defer cancelListen()

	if err := l.notifier.Notify(ctx, LineGreeting()); err != nil {
		l.log.Warn("greeting: %v", err)
	}

	var runErr error
	for !l.stopped.Load() {
		transcript, err := l.listener.Listen(listenCtx)
		if err != nil {
			if listenCtx.Err() == nil && !errors.Is(err, domain.ErrStopped) {
				runErr = fmt.Errorf("listening: %w", err)
			}
			break
		}
		if transcript == "" {
			continue
		}

		l.log.Debug("heard: %q", transcript)
		l.wg.Add(1)
		go func(text string) {
			defer l.wg.Done()
			if !l.handler.Handle(ctx, text) {
				l.stopped.Store(true)
				cancelListen()
			}
		}(transcript)
	}

	l.wg.Wait()
	l.log.Info("dispatch loop stopped")
	return runErr
}

// Stopped reports whether a command has asked the loop to exit.
func (l *Loop) Stopped() bool {
	return l.stopped.Load()
}
