package store

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/medscribe/internal/client/api"
	"github.com/dmitrijs2005/medscribe/internal/logging"
)

// Status is the in-flight state of a slice.
type Status struct {
	Loading bool
	Error   string
}

// base carries what every slice shares: its lock, the request sequence and
// the outlets for notifications and logs.
type base struct {
	mu sync.RWMutex

	name     string
	status   Status
	seq      uint64
	listSeq  uint64
	notifier Notifier
	logger   logging.Logger
}

func newBase(name string, n Notifier, l logging.Logger) base {
	return base{name: name, notifier: n, logger: l.With("slice", name)}
}

func (b *base) Status() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}

// op describes one action. apply and fail run under the slice lock.
type op[T any] struct {
	name     string
	fallback string
	success  string
	// list marks fetches that replace the whole collection.
	list bool
	// quiet suppresses the error notification.
	quiet bool

	call  func(ctx context.Context) (T, error)
	apply func(v T)
	fail  func(err error)
}

func action[T any](ctx context.Context, b *base, o op[T]) Result[T] {
	b.mu.Lock()
	b.seq++
	seq := b.seq
	if o.list {
		b.listSeq = seq
	}
	b.status = Status{Loading: true}
	b.mu.Unlock()

	v, err := o.call(ctx)

	b.mu.Lock()
	stale := o.list && seq < b.listSeq
	switch {
	case stale:
	case err != nil:
		if o.fail != nil {
			o.fail(err)
		}
	case o.apply != nil:
		o.apply(v)
	}

	var msg string
	if err != nil {
		msg = errorMessage(err, o.fallback)
	}
	if seq == b.seq {
		b.status = Status{Error: msg}
	}
	b.mu.Unlock()

	switch {
	case stale:
		b.logger.Debug(ctx, "discarded stale fetch", "action", o.name)
	case err != nil:
		b.logger.Warn(ctx, "action rejected", "action", o.name, "error", err)
		if !o.quiet {
			b.notifier.Notify(ctx, LevelError, msg)
		}
	case o.success != "":
		b.notifier.Notify(ctx, LevelSuccess, o.success)
	}

	return Result[T]{Value: v, Err: err, Stale: stale}
}

// errorMessage records the failure's own text: the server's reason for HTTP
// errors, the error string for anything else. The per-domain message is used
// only when the failure carries no text.
func errorMessage(err error, fallback string) string {
	var msg string
	var he *api.HTTPError
	if errors.As(err, &he) {
		msg = he.Message()
	} else if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		return fallback
	}
	return msg
}
