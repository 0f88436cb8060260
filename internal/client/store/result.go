package store

import "context"

// Result is the outcome of one slice action.
type Result[T any] struct {
	Value T
	Err   error
	// Stale is set on a list fetch that was superseded by a newer one; its
	// value was not written to the slice.
	Stale bool
}

func (r Result[T]) OK() bool { return r.Err == nil }

// Async runs fn in its own goroutine and delivers the result on the
// returned channel, which is closed afterwards.
func Async[T any](ctx context.Context, fn func(context.Context) Result[T]) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		defer close(ch)
		ch <- fn(ctx)
	}()
	return ch
}
