package store

import (
	"context"

	"github.com/dmitrijs2005/medscribe/internal/logging"
)

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notifier receives transient, user-facing messages.
type Notifier interface {
	Notify(ctx context.Context, level Level, msg string)
}

type NotifierFunc func(ctx context.Context, level Level, msg string)

func (f NotifierFunc) Notify(ctx context.Context, level Level, msg string) { f(ctx, level, msg) }

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Logger logging.Logger
}

func (n LogNotifier) Notify(ctx context.Context, level Level, msg string) {
	if level == LevelError {
		n.Logger.Warn(ctx, msg, "notification", level.String())
		return
	}
	n.Logger.Info(ctx, msg, "notification", level.String())
}
