package engine

import (
	"context"
	"log/slog"
)

// Feedback is the progress sink the pipeline reports to. Stages poll
// IsCancelled between geometry engine calls.
type Feedback interface {
	PushInfo(msg string)
	SetProgress(percent float64)
	IsCancelled() bool
}

// NopFeedback discards everything and never cancels.
type NopFeedback struct{}

func (NopFeedback) PushInfo(string)     {}
func (NopFeedback) SetProgress(float64) {}
func (NopFeedback) IsCancelled() bool   { return false }

// LogFeedback forwards messages to a slog logger.
type LogFeedback struct {
	logger *slog.Logger
}

// NewLogFeedback returns a Feedback writing info messages at info level and
// progress at debug level. A nil logger uses slog.Default().
func NewLogFeedback(logger *slog.Logger) *LogFeedback {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogFeedback{logger: logger}
}

func (f *LogFeedback) PushInfo(msg string) {
	f.logger.Info(msg)
}

func (f *LogFeedback) SetProgress(percent float64) {
	f.logger.Debug("progress", "percent", percent)
}

func (f *LogFeedback) IsCancelled() bool { return false }

// ContextFeedback reports cancellation once ctx is done and delegates
// everything else to the wrapped Feedback.
type ContextFeedback struct {
	ctx   context.Context
	inner Feedback
}

// NewContextFeedback wraps inner so that IsCancelled also reports ctx
// cancellation.
func NewContextFeedback(ctx context.Context, inner Feedback) *ContextFeedback {
	if inner == nil {
		inner = NopFeedback{}
	}
	return &ContextFeedback{ctx: ctx, inner: inner}
}

func (f *ContextFeedback) PushInfo(msg string)         { f.inner.PushInfo(msg) }
func (f *ContextFeedback) SetProgress(percent float64) { f.inner.SetProgress(percent) }

func (f *ContextFeedback) IsCancelled() bool {
	return f.ctx.Err() != nil || f.inner.IsCancelled()
}

func orNop(fb Feedback) Feedback {
	if fb == nil {
		return NopFeedback{}
	}
	return fb
}

func checkCancelled(fb Feedback) error {
	if fb.IsCancelled() {
		return ErrCancelled
	}
	return nil
}
