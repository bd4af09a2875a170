package spam

import (
	"context"
	"log/slog"
)

// CallEvent records metadata about a single spam service call.
type CallEvent struct {
	Method    string // verify-key or comment-check
	LatencyMs int64
	Success   bool
	Verdict   Verdict
	ErrorCode string
}

// Observer receives events about spam service calls for logging and
// metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events through logger.
func NewLogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		return NoopObserver{}
	}
	return &logObserver{logger: logger}
}

func (o *logObserver) OnCallComplete(event CallEvent) {
	attrs := []any{
		"method", event.Method,
		"latency_ms", event.LatencyMs,
		"success", event.Success,
	}
	if event.Verdict != "" {
		attrs = append(attrs, "verdict", string(event.Verdict))
	}
	if !event.Success {
		attrs = append(attrs, "error_code", event.ErrorCode)
		o.logger.WarnContext(context.Background(), "spam_call", attrs...)
		return
	}
	o.logger.InfoContext(context.Background(), "spam_call", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
