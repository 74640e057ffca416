package events

import (
	"context"

	"go.uber.org/zap"
)

// LogSink writes received link events to the log.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink that logs at Info.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) LinkCreated(_ context.Context, event *LinkCreated) error {
	s.logger.Info("link created",
		zap.String("code", event.Code),
		zap.String("long_url", event.LongURL),
		zap.Bool("custom", event.Custom),
		zap.Int("attempts", event.Attempts),
		zap.Time("expires_at", event.ExpiresAt),
	)

	return nil
}

func (s *LogSink) LinkResolved(_ context.Context, event *LinkResolved) error {
	s.logger.Info("link resolved",
		zap.String("code", event.Code),
		zap.Time("resolved_at", event.ResolvedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}
