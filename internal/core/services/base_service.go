package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/SscSPs/billistry/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Audit portssvc.AuditRecorder
	Clock func() time.Time
}

// ServiceOption configures the BaseService embedded in every service.
type ServiceOption func(*BaseService)

// WithAuditRecorder makes the service record audit entries after mutations.
func WithAuditRecorder(recorder portssvc.AuditRecorder) ServiceOption {
	return func(s *BaseService) {
		s.Audit = recorder
	}
}

// WithClock overrides the time source, mostly for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.Clock = clock
	}
}

func (s *BaseService) apply(opts []ServiceOption) {
	for _, opt := range opts {
		opt(s)
	}
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now is the current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// record writes an audit entry if a recorder is configured.
func (s *BaseService) record(ctx context.Context, actor domain.Actor, action domain.AuditAction, resourceType, resourceID string, before, after any) {
	if s.Audit == nil {
		return
	}
	s.Audit.Record(ctx, actor, action, resourceType, resourceID, before, after)
}
