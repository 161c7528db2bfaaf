package logger

import (
	"context"
	"log/slog"
	"time"
)

// AuditEvent describes one authentication attempt.
type AuditEvent struct {
	EventType     string
	UserName      string
	IPAddress     string
	UserAgent     string
	Success       bool
	FailureReason string
	Metadata      map[string]string
}

// AuditLogger writes "audit" records next to the application log.
type AuditLogger struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger, now: time.Now}
}

// LogAuthAttempt records a login. Failures are logged at warn level.
func (al *AuditLogger) LogAuthAttempt(ctx context.Context, event AuditEvent) {
	attrs := al.base("auth", event.EventType)
	attrs = append(attrs, slog.Bool("success", event.Success))
	attrs = appendNonEmpty(attrs,
		"user_name", event.UserName,
		"ip_address", event.IPAddress,
		"user_agent", event.UserAgent,
		"failure_reason", event.FailureReason,
	)
	attrs = appendMetadata(attrs, event.Metadata)

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(ctx, level, "audit", attrs...)
}

// LogAccountAction records a change to an account such as registration.
func (al *AuditLogger) LogAccountAction(ctx context.Context, eventType, userName string, metadata map[string]string) {
	attrs := al.base("account", eventType)
	attrs = append(attrs, slog.String("user_name", userName))
	attrs = appendMetadata(attrs, metadata)

	al.logger.LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)
}

func (al *AuditLogger) base(auditType, eventType string) []slog.Attr {
	return []slog.Attr{
		slog.String("audit_type", auditType),
		slog.String("event_type", eventType),
		slog.String("timestamp", al.now().UTC().Format(time.RFC3339)),
	}
}

// appendNonEmpty takes alternating key/value pairs and skips empty values.
func appendNonEmpty(attrs []slog.Attr, kv ...string) []slog.Attr {
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			attrs = append(attrs, slog.String(kv[i], kv[i+1]))
		}
	}
	return attrs
}

func appendMetadata(attrs []slog.Attr, metadata map[string]string) []slog.Attr {
	for key, val := range metadata {
		attrs = append(attrs, slog.String(key, val))
	}
	return attrs
}
