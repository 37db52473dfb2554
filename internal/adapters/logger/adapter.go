// Package logger provides adapters for the logging interface.
package logger

import (
	"context"

	"github.com/google/uuid"
)

// InvocationIDField is the field that correlates all entries of one run.
const InvocationIDField = "invocation_id"

// Logger defines the logging interface used throughout the application.
// External loggers that implement these methods can be wrapped with ZapAdapter.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]any)
	Debug(ctx context.Context, msg string, fields map[string]any)
	Warn(ctx context.Context, msg string, fields map[string]any)
	Error(ctx context.Context, msg string, err error, fields map[string]any)
}

// ZapAdapter adapts a Logger to the application's logging interface and
// stamps every entry with the invocation id.
type ZapAdapter struct {
	log          Logger
	invocationID string
}

// NewZapAdapter creates a new ZapAdapter wrapping the given logger
// with a fresh invocation id.
func NewZapAdapter(log Logger) *ZapAdapter {
	return NewZapAdapterWithID(log, uuid.NewString())
}

// NewZapAdapterWithID creates a new ZapAdapter with a fixed invocation id.
func NewZapAdapterWithID(log Logger, invocationID string) *ZapAdapter {
	return &ZapAdapter{log: log, invocationID: invocationID}
}

// InvocationID returns the id attached to every entry.
func (a *ZapAdapter) InvocationID() string {
	return a.invocationID
}

// Info logs an info message.
func (a *ZapAdapter) Info(ctx context.Context, msg string, fields map[string]any) {
	a.log.Info(ctx, msg, a.withInvocation(fields))
}

// Debug logs a debug message.
func (a *ZapAdapter) Debug(ctx context.Context, msg string, fields map[string]any) {
	a.log.Debug(ctx, msg, a.withInvocation(fields))
}

// Warn logs a warning message.
func (a *ZapAdapter) Warn(ctx context.Context, msg string, fields map[string]any) {
	a.log.Warn(ctx, msg, a.withInvocation(fields))
}

// Error logs an error message.
func (a *ZapAdapter) Error(ctx context.Context, msg string, err error, fields map[string]any) {
	a.log.Error(ctx, msg, err, a.withInvocation(fields))
}

// withInvocation copies fields so callers' maps are never mutated.
func (a *ZapAdapter) withInvocation(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out[InvocationIDField] = a.invocationID
	return out
}
