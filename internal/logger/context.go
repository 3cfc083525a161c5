// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"context"
)

// WithContext returns a new context with the provided logger.
func WithContext(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, contextKey, logger)
}

// WithBindings returns a new context holding a child of the context logger
// carrying bindings, together with the child itself.
func WithBindings(ctx context.Context, bindings map[string]any) (context.Context, Logger) {
	child := FromContext(ctx).Child(bindings)
	return WithContext(ctx, child), child
}

// FromContext retrieves the logger from the context. If no logger is found, the null logger is returned.
func FromContext(ctx context.Context) Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKey).(Logger); ok {
			return logger
		}
	}

	return nullLogger
}

// Unexported new type so that our context key never collides with another.
type contextKeyType struct{}

// contextKey is the key used for the context to store the logger.
var contextKey = contextKeyType{}
