// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"maps"

	"github.com/mia-platform/logbridge/internal/console"
	"github.com/mia-platform/logbridge/internal/methods"
)

// Make sure that fallbackLogger is a Logger.
var _ Logger = &fallbackLogger{}

// fallbackLogger writes every record through the console method matching its level.
// Bindings are recorded but do not change the console output.
type fallbackLogger struct {
	console  *console.Console
	bindings map[string]any
	bound    map[methods.Method]console.Func
}

func newFallbackLogger(target *console.Console, bindings map[string]any) *fallbackLogger {
	bound := make(map[methods.Method]console.Func, len(methods.StructuredMethods))
	for _, method := range methods.StructuredMethods {
		fn, ok := target.Lookup(methods.StructuredToConsole.Resolve(string(method)))
		if !ok {
			fn = func(...any) {}
		}
		bound[method] = fn
	}

	return &fallbackLogger{
		console:  target,
		bindings: bindings,
		bound:    bound,
	}
}

func (f *fallbackLogger) WithName(name string) Logger {
	return f.Child(map[string]any{"name": name})
}

func (f *fallbackLogger) Child(bindings map[string]any) Logger {
	merged := make(map[string]any, len(f.bindings)+len(bindings))
	maps.Copy(merged, f.bindings)
	maps.Copy(merged, bindings)

	return newFallbackLogger(f.console, merged)
}

// SetLevel is a no-op, the console does not filter records.
func (f *fallbackLogger) SetLevel(Level) {}

func (f *fallbackLogger) Fatal(args ...any) {
	f.bound[methods.Fatal](args...)
}

func (f *fallbackLogger) Error(args ...any) {
	f.bound[methods.Error](args...)
}

func (f *fallbackLogger) Warn(args ...any) {
	f.bound[methods.Warn](args...)
}

func (f *fallbackLogger) Info(args ...any) {
	f.bound[methods.Info](args...)
}

func (f *fallbackLogger) Debug(args ...any) {
	f.bound[methods.Debug](args...)
}

func (f *fallbackLogger) Trace(args ...any) {
	f.bound[methods.Trace](args...)
}
