// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package patch

import (
	"context"
	"fmt"
	"io"
	"sync"

	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/mia-platform/logbridge/internal/console"
	"github.com/mia-platform/logbridge/internal/logger"
	"github.com/mia-platform/logbridge/internal/methods"
)

const fiberLabel = "fiber"

// Make sure that fiberLogger can be installed as the fiber logger.
var _ fiberlog.AllLogger = &fiberLogger{}

// fiberLogger exposes the leveled functions of a fiber logger as a Target.
// Fatal and Panic functions and the level controls stay on the wrapped logger.
type fiberLogger struct {
	base fiberlog.AllLogger

	lock  sync.RWMutex
	slots map[methods.Method]console.Func
}

func newFiberLogger(base fiberlog.AllLogger) *fiberLogger {
	return &fiberLogger{
		base: base,
		slots: map[methods.Method]console.Func{
			methods.Trace: base.Trace,
			methods.Debug: base.Debug,
			methods.Info:  base.Info,
			methods.Warn:  base.Warn,
			methods.Error: base.Error,
		},
	}
}

// Fiber patches the default logger of the fiber framework, routing its calls
// through the FrameworkToStructured table to a logger named "fiber".
func Fiber(config *logger.Config) *Patch {
	base := fiberlog.DefaultLogger()
	target := newFiberLogger(base)

	patch := WithLogger(fiberLabel, methods.FrameworkToStructured, target, config)
	patch.onRestore = func() { fiberlog.SetLogger(base) }

	fiberlog.SetLogger(target)
	return patch
}

func (f *fiberLogger) Lookup(method methods.Method) (console.Func, bool) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	fn, ok := f.slots[method]
	return fn, ok
}

func (f *fiberLogger) Replace(method methods.Method, fn console.Func) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.slots[method] = fn
}

func (f *fiberLogger) call(method methods.Method, args ...any) {
	if fn, ok := f.Lookup(method); ok {
		fn(args...)
	}
}

func (f *fiberLogger) callf(method methods.Method, format string, args []any) {
	f.call(method, fmt.Sprintf(format, args...))
}

func (f *fiberLogger) callw(method methods.Method, msg string, keysAndValues []any) {
	if len(keysAndValues) == 0 {
		f.call(method, msg)
		return
	}
	f.call(method, pairsToFields(keysAndValues), msg)
}

// pairsToFields converts fiber key/value pairs, a dangling key gets a nil value.
func pairsToFields(keysAndValues []any) *logger.Fields {
	fields := logger.NewFields()
	for i := 0; i < len(keysAndValues); i += 2 {
		var value any
		if i+1 < len(keysAndValues) {
			value = keysAndValues[i+1]
		}
		fields.Set(fmt.Sprint(keysAndValues[i]), value)
	}
	return fields
}

func (f *fiberLogger) Trace(v ...any) { f.call(methods.Trace, v...) }

func (f *fiberLogger) Debug(v ...any) { f.call(methods.Debug, v...) }

func (f *fiberLogger) Info(v ...any) { f.call(methods.Info, v...) }

func (f *fiberLogger) Warn(v ...any) { f.call(methods.Warn, v...) }

func (f *fiberLogger) Error(v ...any) { f.call(methods.Error, v...) }

func (f *fiberLogger) Fatal(v ...any) { f.base.Fatal(v...) }

func (f *fiberLogger) Panic(v ...any) { f.base.Panic(v...) }

func (f *fiberLogger) Tracef(format string, v ...any) { f.callf(methods.Trace, format, v) }

func (f *fiberLogger) Debugf(format string, v ...any) { f.callf(methods.Debug, format, v) }

func (f *fiberLogger) Infof(format string, v ...any) { f.callf(methods.Info, format, v) }

func (f *fiberLogger) Warnf(format string, v ...any) { f.callf(methods.Warn, format, v) }

func (f *fiberLogger) Errorf(format string, v ...any) { f.callf(methods.Error, format, v) }

func (f *fiberLogger) Fatalf(format string, v ...any) { f.base.Fatalf(format, v...) }

func (f *fiberLogger) Panicf(format string, v ...any) { f.base.Panicf(format, v...) }

func (f *fiberLogger) Tracew(msg string, keysAndValues ...any) {
	f.callw(methods.Trace, msg, keysAndValues)
}

func (f *fiberLogger) Debugw(msg string, keysAndValues ...any) {
	f.callw(methods.Debug, msg, keysAndValues)
}

func (f *fiberLogger) Infow(msg string, keysAndValues ...any) {
	f.callw(methods.Info, msg, keysAndValues)
}

func (f *fiberLogger) Warnw(msg string, keysAndValues ...any) {
	f.callw(methods.Warn, msg, keysAndValues)
}

func (f *fiberLogger) Errorw(msg string, keysAndValues ...any) {
	f.callw(methods.Error, msg, keysAndValues)
}

func (f *fiberLogger) Fatalw(msg string, keysAndValues ...any) {
	f.base.Fatalw(msg, keysAndValues...)
}

func (f *fiberLogger) Panicw(msg string, keysAndValues ...any) {
	f.base.Panicw(msg, keysAndValues...)
}

func (f *fiberLogger) SetLevel(level fiberlog.Level) { f.base.SetLevel(level) }

func (f *fiberLogger) SetOutput(w io.Writer) { f.base.SetOutput(w) }

func (f *fiberLogger) WithContext(context.Context) fiberlog.CommonLogger { return f }
