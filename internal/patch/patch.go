// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package patch

import (
	"io"
	"sync"

	"github.com/mia-platform/logbridge/internal/console"
	"github.com/mia-platform/logbridge/internal/logger"
	"github.com/mia-platform/logbridge/internal/methods"
)

const (
	bindingName  = "name"
	consoleLabel = "console"
)

// Target is a set of log functions addressed by method name.
type Target interface {
	// Lookup returns the function set for method, if any.
	Lookup(method methods.Method) (console.Func, bool)
	// Replace sets fn as the function for method.
	Replace(method methods.Method, fn console.Func)
}

// Make sure that Console is a Target.
var _ Target = &console.Console{}

// Patch holds the functions replaced on a target.
type Patch struct {
	target    Target
	previous  map[methods.Method]console.Func
	onRestore func()
	output    io.Closer

	once sync.Once
}

// WithLogger replaces every console method already present on target with the
// method, resolved through table, of a logger child bound to {name: label}.
// Each replaced method gets its own logger built from config with argument
// normalization enabled. Methods missing from target are left missing.
// An output file is opened once for all the loggers and closed by Restore.
func WithLogger(label string, table methods.Table, target Target, config *logger.Config) *Patch {
	loggerConfig := logger.Config{}
	if config != nil {
		loggerConfig = *config
	}
	loggerConfig.ForceArgs = true
	if loggerConfig.Mutex == nil {
		loggerConfig.Mutex = new(sync.Mutex)
	}

	patch := &Patch{
		target:   target,
		previous: make(map[methods.Method]console.Func),
	}

	// on failure the config is kept, so that each logger reports the error on its fallback
	if opened, output, err := loggerConfig.OpenOutput(); err == nil {
		loggerConfig = opened
		patch.output = output
	}

	for _, method := range methods.ConsoleMethods {
		previous, ok := target.Lookup(method)
		if !ok {
			continue
		}

		child := logger.New(loggerConfig).Child(map[string]any{bindingName: label})
		logFn := logger.Method(child, table.Resolve(string(method)))

		patch.previous[method] = previous
		target.Replace(method, console.Func(logFn))
	}

	return patch
}

// Console patches the process wide console so that its methods log through the
// structured logger with the "console" name.
func Console(config *logger.Config) *Patch {
	return WithLogger(consoleLabel, methods.ConsoleToStructured, console.Default, config)
}

// Methods returns the methods replaced by the patch.
func (p *Patch) Methods() []methods.Method {
	replaced := make([]methods.Method, 0, len(p.previous))
	for _, method := range methods.ConsoleMethods {
		if _, ok := p.previous[method]; ok {
			replaced = append(replaced, method)
		}
	}
	return replaced
}

// Restore puts back the functions replaced by the patch and closes the output
// file it opened. Only the first call has effect.
func (p *Patch) Restore() {
	p.once.Do(func() {
		for method, previous := range p.previous {
			p.target.Replace(method, previous)
		}
		if p.onRestore != nil {
			p.onRestore()
		}
		if p.output != nil {
			_ = p.output.Close()
		}
	})
}

