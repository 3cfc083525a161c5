// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mia-platform/logbridge/internal/format"
	"github.com/mia-platform/logbridge/internal/methods"
)

// Default is the process wide console writing to the standard output and error.
var Default = New(os.Stdout, os.Stderr)

// Func is the signature of every console method.
type Func func(args ...any)

// Console is a set of log functions addressed by console method name.
// The zero value has no methods and every call on it is a no-op.
type Console struct {
	lock  sync.RWMutex
	slots map[methods.Method]Func
}

// New returns a Console with every console method set: log, info and debug
// write to stdout, error, warn and trace write to stderr.
func New(stdout, stderr io.Writer) *Console {
	out := &writer{w: stdout}
	errOut := &writer{w: stderr}

	return &Console{
		slots: map[methods.Method]Func{
			methods.Error: errOut.print(""),
			methods.Warn:  errOut.print(""),
			methods.Log:   out.print(""),
			methods.Info:  out.print(""),
			methods.Debug: out.print(""),
			methods.Trace: errOut.print("Trace: "),
		},
	}
}

// Lookup returns the function currently set for method.
func (c *Console) Lookup(method methods.Method) (Func, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	fn, ok := c.slots[method]
	return fn, ok && fn != nil
}

// Replace sets fn as the function for method.
func (c *Console) Replace(method methods.Method, fn Func) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.slots == nil {
		c.slots = make(map[methods.Method]Func)
	}
	c.slots[method] = fn
}

// Delete removes method from the console.
func (c *Console) Delete(method methods.Method) {
	c.lock.Lock()
	defer c.lock.Unlock()

	delete(c.slots, method)
}

func (c *Console) Error(args ...any) { c.call(methods.Error, args) }

func (c *Console) Warn(args ...any) { c.call(methods.Warn, args) }

func (c *Console) Log(args ...any) { c.call(methods.Log, args) }

func (c *Console) Info(args ...any) { c.call(methods.Info, args) }

func (c *Console) Debug(args ...any) { c.call(methods.Debug, args) }

func (c *Console) Trace(args ...any) { c.call(methods.Trace, args) }

func (c *Console) call(method methods.Method, args []any) {
	fn, ok := c.Lookup(method)
	if !ok {
		return
	}
	fn(args...)
}

// writer serializes lines written by the console methods sharing a stream.
type writer struct {
	w    io.Writer
	lock sync.Mutex
}

func (w *writer) print(prefix string) Func {
	return func(args ...any) {
		line := prefix + format.Sprint(args...)

		w.lock.Lock()
		defer w.lock.Unlock()
		fmt.Fprintln(w.w, line)
	}
}
