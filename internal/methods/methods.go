// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package methods

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Method is the name of a log method.
type Method string

const (
	Fatal Method = "fatal"
	Error Method = "error"
	Warn  Method = "warn"
	Log   Method = "log"
	Info  Method = "info"
	Debug Method = "debug"
	Trace Method = "trace"
)

var (
	// ConsoleMethods are the method names exposed by a console-like object.
	ConsoleMethods = []Method{Error, Warn, Log, Info, Debug, Trace}
	// StructuredMethods are the method names exposed by a structured logger.
	StructuredMethods = []Method{Fatal, Error, Warn, Info, Debug, Trace}

	// ErrInvalidTable is returned when a table maps onto a name outside of its target set.
	ErrInvalidTable = errors.New("invalid adapter table")
)

var (
	// ConsoleToStructured routes console calls to the structured logger.
	ConsoleToStructured = MustTable("console-to-structured", StructuredMethods, Info, map[Method]Method{
		Error: Error,
		Warn:  Warn,
		Log:   Info,
		Info:  Info,
		Debug: Debug,
		Trace: Trace,
	})

	// StructuredToConsole routes structured logger calls to console methods, it is
	// used when the structured backend is not available.
	StructuredToConsole = MustTable("structured-to-console", ConsoleMethods, Log, map[Method]Method{
		Fatal: Error,
		Error: Error,
		Warn:  Warn,
		Info:  Log,
		Debug: Debug,
		Trace: Trace,
	})

	// FrameworkToStructured routes the log functions of a web framework to the
	// structured logger. Only errors, warnings and traces keep their level.
	FrameworkToStructured = MustTable("framework-to-structured", StructuredMethods, Info, map[Method]Method{
		Error: Error,
		Trace: Trace,
		Warn:  Warn,
	})
)

// Table maps method names of a source vocabulary onto a target vocabulary.
// Names without an explicit entry resolve to the fallback.
type Table struct {
	name     string
	entries  map[Method]Method
	fallback Method
}

// Entry is a single source to target mapping of a Table.
type Entry struct {
	Source Method
	Target Method
}

// NewTable builds a Table and checks that every mapped value and the fallback
// belong to target.
func NewTable(name string, target []Method, fallback Method, entries map[Method]Method) (Table, error) {
	if !slices.Contains(target, fallback) {
		return Table{}, fmt.Errorf("%w: %s: fallback %q is not a target method", ErrInvalidTable, name, fallback)
	}

	for source, mapped := range entries {
		if !slices.Contains(target, mapped) {
			return Table{}, fmt.Errorf("%w: %s: %q maps to unknown method %q", ErrInvalidTable, name, source, mapped)
		}
	}

	return Table{
		name:     name,
		entries:  maps.Clone(entries),
		fallback: fallback,
	}, nil
}

// MustTable is like NewTable but panics if the table is not valid.
func MustTable(name string, target []Method, fallback Method, entries map[Method]Method) Table {
	table, err := NewTable(name, target, fallback, entries)
	if err != nil {
		panic(err)
	}
	return table
}

// Resolve returns the target method for name. It never fails: unknown names
// resolve to the table fallback.
func (t Table) Resolve(name string) Method {
	if mapped, ok := t.entries[Method(name)]; ok {
		return mapped
	}
	return t.fallback
}

// Name returns the name the table is displayed with.
func (t Table) Name() string {
	return t.name
}

// Fallback returns the method used for names without an explicit entry.
func (t Table) Fallback() Method {
	return t.fallback
}

// Entries returns the explicit mappings sorted by source name.
func (t Table) Entries() []Entry {
	entries := make([]Entry, 0, len(t.entries))
	for _, source := range slices.Sorted(maps.Keys(t.entries)) {
		entries = append(entries, Entry{Source: source, Target: t.entries[source]})
	}
	return entries
}
