// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package methods

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		table    Table
		expected map[string]Method
	}{
		"console to structured": {
			table: ConsoleToStructured,
			expected: map[string]Method{
				"error": Error,
				"warn":  Warn,
				"log":   Info,
				"info":  Info,
				"debug": Debug,
				"trace": Trace,
				"fatal": Info,
				"":      Info,
				"table": Info,
			},
		},
		"structured to console": {
			table: StructuredToConsole,
			expected: map[string]Method{
				"fatal":   Error,
				"error":   Error,
				"warn":    Warn,
				"info":    Log,
				"debug":   Debug,
				"trace":   Trace,
				"log":     Log,
				"default": Log,
			},
		},
		"framework to structured": {
			table: FrameworkToStructured,
			expected: map[string]Method{
				"error": Error,
				"trace": Trace,
				"warn":  Warn,
				"info":  Info,
				"debug": Info,
				"fatal": Info,
				"panic": Info,
				"ready": Info,
			},
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			for method, expected := range test.expected {
				assert.Equal(t, expected, test.table.Resolve(method), "resolving %q", method)
			}
		})
	}
}

func TestTablesCoverSourceSets(t *testing.T) {
	t.Parallel()

	for _, method := range ConsoleMethods {
		assert.Contains(t, StructuredMethods, ConsoleToStructured.Resolve(string(method)))
	}
	for _, method := range StructuredMethods {
		assert.Contains(t, ConsoleMethods, StructuredToConsole.Resolve(string(method)))
	}
}

func TestNewTable(t *testing.T) {
	t.Parallel()

	t.Run("invalid fallback", func(t *testing.T) {
		t.Parallel()
		_, err := NewTable("broken", StructuredMethods, Log, nil)
		require.ErrorIs(t, err, ErrInvalidTable)
	})

	t.Run("invalid entry", func(t *testing.T) {
		t.Parallel()
		_, err := NewTable("broken", ConsoleMethods, Log, map[Method]Method{Error: Fatal})
		require.ErrorIs(t, err, ErrInvalidTable)
	})

	t.Run("a literal default entry is a regular entry", func(t *testing.T) {
		t.Parallel()
		table, err := NewTable("custom", ConsoleMethods, Log, map[Method]Method{"default": Error})
		require.NoError(t, err)
		assert.Equal(t, Error, table.Resolve("default"))
		assert.Equal(t, Log, table.Resolve("missing"))
	})

	t.Run("entries are copied", func(t *testing.T) {
		t.Parallel()
		entries := map[Method]Method{Error: Error}
		table := MustTable("copy", ConsoleMethods, Log, entries)
		entries[Error] = Warn
		assert.Equal(t, Error, table.Resolve("error"))
	})

	t.Run("must table panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			MustTable("broken", ConsoleMethods, Fatal, nil)
		})
	})
}

func TestEntries(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "framework-to-structured", FrameworkToStructured.Name())
	assert.Equal(t, Info, FrameworkToStructured.Fallback())
	assert.Equal(t, []Entry{
		{Source: Error, Target: Error},
		{Source: Trace, Target: Trace},
		{Source: Warn, Target: Warn},
	}, FrameworkToStructured.Entries())
}
