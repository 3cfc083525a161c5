// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package format

import (
	"errors"
	"io/fs"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSprint(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		args     []any
		expected string
	}{
		"no arguments": {
			expected: "",
		},
		"single string is returned untouched": {
			args:     []any{"100%% sure %s"},
			expected: "100%% sure %s",
		},
		"strings without verbs are space joined": {
			args:     []any{"a", "b", "c"},
			expected: "a b c",
		},
		"string verb": {
			args:     []any{"User %s logged in", "John"},
			expected: "User John logged in",
		},
		"leftover arguments are appended": {
			args:     []any{"%s:", "key", "value", 42},
			expected: "key: value 42",
		},
		"verbs without arguments are kept": {
			args:     []any{"%s and %s", "one"},
			expected: "one and %s",
		},
		"escaped percent": {
			args:     []any{"%d%%", 50},
			expected: "50%",
		},
		"unknown verb is kept and does not consume": {
			args:     []any{"%x %s", "value"},
			expected: "%x value",
		},
		"number verb on strings": {
			args:     []any{"%d %d %d", "42", "1.5", "John"},
			expected: "42 1.5 NaN",
		},
		"integer verb": {
			args:     []any{"%i %i %i", "42px", 3.9, "px"},
			expected: "42 3 NaN",
		},
		"float verb": {
			args:     []any{"%f %f", "2.5", math.Inf(1)},
			expected: "2.5 Infinity",
		},
		"float verb parses the numeric prefix": {
			args:     []any{"%f %f %f %f %f", "3.5abc", " -2e3x", ".5", "-Infinity!", "abc"},
			expected: "3.5 -2000 0.5 -Infinity NaN",
		},
		"object verbs quote strings": {
			args:     []any{"%o %O %o %O", "x", "it's", 7, `it's "quoted"`},
			expected: "'x' \"it's\" 7 `it's \"quoted\"`",
		},
		"string verb on nil error pointer": {
			args:     []any{"failed: %s", (*fs.PathError)(nil)},
			expected: "failed: <nil>",
		},
		"json verb": {
			args:     []any{"%j", map[string]any{"a": 1}},
			expected: `{"a":1}`,
		},
		"css verb consumes its argument": {
			args:     []any{"%cstyled", "color: red"},
			expected: "styled",
		},
		"string verb on error": {
			args:     []any{"failed: %s", errors.New("boom")},
			expected: "failed: boom",
		},
		"first argument not a string": {
			args:     []any{42, "answer", true},
			expected: "42 answer true",
		},
		"trailing percent": {
			args:     []any{"50%", "done"},
			expected: "50% done",
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.expected, Sprint(test.args...))
		})
	}
}

func TestFormatFloat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1e+21", formatFloat(1e21))
	assert.Equal(t, "100000", formatFloat(1e5))
	assert.Equal(t, "0", formatFloat(0))
	assert.Equal(t, "NaN", formatFloat(math.NaN()))
	assert.Equal(t, "-Infinity", formatFloat(math.Inf(-1)))
}
