// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/logbridge/internal/methods"
)

func TestCompletion(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		args               []string
		toComplete         string
		expectedCompletion []string
	}{
		"no args, complete every table": {
			expectedCompletion: []string{
				"console-to-structured\troutes to debug, error, info, trace, warn",
				"framework-to-structured\troutes to error, info, trace, warn",
				"structured-to-console\troutes to debug, error, log, trace, warn",
			},
		},
		"prefix filters the tables": {
			toComplete: "str",
			expectedCompletion: []string{
				"structured-to-console\troutes to debug, error, log, trace, warn",
			},
		},
		"one arg, no completion": {
			args: []string{"console-to-structured"},
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			completions, directive := validArgsFunc(availableTables)(nil, test.args, test.toComplete)
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
			assert.Equal(t, test.expectedCompletion, completions)
		})
	}
}

func TestSelectTables(t *testing.T) {
	t.Parallel()

	tables, err := selectTables(nil)
	require.NoError(t, err)
	require.Len(t, tables, 3)
	assert.Equal(t, "console-to-structured", tables[0].Name())
	assert.Equal(t, "framework-to-structured", tables[1].Name())
	assert.Equal(t, "structured-to-console", tables[2].Name())

	tables, err = selectTables([]string{"console-to-structured"})
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, methods.ConsoleToStructured.Name(), tables[0].Name())

	_, err = selectTables([]string{"console-to-structured", "missing"})
	assert.ErrorIs(t, err, errInvalidTable)
	assert.ErrorContains(t, err, `"missing"`)
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		err            error
		expectedError  bool
		expectedUsage  bool
		expectedOutput string
	}{
		"no command prints only the usage": {
			err:           errNoCommand,
			expectedUsage: true,
		},
		"invalid table prints error and usage": {
			err:            errInvalidTable,
			expectedError:  true,
			expectedUsage:  true,
			expectedOutput: errInvalidTable.Error(),
		},
		"other errors print only the error": {
			err:            errors.New("boom"),
			expectedError:  true,
			expectedOutput: "boom",
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			output := new(strings.Builder)
			cmd := &cobra.Command{Use: "test"}
			cmd.SetErr(output)
			cmd.SetOut(output)

			err := handleError(cmd, test.err)
			if test.expectedError {
				assert.ErrorIs(t, err, test.err)
			} else {
				assert.NoError(t, err)
			}

			assert.Contains(t, output.String(), test.expectedOutput)
			if test.expectedUsage {
				assert.Contains(t, output.String(), "Usage:")
			} else {
				assert.NotContains(t, output.String(), "Usage:")
			}
		})
	}
}

func TestForwardLines(t *testing.T) {
	t.Parallel()

	var lines []string
	err := forwardLines(strings.NewReader("first\nsecond\r\n\nlast"), func(args ...any) {
		require.Len(t, args, 1)
		lines = append(lines, args[0].(string))
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "", "last"}, lines)
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	output := renderTable(methods.StructuredToConsole)
	lines := strings.Split(output, "\n")

	assert.Contains(t, strings.ToLower(lines[1]), "structured-to-console")
	assert.Contains(t, output, "fatal")
	assert.Contains(t, output, fallbackRowLabel)

	var fallbackRow string
	for _, line := range lines {
		if strings.Contains(line, " "+fallbackRowLabel+" ") {
			fallbackRow = line
		}
	}
	assert.Contains(t, fallbackRow, "log")
}
