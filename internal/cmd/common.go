// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mia-platform/logbridge/internal/methods"
)

var (
	errNoCommand       = errors.New("no command provided")
	errInvalidTable    = errors.New("invalid table name provided")
	errStartCommand    = errors.New("cannot start command")
	errCommandFailed   = errors.New("command failed")
	errReadingCommand  = errors.New("cannot read command output")
	errLoadingSettings = errors.New("cannot load logger options")

	// availableTables holds the adapter tables by name for command completion
	// and help messages.
	availableTables = map[string]methods.Table{
		methods.ConsoleToStructured.Name():   methods.ConsoleToStructured,
		methods.StructuredToConsole.Name():   methods.StructuredToConsole,
		methods.FrameworkToStructured.Name(): methods.FrameworkToStructured,
	}
)

// handleError will do custom print error handling based on the type of error received.
// it will return nil if the command must return 0 exit code, otherwise it will return
// the original error.
func handleError(cmd *cobra.Command, err error) error {
	switch {
	case errors.Is(err, errNoCommand):
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return nil
	case errors.Is(err, errInvalidTable):
		cmd.PrintErrln(err)
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return err
	default:
		cmd.PrintErrln(err)
		return err
	}
}

func validArgsFunc(tables map[string]methods.Table) cobra.CompletionFunc {
	return func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var comps []string
		if len(args) == 0 {
			for _, name := range slices.Sorted(maps.Keys(tables)) {
				if strings.HasPrefix(name, toComplete) {
					comps = append(comps, cobra.CompletionWithDesc(name, "routes to "+strings.Join(targetNames(tables[name]), ", ")))
				}
			}
		}

		return comps, cobra.ShellCompDirectiveNoFileComp
	}
}

// tableNames returns the sorted names of the available tables.
func tableNames() []string {
	return slices.Sorted(maps.Keys(availableTables))
}

// selectTables returns the tables named in args, or every table when args is empty.
func selectTables(args []string) ([]methods.Table, error) {
	names := args
	if len(names) == 0 {
		names = tableNames()
	}

	tables := make([]methods.Table, 0, len(names))
	for _, name := range names {
		table, found := availableTables[strings.ToLower(name)]
		if !found {
			return nil, fmt.Errorf("%w: %q", errInvalidTable, name)
		}
		tables = append(tables, table)
	}

	return tables, nil
}

// targetNames returns the distinct targets reachable through table.
func targetNames(table methods.Table) []string {
	seen := map[string]struct{}{string(table.Fallback()): {}}
	for _, entry := range table.Entries() {
		seen[string(entry.Target)] = struct{}{}
	}

	return slices.Sorted(maps.Keys(seen))
}
