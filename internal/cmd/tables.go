// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	prettytable "github.com/jedib0t/go-pretty/v6/table"

	"github.com/mia-platform/logbridge/internal/methods"
)

const fallbackRowLabel = "*"

// renderTable draws table as a two columns box, the last row holds the fallback.
func renderTable(table methods.Table) string {
	writer := prettytable.NewWriter()
	writer.SetStyle(prettytable.StyleRounded)
	writer.SetTitle(table.Name())
	writer.AppendHeader(prettytable.Row{"source", "target"})

	for _, entry := range table.Entries() {
		writer.AppendRow(prettytable.Row{string(entry.Source), string(entry.Target)})
	}

	writer.AppendSeparator()
	writer.AppendRow(prettytable.Row{fallbackRowLabel, string(table.Fallback())})
	return writer.Render()
}
