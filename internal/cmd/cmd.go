// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

const (
	runCmdUsage = "run [flags] -- COMMAND [ARGS...]"
	runCmdShort = "run a command logging its output as structured records"
	runCmdLong  = `Run a command and log every line it writes.
	The standard output of the command is written through console.log and its
	standard error through console.error of a console patched with the structured
	logger, so every line becomes a record named after the command.

	The logger options are read from the file passed with --config (yaml, json or
	toml) and can be overridden with the other flags. Unset values are derived from
	the APP_ENV and LOGGER_LEVEL environment variables.`

	runCmdExample = `# Run a script logging its output as JSON lines
	logbridge run --pretty=false -- ./script.sh --verbose

	# Load the logger options from a file and name the records
	logbridge run --config logger.yaml --name worker -- ./worker`

	serveCmdUsage = "serve [flags]"
	serveCmdShort = "relay console calls received over HTTP to the structured logger"
	serveCmdLong  = `Start an HTTP server relaying console calls to the structured logger.
	Every POST request to /logs/METHOD invokes the console method named in the path
	with the JSON array in the body as its arguments, a body holding any other JSON
	value is used as the only argument. The method must be one of error, warn, log,
	info, debug or trace.

	The server options are read from the HTTP_HOST, HTTP_PORT, HTTP_BODY_LIMIT and
	DISABLE_STARTUP_MESSAGE environment variables.`

	serveCmdExample = `# Start the relay on port 8080
	HTTP_PORT=8080 logbridge serve --name browser

	# Relay a console.warn call
	curl -X POST localhost:8080/logs/warn -d '[{"userId": 42}, "login from %s", "mobile"]'`

	tablesCmdUsageTemplate = "tables [%s]"
	tablesCmdShort         = "display the method adapter tables"
	tablesCmdLong          = `Display the tables used to route log method names between a
	console-like object and the structured logger.

	Every row maps a source method to the target it is routed to, names not listed
	are routed to the fallback shown in the last row.`

	tablesCmdExample = `# Display every table
	logbridge tables

	# Display the table used to patch the console
	logbridge tables console-to-structured`
)

// RunCmd returns the Cobra command that runs a child process logging its output.
func RunCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:     runCmdUsage,
		Short:   heredoc.Doc(runCmdShort),
		Long:    heredoc.Doc(runCmdLong),
		Example: heredoc.Doc(runCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.toOptions(cmd, args)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	cmd.Flags().SetInterspersed(false)
	flags.addFlags(cmd)
	return cmd
}

// ServeCmd returns the Cobra command that starts the console relay server.
func ServeCmd() *cobra.Command {
	flags := &serveFlags{}
	cmd := &cobra.Command{
		Use:     serveCmdUsage,
		Short:   heredoc.Doc(serveCmdShort),
		Long:    heredoc.Doc(serveCmdLong),
		Example: heredoc.Doc(serveCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.toOptions(cmd)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

// TablesCmd returns the Cobra command that renders the method adapter tables.
func TablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     fmt.Sprintf(tablesCmdUsageTemplate, strings.Join(tableNames(), "|")),
		Short:   heredoc.Doc(tablesCmdShort),
		Long:    heredoc.Doc(tablesCmdLong),
		Example: heredoc.Doc(tablesCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		ValidArgsFunction: validArgsFunc(availableTables),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := selectTables(args)
			if err != nil {
				return handleError(cmd, err)
			}

			for _, table := range tables {
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(table))
			}

			return nil
		},
	}

	return cmd
}
