// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mia-platform/logbridge/internal/config"
	"github.com/mia-platform/logbridge/internal/console"
	"github.com/mia-platform/logbridge/internal/logger"
)

const (
	configFlagName  = "config"
	configFlagShort = "c"
	configFlagUsage = "Path to a yaml, json or toml file holding the logger options"

	nameFlagName  = "name"
	nameFlagShort = "n"
	nameFlagUsage = "Name bound to every record, defaults to the base name of the command"

	serveNameFlagUsage = "Name bound to every relayed record"
	defaultServeLabel  = "relay"

	levelFlagName  = "level"
	levelFlagUsage = "Minimum level of the records written by the command"

	productionFlagName  = "production"
	productionFlagUsage = "Force the production defaults instead of reading APP_ENV"

	prettyFlagName  = "pretty"
	prettyFlagUsage = "Write human readable records instead of JSON lines"

	outputFileFlagName  = "output-file"
	outputFileFlagUsage = "Append the records to a file instead of the standard output"
)

// loggerFlags holds the logger options shared by the commands that patch a console.
type loggerFlags struct {
	configPath string
	name       string
	level      string
	production bool
	pretty     bool
	outputFile string
}

// addFlags adds the cli flags to the cobra command.
func (f *loggerFlags) addFlags(cmd *cobra.Command, nameUsage string) {
	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, configFlagName, configFlagShort, "", configFlagUsage)
	flags.StringVarP(&f.name, nameFlagName, nameFlagShort, "", nameUsage)
	flags.StringVar(&f.level, levelFlagName, "", levelFlagUsage)
	flags.BoolVar(&f.production, productionFlagName, false, productionFlagUsage)
	flags.BoolVar(&f.pretty, prettyFlagName, false, prettyFlagUsage)
	flags.StringVar(&f.outputFile, outputFileFlagName, "", outputFileFlagUsage)
}

// toConfig builds the logger options from the config file and the flags.
// Flags explicitly set on the command line win over the values of the config file.
func (f *loggerFlags) toConfig(cmd *cobra.Command) (logger.Config, error) {
	settings := logger.Config{}
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return logger.Config{}, fmt.Errorf("%w: %w", errLoadingSettings, err)
		}
		settings = *loaded
	}

	flags := cmd.Flags()
	if flags.Changed(levelFlagName) {
		settings.Level = f.level
	}
	if flags.Changed(productionFlagName) {
		settings.IsProduction = logger.Bool(f.production)
	}
	if flags.Changed(prettyFlagName) {
		settings.Prettify = logger.Bool(f.pretty)
	}
	if flags.Changed(outputFileFlagName) {
		settings.OutputPath = f.outputFile
	}

	if settings.OutputPath == "" {
		settings.Output = cmd.OutOrStdout()
	}
	settings.Fallback = console.New(cmd.OutOrStdout(), cmd.ErrOrStderr())

	return settings, nil
}

// runFlags holds the flags for the "run" command.
type runFlags struct {
	loggerFlags
}

// addFlags adds the cli flags to the cobra command.
func (f *runFlags) addFlags(cmd *cobra.Command) {
	f.loggerFlags.addFlags(cmd, nameFlagUsage)
}

// toOptions converts the run flags to runOptions enriching it with the passed arguments.
func (f *runFlags) toOptions(cmd *cobra.Command, args []string) (*runOptions, error) {
	settings, err := f.toConfig(cmd)
	if err != nil {
		return nil, err
	}

	label := f.name
	if label == "" && len(args) > 0 {
		label = filepath.Base(args[0])
	}

	return &runOptions{
		command:  args,
		label:    label,
		settings: settings,
		stdout:   cmd.OutOrStdout(),
		stderr:   cmd.ErrOrStderr(),
	}, nil
}

// serveFlags holds the flags for the "serve" command.
type serveFlags struct {
	loggerFlags
}

// addFlags adds the cli flags to the cobra command.
func (f *serveFlags) addFlags(cmd *cobra.Command) {
	f.loggerFlags.addFlags(cmd, serveNameFlagUsage)
}

// toOptions converts the serve flags to serveOptions.
func (f *serveFlags) toOptions(cmd *cobra.Command) (*serveOptions, error) {
	settings, err := f.toConfig(cmd)
	if err != nil {
		return nil, err
	}

	label := f.name
	if label == "" {
		label = defaultServeLabel
	}

	return &serveOptions{
		label:    label,
		settings: settings,
		stdout:   cmd.OutOrStdout(),
		stderr:   cmd.ErrOrStderr(),
	}, nil
}
