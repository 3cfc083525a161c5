// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"

	"github.com/mia-platform/logbridge/internal/console"
)

const productionEnvironment = "production"

var (
	ErrEnvVariablesNotValid = errors.New("environment variables not valid")
	ErrOutputNotWritable    = errors.New("log output not writable")
)

// Environment holds the process wide settings read on every logger construction.
type Environment struct {
	AppEnv      string `env:"APP_ENV"`
	LoggerLevel string `env:"LOGGER_LEVEL"`
}

func LoadEnvironment() (*Environment, error) {
	var envVars Environment
	if err := env.Parse(&envVars); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, err.Error())
	}

	return &envVars, nil
}

// IsProduction reports whether the environment marks a production deployment.
func (e Environment) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(e.AppEnv), productionEnvironment)
}

// Config holds the options used by New. Unset values are derived from the Environment.
type Config struct {
	// Level is the minimum severity emitted, it defaults to LOGGER_LEVEL or to
	// "warn" in production and "info" otherwise.
	Level string `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty"`
	// IsProduction overrides the APP_ENV detection.
	IsProduction *bool `json:"isProduction,omitempty" yaml:"isProduction,omitempty" toml:"isProduction,omitempty"`
	// Prettify enables human readable output, it defaults to true outside production.
	Prettify *bool `json:"prettify,omitempty" yaml:"prettify,omitempty" toml:"prettify,omitempty"`
	// ForceArgs normalizes the arguments of every call with more than one argument.
	ForceArgs bool `json:"forceArgs,omitempty" yaml:"forceArgs,omitempty" toml:"forceArgs,omitempty"`
	// OutputPath is a file where records are appended, used when Output is nil.
	OutputPath string `json:"outputPath,omitempty" yaml:"outputPath,omitempty" toml:"outputPath,omitempty"`

	// Output is where records are written, it defaults to the standard output.
	Output io.Writer `json:"-" yaml:"-" toml:"-"`
	// Fallback is the console used when the structured backend cannot be built.
	Fallback *console.Console `json:"-" yaml:"-" toml:"-"`
	// Mutex is shared by loggers writing to the same Output.
	Mutex sync.Locker `json:"-" yaml:"-" toml:"-"`
}

// Bool returns a pointer to value, for the optional switches of Config.
func Bool(value bool) *bool {
	return &value
}

// settings is a Config with every default resolved.
type settings struct {
	level      Level
	production bool
	prettify   bool
	output     io.Writer
}

func (c Config) resolve(environment *Environment) (*settings, error) {
	production := environment.IsProduction()
	if c.IsProduction != nil {
		production = *c.IsProduction
	}

	level := INFO
	if production {
		level = WARN
	}

	levelName := c.Level
	if levelName == "" {
		levelName = environment.LoggerLevel
	}
	if levelName != "" {
		parsed, err := ParseLevel(levelName)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	prettify := !production
	if c.Prettify != nil {
		prettify = *c.Prettify
	}

	output, err := c.output()
	if err != nil {
		return nil, err
	}

	return &settings{
		level:      level,
		production: production,
		prettify:   prettify,
		output:     output,
	}, nil
}

func (c Config) output() (io.Writer, error) {
	switch {
	case c.Output != nil:
		return c.Output, nil
	case c.OutputPath != "":
		file, err := os.OpenFile(filepath.Clean(c.OutputPath), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOutputNotWritable, err)
		}
		return file, nil
	default:
		return os.Stdout, nil
	}
}

// OpenOutput returns a copy of c writing on the file at OutputPath, opened once
// so that every logger built from the copy shares it, and the file itself.
// The returned closer is nil when Output is set or OutputPath is empty.
func (c Config) OpenOutput() (Config, io.Closer, error) {
	if c.Output != nil || c.OutputPath == "" {
		return c, nil, nil
	}

	output, err := c.output()
	if err != nil {
		return c, nil, err
	}

	file := output.(*os.File)
	c.Output = file
	return c, file, nil
}

func (c Config) fallbackConsole() *console.Console {
	if c.Fallback != nil {
		return c.Fallback
	}
	return console.New(os.Stdout, os.Stderr)
}
