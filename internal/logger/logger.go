// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-isatty"

	"github.com/mia-platform/logbridge/internal/format"
	"github.com/mia-platform/logbridge/internal/methods"
)

const (
	prettyTimeFormat = "2006-01-02 15:04:05.000 -0700"
	jsonTimeFormat   = time.RFC3339Nano
)

var (
	// ErrUnknownLevel is returned when a level name cannot be parsed.
	ErrUnknownLevel = errors.New("unknown level")

	// nullLogger is a logger that discards all log messages.
	nullLogger = &instance{log: hclog.NewNullLogger()}

	// newBackend builds the structured logger described by a Config.
	// It can be overridden for testing purposes.
	newBackend = newStructuredLogger

	defaultLogger = sync.OnceValue(func() Logger { return New(Config{}) })
)

//go:generate ${TOOLS_BIN}/stringer -type=Level
type Level int

// ParseLevel converts a case insensitive level name into a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return TRACE, nil
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	case "FATAL":
		return FATAL, nil
	default:
		return INFO, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
}

func (l Level) convertedLevel() hclog.Level {
	switch l {
	case TRACE:
		return hclog.Trace
	case DEBUG:
		return hclog.Debug
	case INFO:
		return hclog.Info
	case WARN:
		return hclog.Warn
	case ERROR, FATAL:
		return hclog.Error
	default:
		return hclog.Info
	}
}

const (
	FATAL Level = iota
	ERROR
	WARN
	INFO
	DEBUG
	TRACE
)

// LogFunc is the signature of every log method.
type LogFunc func(args ...any)

// Logger describes the interface that must be implemented by all loggers
type Logger interface {
	// WithName returns a new Logger instance with the specified name.
	WithName(name string) Logger

	// Child returns a new Logger that adds bindings to every record it emits.
	Child(bindings map[string]any) Logger

	// SetLevel updates the logger level.
	SetLevel(level Level)

	// Fatal emit a record at the FATAL level.
	Fatal(args ...any)

	// Error emit a record at the ERROR level.
	Error(args ...any)

	// Warn emit a record at the WARN level.
	Warn(args ...any)

	// Info emit a record at the INFO level.
	Info(args ...any)

	// Debug emit a record at the DEBUG level.
	Debug(args ...any)

	// Trace emit a record at the TRACE level.
	Trace(args ...any)
}

// Method returns the log method of log named method. Names that are not
// structured methods return the Info method.
func Method(log Logger, method methods.Method) LogFunc {
	switch method {
	case methods.Fatal:
		return log.Fatal
	case methods.Error:
		return log.Error
	case methods.Warn:
		return log.Warn
	case methods.Debug:
		return log.Debug
	case methods.Trace:
		return log.Trace
	default:
		return log.Info
	}
}

// Default returns the process wide logger, built from the environment on first use.
func Default() Logger {
	return defaultLogger()
}

// New creates a new logger instance. It never fails: if the structured backend
// cannot be built a warning is printed on the fallback console and a logger
// writing through the console methods is returned instead.
func New(config Config) Logger {
	log, err := newBackend(config)
	if err != nil {
		fallback := config.fallbackConsole()
		fallback.Warn("Failed to initialize structured logger:", err.Error())
		return newFallbackLogger(fallback, nil)
	}

	return log
}

// Make sure that instance is a Logger.
var _ Logger = &instance{}

// instance is a Logger implementation.
type instance struct {
	log  hclog.Logger
	hook LogMethodHook
}

func newStructuredLogger(config Config) (Logger, error) {
	environment, err := LoadEnvironment()
	if err != nil {
		return nil, err
	}

	settings, err := config.resolve(environment)
	if err != nil {
		return nil, err
	}

	timeFormat := jsonTimeFormat
	if settings.prettify {
		timeFormat = prettyTimeFormat
	}

	var hook LogMethodHook
	if config.ForceArgs {
		hook = normalizeArgsHook
	}

	return &instance{
		log: hclog.New(&hclog.LoggerOptions{
			JSONFormat: !settings.prettify,
			Output:     settings.output,
			TimeFn:     time.Now,
			TimeFormat: timeFormat,
			Level:      settings.level.convertedLevel(),
			Color:      colorOption(settings.output, settings.prettify),
			Mutex:      config.Mutex,
		}),
		hook: hook,
	}, nil
}

// colorOption enables colors only for pretty output written on a terminal.
func colorOption(output io.Writer, prettify bool) hclog.ColorOption {
	if !prettify {
		return hclog.ColorOff
	}

	file, ok := output.(*os.File)
	if !ok {
		return hclog.ColorOff
	}

	fd := file.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return hclog.ForceColor
	}
	return hclog.ColorOff
}

func (i instance) WithName(name string) Logger {
	return &instance{
		log:  i.log.ResetNamed(name),
		hook: i.hook,
	}
}

func (i instance) Child(bindings map[string]any) Logger {
	return &instance{
		log:  i.log.With(mapPairs(bindings)...),
		hook: i.hook,
	}
}

func (i instance) SetLevel(level Level) {
	i.log.SetLevel(level.convertedLevel())
}

func (i instance) Fatal(args ...any) {
	i.emit(FATAL, args)
}

func (i instance) Error(args ...any) {
	i.emit(ERROR, args)
}

func (i instance) Warn(args ...any) {
	i.emit(WARN, args)
}

func (i instance) Info(args ...any) {
	i.emit(INFO, args)
}

func (i instance) Debug(args ...any) {
	i.emit(DEBUG, args)
}

func (i instance) Trace(args ...any) {
	i.emit(TRACE, args)
}

func (i instance) emit(level Level, args []any) {
	write := func(args ...any) {
		pairs, message := splitArgs(args)
		i.log.Log(level.convertedLevel(), message, pairs...)
	}

	if i.hook == nil {
		write(args...)
		return
	}
	i.hook(args, write)
}

// splitArgs separates the leading merge object from the message arguments
// and returns the record key/value pairs and the formatted message.
func splitArgs(args []any) ([]any, string) {
	if len(args) == 0 {
		return nil, ""
	}

	var pairs []any
	switch first := args[0].(type) {
	case *Fields:
		pairs = fieldPairs(first)
		args = args[1:]
	case map[string]any:
		pairs = mapPairs(first)
		args = args[1:]
	case error:
		if isNilPointer(first) {
			break
		}
		pairs = []any{"err", first}
		args = args[1:]
		if len(args) == 0 {
			return pairs, first.Error()
		}
	}

	return pairs, format.Sprint(args...)
}

func fieldPairs(fields *Fields) []any {
	if fields == nil {
		return nil
	}

	pairs := make([]any, 0, fields.Len()*2)
	for key, value := range fields.FromOldest() {
		pairs = append(pairs, key, value)
	}
	return pairs
}

func mapPairs(entries map[string]any) []any {
	pairs := make([]any, 0, len(entries)*2)
	for _, key := range slices.Sorted(maps.Keys(entries)) {
		pairs = append(pairs, key, entries[key])
	}
	return pairs
}
