// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mia-platform/logbridge/internal/console"
	"github.com/mia-platform/logbridge/internal/logger"
	"github.com/mia-platform/logbridge/internal/methods"
	"github.com/mia-platform/logbridge/internal/patch"
)

const (
	runIDFieldName = "runId"

	maxLineSize = 1024 * 1024
)

// runOptions holds the options set for the current run function.
type runOptions struct {
	command  []string
	label    string
	settings logger.Config

	stdout io.Writer
	stderr io.Writer

	lock sync.Mutex
}

// validate validates the run options and returns an error if something is wrong.
func (o *runOptions) validate() error {
	if len(o.command) == 0 || o.command[0] == "" {
		return errNoCommand
	}

	return nil
}

// execute starts the command and forwards every line it writes through a patched
// console until the command exits.
func (o *runOptions) execute(ctx context.Context) error {
	if !o.lock.TryLock() {
		return nil
	}
	defer o.lock.Unlock()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, log := logger.WithBindings(ctx, map[string]any{runIDFieldName: uuid.NewString()})

	target := console.New(o.stdout, o.stderr)
	patched := patch.WithLogger(o.label, methods.ConsoleToStructured, target, &o.settings)
	defer patched.Restore()

	process := exec.CommandContext(ctx, o.command[0], o.command[1:]...)
	process.Stdin = os.Stdin
	stdout, err := process.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: %w", errStartCommand, err)
	}
	stderr, err := process.StderrPipe()
	if err != nil {
		return fmt.Errorf("%w: %w", errStartCommand, err)
	}

	if err := process.Start(); err != nil {
		return fmt.Errorf("%w %q: %w", errStartCommand, o.command[0], err)
	}
	log.Debug(map[string]any{"command": o.command, "pid": process.Process.Pid}, "command started")

	group := new(errgroup.Group)
	group.Go(func() error { return forwardLines(stdout, target.Log) })
	group.Go(func() error { return forwardLines(stderr, target.Error) })
	readErr := group.Wait()

	waitErr := process.Wait()
	exitCode := process.ProcessState.ExitCode()
	log.Info(map[string]any{"exitCode": exitCode}, "command exited")

	var exitErr *exec.ExitError
	switch {
	case errors.As(waitErr, &exitErr):
		return fmt.Errorf("%w with exit code %d", errCommandFailed, exitCode)
	case waitErr != nil:
		return fmt.Errorf("%w: %w", errCommandFailed, waitErr)
	case readErr != nil:
		return fmt.Errorf("%w: %w", errReadingCommand, readErr)
	}

	return nil
}

// forwardLines calls emit with every line read from reader, without the line terminator.
func forwardLines(reader io.Reader, emit func(args ...any)) error {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	for scanner.Scan() {
		emit(scanner.Text())
	}

	return scanner.Err()
}
