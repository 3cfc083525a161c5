// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mia-platform/logbridge/internal/console"
	"github.com/mia-platform/logbridge/internal/logger"
	"github.com/mia-platform/logbridge/internal/methods"
	"github.com/mia-platform/logbridge/internal/patch"
	"github.com/mia-platform/logbridge/internal/server"
)

// serverFactory builds the relay server, it can be overridden for testing purposes.
var serverFactory = func(ctx context.Context, target patch.Target) (relayServer, error) {
	return server.NewServer(ctx, target)
}

type relayServer interface {
	StartAsync(ctx context.Context) <-chan error
	Stop() error
}

// serveOptions holds the options set for the current serve function.
type serveOptions struct {
	label    string
	settings logger.Config

	stdout io.Writer
	stderr io.Writer

	lock sync.Mutex
}

// execute patches a console and the fiber logger, then serves the relay until
// the context is done or the server fails.
func (o *serveOptions) execute(ctx context.Context) error {
	if !o.lock.TryLock() {
		return nil
	}
	defer o.lock.Unlock()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	target := console.New(o.stdout, o.stderr)
	consolePatch := patch.WithLogger(o.label, methods.ConsoleToStructured, target, &o.settings)
	defer consolePatch.Restore()

	fiberPatch := patch.Fiber(&o.settings)
	defer fiberPatch.Restore()

	srv, err := serverFactory(ctx, target)
	if err != nil {
		return err
	}

	errChan := srv.StartAsync(ctx)
	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.FromContext(ctx).Info("shutting down relay server")
		if err := srv.Stop(); err != nil {
			return err
		}
		return <-errChan
	}
}
