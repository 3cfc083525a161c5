// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mia-platform/logbridge/internal/info"
	"github.com/mia-platform/logbridge/internal/logger"
	"github.com/mia-platform/logbridge/internal/methods"
	"github.com/mia-platform/logbridge/internal/patch"
)

const (
	loggerName = "logbridge:server"

	relayPath    = "/logs/:method"
	statusPrefix = "/-/"
)

var (
	ErrServerListen   = errors.New("server listen error")
	ErrServerShutdown = errors.New("server shutdown error")
)

// Server relays console calls received over HTTP to a console-like target.
type Server struct {
	config Config

	app    *fiber.App
	target patch.Target
}

// NewServer returns a Server configured from the environment that forwards the
// relayed calls to target.
func NewServer(ctx context.Context, target patch.Target) (*Server, error) {
	cfg, err := LoadServerConfig()
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: cfg.DisableStartupMessage,
		BodyLimit:             cfg.BodyLimit,
		Immutable:             true,
	})
	log := logger.FromContext(ctx).WithName(loggerName)
	app.Use(logger.RequestMiddlewareLogger(log, []string{statusPrefix}))

	statusRoutes(app, info.AppName, info.Version)

	srv := &Server{
		config: *cfg,
		app:    app,
		target: target,
	}
	app.Post(relayPath, srv.relay)

	return srv, nil
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start() error {
	if err := s.app.Listen(fmt.Sprintf("%s:%d", s.config.HTTPHost, s.config.HTTPPort)); err != nil {
		return fmt.Errorf("%w: %w", ErrServerListen, err)
	}
	return nil
}

func (s *Server) Stop() error {
	if err := s.app.Shutdown(); err != nil {
		return fmt.Errorf("%w: %w", ErrServerShutdown, err)
	}
	return nil
}

// StartAsync listens in a new goroutine. The returned channel receives the
// result of Start once the server stops listening.
func (s *Server) StartAsync(ctx context.Context) <-chan error {
	log := logger.FromContext(ctx).WithName(loggerName)
	errChan := make(chan error, 1)
	go func() {
		err := s.Start()
		if err != nil {
			log.Error(err)
		}
		errChan <- err
	}()
	return errChan
}

// relay decodes the request body as the arguments of a console call and invokes
// the method named in the path on the target. A body holding a JSON array is
// spread as the call arguments, any other JSON value is the single argument.
func (s *Server) relay(ctx *fiber.Ctx) error {
	method := methods.Method(strings.ToLower(ctx.Params("method")))
	if !slices.Contains(methods.ConsoleMethods, method) {
		return errorResponse(ctx, http.StatusNotFound, fmt.Sprintf("unknown console method %q", method))
	}

	call, ok := s.target.Lookup(method)
	if !ok {
		return errorResponse(ctx, http.StatusNotFound, fmt.Sprintf("console method %q is not available", method))
	}

	args, err := decodeArgs(ctx)
	if err != nil {
		logger.FromContext(ctx.UserContext()).Debug(err, "invalid relay body")
		return errorResponse(ctx, http.StatusBadRequest, "request body must be a JSON value")
	}

	call(args...)
	return ctx.SendStatus(http.StatusNoContent)
}

func decodeArgs(ctx *fiber.Ctx) ([]any, error) {
	body := bytes.TrimSpace(ctx.Body())
	if len(body) == 0 {
		return nil, errors.New("empty body")
	}

	decode := ctx.App().Config().JSONDecoder
	if body[0] == '[' {
		var args []any
		if err := decode(body, &args); err != nil {
			return nil, err
		}
		return args, nil
	}

	var arg any
	if err := decode(body, &arg); err != nil {
		return nil, err
	}
	return []any{arg}, nil
}

func statusRoutes(app *fiber.App, serviceName, serviceVersion string) {
	status := func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"status":  "OK",
			"name":    serviceName,
			"version": serviceVersion,
		})
	}

	app.Get(statusPrefix+"healthz", status)
	app.Get(statusPrefix+"ready", status)
}

func errorResponse(ctx *fiber.Ctx, statusCode int, message string) error {
	return ctx.Status(statusCode).JSON(fiber.Map{
		"statusCode": statusCode,
		"error":      http.StatusText(statusCode),
		"message":    message,
	})
}
