// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	forwardedHostHeaderKey = "x-forwarded-host"
	forwardedForHeaderKey  = "x-forwarded-for"
	userAgentHeaderKey     = "user-agent"
	requestIDHeaderName    = "x-request-id"
	requestIDFieldName     = "reqId"

	IncomingRequestMessage  = "incoming request"
	RequestCompletedMessage = "request completed"
)

// exchange is the request and response pair observed by the middleware.
type exchange interface {
	header(key string) string
	method() string
	uri() string
	host() string
	statusCode() int
	responseSize() int
}

// requestID returns the request id sent by the client, or a new random one.
func requestID(x exchange) string {
	if id := x.header(requestIDHeaderName); id != "" {
		return id
	}
	return uuid.NewString()
}

// requestFields collects the request related fields shared by both request records.
func requestFields(x exchange) *Fields {
	fields := NewFields()
	fields.Set("method", x.method())
	fields.Set("url", x.uri())
	fields.Set("hostname", hostname(x.host()))

	optional := [][2]string{
		{"forwardedHost", x.header(forwardedHostHeaderKey)},
		{"ip", x.header(forwardedForHeaderKey)},
		{"userAgent", x.header(userAgentHeaderKey)},
	}
	for _, entry := range optional {
		if entry[1] != "" {
			fields.Set(entry[0], entry[1])
		}
	}
	return fields
}

func hostname(host string) string {
	if name, _, err := net.SplitHostPort(host); err == nil {
		return name
	}
	return host
}

func logIncomingRequest(x exchange, logger Logger) {
	logger.Trace(requestFields(x), IncomingRequestMessage)
}

// logRequestCompleted writes the completed record, at error level for server errors.
func logRequestCompleted(x exchange, logger Logger, startTime time.Time) {
	fields := requestFields(x)
	fields.Set("statusCode", x.statusCode())
	fields.Set("responseBytes", x.responseSize())
	fields.Set("responseTime", float64(time.Since(startTime).Microseconds())/1000)

	log := logger.Info
	if x.statusCode() >= http.StatusInternalServerError {
		log = logger.Error
	}
	log(fields, RequestCompletedMessage)
}

// fiberExchange reads an exchange from a fiber context and the error returned
// by the next handlers.
type fiberExchange struct {
	ctx        *fiber.Ctx
	handlerErr error
}

func (x *fiberExchange) header(key string) string {
	return x.ctx.Get(key, "")
}

func (x *fiberExchange) method() string {
	return x.ctx.Method()
}

func (x *fiberExchange) uri() string {
	return string(x.ctx.Request().URI().RequestURI())
}

func (x *fiberExchange) host() string {
	return string(x.ctx.Request().Host())
}

func (x *fiberExchange) fiberError() *fiber.Error {
	var fiberErr *fiber.Error
	if errors.As(x.handlerErr, &fiberErr) {
		return fiberErr
	}
	return nil
}

func (x *fiberExchange) statusCode() int {
	if fiberErr := x.fiberError(); fiberErr != nil {
		return fiberErr.Code
	}
	if x.handlerErr != nil {
		return http.StatusInternalServerError
	}
	return x.ctx.Response().StatusCode()
}

func (x *fiberExchange) responseSize() int {
	if fiberErr := x.fiberError(); fiberErr != nil {
		return len(fiberErr.Message)
	}

	if content := x.ctx.GetRespHeader(fiber.HeaderContentLength); content != "" {
		if length, err := strconv.Atoi(content); err == nil {
			return length
		}
	}
	return len(x.ctx.Response().Body())
}

// RequestMiddlewareLogger is a fiber middleware to log all requests whose path
// does not start with one of excludedPrefix.
// Every request gets a child logger bound to its request id, stored in the user context,
// that logs the incoming request and the completed one with its latency in milliseconds.
// The request id is echoed in the x-request-id response header.
func RequestMiddlewareLogger(logger Logger, excludedPrefix []string) func(*fiber.Ctx) error {
	return func(fiberCtx *fiber.Ctx) error {
		x := &fiberExchange{ctx: fiberCtx}

		for _, prefix := range excludedPrefix {
			if strings.HasPrefix(x.uri(), prefix) {
				return fiberCtx.Next()
			}
		}

		start := time.Now()

		id := requestID(x)
		fiberCtx.Set(requestIDHeaderName, id)
		requestLogger := logger.Child(map[string]any{requestIDFieldName: id})
		fiberCtx.SetUserContext(WithContext(fiberCtx.UserContext(), requestLogger))

		logIncomingRequest(x, requestLogger)
		x.handlerErr = fiberCtx.Next()
		logRequestCompleted(x, requestLogger, start)

		return x.handlerErr
	}
}
