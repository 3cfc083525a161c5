// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/logbridge/internal/console"
	"github.com/mia-platform/logbridge/internal/logger"
	"github.com/mia-platform/logbridge/internal/methods"
	"github.com/mia-platform/logbridge/internal/patch"
)

func records(t *testing.T, buffer *bytes.Buffer) []map[string]any {
	t.Helper()

	var result []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buffer.String()), "\n") {
		if line == "" {
			continue
		}
		record := make(map[string]any)
		require.NoError(t, json.Unmarshal([]byte(line), &record), line)
		result = append(result, record)
	}
	return result
}

func patchedConsole(t *testing.T, output *bytes.Buffer) *console.Console {
	t.Helper()

	target := console.New(io.Discard, io.Discard)
	patched := patch.WithLogger("relay", methods.ConsoleToStructured, target, &logger.Config{
		Level:    "trace",
		Prettify: logger.Bool(false),
		Output:   output,
	})
	t.Cleanup(patched.Restore)
	return target
}

func TestStatusRoutes(t *testing.T) {
	srv, err := NewServer(t.Context(), console.New(io.Discard, io.Discard))
	require.NoError(t, err)

	for _, path := range []string{"/-/healthz", "/-/ready"} {
		request := httptest.NewRequest(http.MethodGet, path, nil)
		response, err := srv.App().Test(request)
		require.NoError(t, err)

		body := make(map[string]any)
		require.NoError(t, json.NewDecoder(response.Body).Decode(&body))
		response.Body.Close()

		assert.Equal(t, http.StatusOK, response.StatusCode)
		assert.Equal(t, "OK", body["status"])
		assert.Equal(t, "logbridge", body["name"])
	}
}

func TestRelay(t *testing.T) {
	testCases := map[string]struct {
		path               string
		body               string
		expectedStatusCode int
		expectedLevel      string
		expectedMessage    string
		expectedFields     map[string]any
	}{
		"array body is spread as arguments": {
			path:               "/logs/log",
			body:               `["hello %s", "world"]`,
			expectedStatusCode: http.StatusNoContent,
			expectedLevel:      "info",
			expectedMessage:    "hello world",
		},
		"objects are merged into the record": {
			path:               "/logs/warn",
			body:               `[{"userId": 123}, "User %s logged in", "John"]`,
			expectedStatusCode: http.StatusNoContent,
			expectedLevel:      "warn",
			expectedMessage:    "User John logged in",
			expectedFields:     map[string]any{"userId": float64(123)},
		},
		"a single value is the only argument": {
			path:               "/logs/error",
			body:               `"failure"`,
			expectedStatusCode: http.StatusNoContent,
			expectedLevel:      "error",
			expectedMessage:    "failure",
		},
		"method names are case insensitive": {
			path:               "/logs/DEBUG",
			body:               `["debugging"]`,
			expectedStatusCode: http.StatusNoContent,
			expectedLevel:      "debug",
			expectedMessage:    "debugging",
		},
		"unknown method": {
			path:               "/logs/fatal",
			body:               `["boom"]`,
			expectedStatusCode: http.StatusNotFound,
		},
		"empty body": {
			path:               "/logs/info",
			expectedStatusCode: http.StatusBadRequest,
		},
		"invalid json": {
			path:               "/logs/info",
			body:               `["unterminated`,
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			output := new(bytes.Buffer)
			srv, err := NewServer(t.Context(), patchedConsole(t, output))
			require.NoError(t, err)

			request := httptest.NewRequest(http.MethodPost, test.path, strings.NewReader(test.body))
			request.Header.Set("Content-Type", "application/json")
			response, err := srv.App().Test(request)
			require.NoError(t, err)
			defer response.Body.Close()

			require.Equal(t, test.expectedStatusCode, response.StatusCode)
			if test.expectedStatusCode != http.StatusNoContent {
				assert.Empty(t, output.String())
				return
			}

			written := records(t, output)
			require.Len(t, written, 1)
			assert.Equal(t, test.expectedLevel, written[0]["@level"])
			assert.Equal(t, test.expectedMessage, written[0]["@message"])
			assert.Equal(t, "relay", written[0]["name"])
			for key, value := range test.expectedFields {
				assert.Equal(t, value, written[0][key])
			}
		})
	}
}

func TestRelayMissingMethod(t *testing.T) {
	target := console.New(io.Discard, io.Discard)
	target.Delete(methods.Trace)

	srv, err := NewServer(t.Context(), target)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, "/logs/trace", strings.NewReader(`["x"]`))
	response, err := srv.App().Test(request)
	require.NoError(t, err)
	defer response.Body.Close()

	body := make(map[string]any)
	require.NoError(t, json.NewDecoder(response.Body).Decode(&body))
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
	assert.Equal(t, `console method "trace" is not available`, body["message"])
}

func TestStartAndStop(t *testing.T) {
	t.Setenv("HTTP_HOST", "127.0.0.1")
	t.Setenv("HTTP_PORT", "38231")

	srv, err := NewServer(t.Context(), console.New(io.Discard, io.Discard))
	require.NoError(t, err)

	errChan := srv.StartAsync(t.Context())

	require.Eventually(t, func() bool {
		response, err := http.Get("http://127.0.0.1:38231/-/healthz")
		if err != nil {
			return false
		}
		response.Body.Close()
		return response.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, srv.Stop())
	require.NoError(t, <-errChan)
}
