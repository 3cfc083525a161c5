// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerInContext(t *testing.T) {
	t.Parallel()

	t.Run("from nil context return null logger", func(t *testing.T) {
		t.Parallel()
		var ctx context.Context = nil
		log := FromContext(ctx)
		assert.Equal(t, log, nullLogger)
	})

	t.Run("from empty context return null logger", func(t *testing.T) {
		t.Parallel()

		log := FromContext(t.Context())
		assert.Equal(t, log, nullLogger)
	})

	t.Run("context with a logger return that logger", func(t *testing.T) {
		t.Parallel()

		log := New(Config{Output: os.Stderr})
		ctx := WithContext(t.Context(), log)

		logFromCtx := FromContext(ctx)
		assert.Equal(t, logFromCtx, log)
	})

	t.Run("bindings are added to the context logger", func(t *testing.T) {
		t.Parallel()

		buffer := new(bytes.Buffer)
		ctx := WithContext(t.Context(), newJSONLogger(buffer, false))
		ctx, child := WithBindings(ctx, map[string]any{"runId": "42"})
		assert.Same(t, child, FromContext(ctx))

		FromContext(ctx).Info("bound")
		logs := records(t, buffer)
		require.Len(t, logs, 1)
		assert.Equal(t, "42", logs[0]["runId"])
	})

	t.Run("bindings on an empty context do not panic", func(t *testing.T) {
		t.Parallel()

		_, child := WithBindings(t.Context(), map[string]any{"runId": "42"})
		assert.NotPanics(t, func() { child.Info("discarded") })
	})
}
