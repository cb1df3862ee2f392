package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/vendingkit/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates JSON logger", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("hello")
		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text formatter option", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithTextFormatter())
		log.Info("hello")
		assert.Contains(t, buf.String(), "level=INFO")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("level filtering", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevelName("warn"))
		log.Info("dropped")
		assert.Empty(t, buf.String())
		log.Warn("kept")
		assert.Equal(t, "kept", decode(t, buf)["msg"])
	})

	t.Run("unknown level name keeps default", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevelName("loud"))
		log.Info("hello")
		assert.Equal(t, "hello", decode(t, buf)["msg"])
	})

	t.Run("static attributes", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(slog.String("machine", "m-1")))
		log.Info("msg")
		assert.Equal(t, "m-1", decode(t, buf)["machine"])
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	t.Run("development", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithEnvironment("dev", "vendingd"), logger.WithOutput(buf))
		log.Debug("msg")
		out := buf.String()
		assert.Contains(t, out, "DEBUG")
		assert.Contains(t, out, "service=vendingd")
		assert.Contains(t, out, "env=development")
	})

	t.Run("production", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithEnvironment("prod", "vendingd"), logger.WithOutput(buf))
		log.Debug("dropped")
		assert.Empty(t, buf.String())
		log.Info("msg")
		entry := decode(t, buf)
		assert.Equal(t, "vendingd", entry["service"])
		assert.Equal(t, "production", entry["env"])
	})
}

func TestTransactionIDExtractor(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextExtractors(nil, logger.TransactionIDExtractor()),
	)

	ctx := logger.WithTransactionID(context.Background(), "tx-1")
	log.InfoContext(ctx, "with id")
	assert.Equal(t, "tx-1", decode(t, buf)["transaction_id"])

	buf.Reset()
	log.InfoContext(context.Background(), "without id")
	_, ok := decode(t, buf)["transaction_id"]
	assert.False(t, ok)

	buf.Reset()
	log.With(slog.String("k", "v")).WithGroup("g").InfoContext(ctx, "grouped", slog.Int("n", 1))
	entry := decode(t, buf)
	assert.Equal(t, "v", entry["k"])
	assert.NotNil(t, entry["g"])
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextExtractors(logger.RequestIDExtractor(), logger.TransactionIDExtractor()),
	)

	ctx := logger.WithRequestID(context.Background(), "req-1")
	ctx = logger.WithTransactionID(ctx, "tx-1")
	log.InfoContext(ctx, "both")
	entry := decode(t, buf)
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "tx-1", entry["transaction_id"])

	_, ok := logger.RequestIDFromContext(logger.WithRequestID(context.Background(), ""))
	assert.False(t, ok)
}

func TestExtractedAttrIsNotDuplicated(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextExtractors(logger.TransactionIDExtractor(), logger.TransactionIDExtractor()),
	)

	ctx := logger.WithTransactionID(context.Background(), "tx-ctx")
	log.InfoContext(ctx, "explicit", logger.TransactionID("tx-explicit"))
	assert.Equal(t, 1, strings.Count(buf.String(), `"transaction_id"`))
	assert.Equal(t, "tx-explicit", decode(t, buf)["transaction_id"])

	buf.Reset()
	log.InfoContext(ctx, "extracted twice")
	assert.Equal(t, 1, strings.Count(buf.String(), `"transaction_id"`))
	assert.Equal(t, "tx-ctx", decode(t, buf)["transaction_id"])
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	log := logger.Discard()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}
