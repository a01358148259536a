package logevent

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerWritesJSONLines(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	logger.With("schema", "cert").WithGroup("decode").Info("decoded", "octets", 12)
	logger.Debug("hidden")

	var line []any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Len(t, line, 5)
	assert.Equal(t, "INFO", line[1])
	assert.Equal(t, "/decode/", line[2])
	assert.Equal(t, "decoded", line[3])
	assert.Equal(t, map[string]any{"schema": "cert", "octets": "12"}, line[4])
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestHandlerCountsEvents(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	counter := eventCounter.WithLabelValues("DEBUG", "/map/", "no_match")
	before := testutil.ToFloat64(counter)

	logger.WithGroup("map").Debug("no match", EventAttrKey, "no_match", "path", "$.a")
	logger.WithGroup("map").Debug("no match", EventAttrKey, "no_match", "path", "$.b")

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
	assert.Empty(t, buf.String(), "debug records are counted but not written")

	logger.Warn("rejected", EventAttrKey, "bad_request")
	assert.Contains(t, buf.String(), `"/bad_request"`)
}

func TestLoggerFromContext(t *testing.T) {
	assert.Same(t, slog.Default(), LoggerFromContext(context.Background()))

	logger := slog.New(NewHandler(&bytes.Buffer{}, nil))
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, LoggerFromContext(ctx))
}
