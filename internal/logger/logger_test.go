package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdoutHandlerLevels(t *testing.T) {
	var buf bytes.Buffer

	dev := stdoutHandler(&buf, true)
	assert.True(t, dev.Enabled(context.Background(), slog.LevelDebug))

	prod := stdoutHandler(&buf, false)
	assert.False(t, prod.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, prod.Enabled(context.Background(), slog.LevelInfo))
}

func TestProductionLogsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(stdoutHandler(&buf, false))

	log.Info("goal created", "goal_id", "g1")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "goal created", record["msg"])
	assert.Equal(t, "g1", record["goal_id"])
}

func TestCombineFansOut(t *testing.T) {
	var a, b bytes.Buffer
	log := slog.New(combine([]slog.Handler{
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, nil),
	}))

	log.Info("hello")

	assert.Contains(t, a.String(), "hello")
	assert.Contains(t, b.String(), "hello")
}

func TestInitWithoutSentry(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	Init(true, "")

	require.NotNil(t, Log)
	assert.Same(t, Log, slog.Default())
}
