package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestBuild_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := build(Options{Level: "info", JSON: true}, zapcore.AddSync(&buf))

	l.Debug("hidden")
	l.Info("opened", zap.String("driver", "sqlite"))
	cleanup()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "opened", entry["msg"])
	assert.Equal(t, "sqlite", entry["driver"])
	assert.Contains(t, entry, "ts")
}

func TestBuild_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := build(Options{Level: "loud", JSON: true}, zapcore.AddSync(&buf))
	defer cleanup()

	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestNewWithRotate_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	l, cleanup := NewWithRotate("info", true, FileRotate{Filename: path, MaxSizeMB: 1})

	l.Info("rotated")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"rotated"`)
}

func TestParseGormLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"silent": gormlogger.Silent,
		"error":  gormlogger.Error,
		"warn":   gormlogger.Warn,
		"info":   gormlogger.Info,
		"":       gormlogger.Warn,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseGormLevel(in), in)
	}
}

func TestGormLogger_Trace(t *testing.T) {
	sql := func() (string, int64) { return "SELECT 1", 1 }

	t.Run("error is logged", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		g := NewGormLogger(zap.New(core), "warn")

		g.Trace(context.Background(), time.Now(), sql, errors.New("boom"))

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
		assert.Equal(t, "SELECT 1", logs.All()[0].ContextMap()["sql"])
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		g := NewGormLogger(zap.New(core), "warn")

		g.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)

		assert.Equal(t, 0, logs.Len())
	})

	t.Run("slow query warns", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		g := NewGormLogger(zap.New(core), "warn")

		g.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "slow sql", logs.All()[0].Message)
	})

	t.Run("info level logs every statement", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		g := NewGormLogger(zap.New(core), "warn").LogMode(gormlogger.Info)

		g.Trace(context.Background(), time.Now(), sql, nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "sql", logs.All()[0].Message)
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		g := NewGormLogger(zap.New(core), "silent")

		g.Trace(context.Background(), time.Now(), sql, errors.New("boom"))

		assert.Equal(t, 0, logs.Len())
	})
}
