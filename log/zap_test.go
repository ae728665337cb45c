/*
 * MIT License
 *
 * Copyright (c) 2024-2026 The Robokit Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractMessage(data []byte) (string, error) {
	var entry map[string]json.RawMessage
	if err := json.Unmarshal(data, &entry); err != nil {
		return "", err
	}
	var msg string
	if err := json.Unmarshal(entry["msg"], &msg); err != nil {
		return "", err
	}
	return msg, nil
}

func TestZapLevels(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := NewZap(DebugLevel, buffer)
	require.Equal(t, DebugLevel, logger.LogLevel())

	logger.Debug("test debug")
	msg, err := extractMessage(buffer.Bytes())
	require.NoError(t, err)
	require.Equal(t, "test debug", msg)

	buffer.Reset()
	logger.Infof("count=%d", 3)
	msg, err = extractMessage(buffer.Bytes())
	require.NoError(t, err)
	require.Equal(t, "count=3", msg)
}

func TestZapLevelFiltering(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := NewZap(ErrorLevel, buffer)

	logger.Info("should not appear")
	require.Zero(t, buffer.Len())

	logger.Error("boom")
	msg, err := extractMessage(buffer.Bytes())
	require.NoError(t, err)
	require.Equal(t, "boom", msg)
}

func TestWith(t *testing.T) {
	t.Run("adds structured fields to output", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("unit", "imu", "port", 8042).Info("started")

		var entry map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
		require.Contains(t, entry, "unit")
		require.Contains(t, entry, "port")
	})

	t.Run("returns same logger when keyValues empty", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Equal(t, logger, logger.With())
	})

	t.Run("DiscardLogger.With returns DiscardLogger", func(t *testing.T) {
		assert.Equal(t, DiscardLogger, DiscardLogger.With("unit", "imu"))
	})
}

func TestDiscardLogger(t *testing.T) {
	require.Equal(t, InvalidLevel, DiscardLogger.LogLevel())
	require.Len(t, DiscardLogger.LogOutput(), 1)
	// must not panic or write anywhere
	DiscardLogger.Debug("x")
	DiscardLogger.Infof("%d", 1)
	DiscardLogger.Warn("y")
	DiscardLogger.Error("z")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "WARNING", WarningLevel.String())
	assert.Equal(t, "INVALID", InvalidLevel.String())
}
