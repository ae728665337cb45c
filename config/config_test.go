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

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedAccessors(t *testing.T) {
	cfg := New().
		Set("target", "controller").
		Set("port", 8042).
		Set("enabled", true).
		Set("interval", "250ms")

	assert.Equal(t, "controller", cfg.GetString("target", ""))
	assert.Equal(t, "fallback", cfg.GetString("missing", "fallback"))
	assert.Equal(t, 8042, cfg.GetInt("port", 0))
	assert.Equal(t, 9, cfg.GetInt("missing", 9))
	assert.True(t, cfg.GetBool("enabled", false))
	assert.Equal(t, 250*time.Millisecond, cfg.GetDuration("interval", time.Second))
	assert.Equal(t, time.Second, cfg.GetDuration("missing", time.Second))
}

func TestStringConversions(t *testing.T) {
	cfg := FromMap(map[string]any{
		"port":    "8042",
		"enabled": "true",
		"timeout": 2,
	})

	assert.Equal(t, 8042, cfg.GetInt("port", 0))
	assert.True(t, cfg.GetBool("enabled", false))
	assert.Equal(t, 2*time.Second, cfg.GetDuration("timeout", 0))
}

func TestMustString(t *testing.T) {
	cfg := New().Set("target", "controller")

	v, err := cfg.MustString("target")
	require.NoError(t, err)
	assert.Equal(t, "controller", v)

	_, err = cfg.MustString("port")
	require.ErrorIs(t, err, ErrMissingSetting)

	var nilCfg *Config
	_, err = nilCfg.MustString("anything")
	require.ErrorIs(t, err, ErrMissingSetting)
	assert.Equal(t, "fallback", nilCfg.GetString("anything", "fallback"))
}

func TestParseDescriptor(t *testing.T) {
	data := []byte(`
name: rover
units:
  - id: controller
    type: tank
    settings:
      port: 8042
      target: motors
  - id: motors
    type: motor-driver
`)

	descriptor, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "rover", descriptor.Name)
	require.Len(t, descriptor.Units, 2)
	assert.Equal(t, "controller", descriptor.Units[0].ID)
	assert.Equal(t, 8042, descriptor.Units[0].Config().GetInt("port", 0))
	assert.Equal(t, "motors", descriptor.Units[0].Config().GetString("target", ""))
	assert.Nil(t, descriptor.Units[1].Settings)
}

func TestParseDescriptorMissingID(t *testing.T) {
	data := []byte(`
units:
  - type: tank
`)
	_, err := Parse(data)
	require.ErrorIs(t, err, ErrMissingSetting)
}

func TestParseDescriptorInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("units: ["))
	require.Error(t, err)
}
