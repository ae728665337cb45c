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

package unit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robokit-io/robokit/config"
	"github.com/robokit-io/robokit/log"
)

const testDescriptor = `
name: rover
units:
  - id: motor-left
    type: recorder
    settings:
      speed: 30
  - id: motor-right
    type: recorder
`

func TestBuild(t *testing.T) {
	ctx := context.Background()
	factories := map[string]Factory{
		"recorder": func() Unit { return &recorder{} },
	}

	t.Run("With units registered in declaration order", func(t *testing.T) {
		descriptor, err := config.Parse([]byte(testDescriptor))
		require.NoError(t, err)

		runtime := New(WithLogger(log.DiscardLogger))
		require.NoError(t, Build(ctx, runtime, descriptor, factories))

		units := runtime.Units()
		require.Len(t, units, 2)
		assert.Equal(t, "motor-left", units[0].ID())
		assert.Equal(t, "motor-right", units[1].ID())
		require.NoError(t, runtime.Shutdown(ctx))
	})

	t.Run("With an unknown unit type aborting the build", func(t *testing.T) {
		descriptor, err := config.Parse([]byte("name: rover\nunits:\n  - id: x\n    type: unknown\n"))
		require.NoError(t, err)

		runtime := New(WithLogger(log.DiscardLogger))
		err = Build(ctx, runtime, descriptor, factories)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfiguration)
		require.NoError(t, runtime.Shutdown(ctx))
	})
}
