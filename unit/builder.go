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
	"fmt"

	"github.com/robokit-io/robokit/config"
)

// Factory constructs a fresh Unit instance for one descriptor type name.
type Factory func() Unit

// Build registers every unit a descriptor declares, in declaration order.
// Descriptor types are resolved through the factories map; an unknown
// type or a failing registration aborts the build with the units
// registered so far left in place.
func Build(ctx context.Context, r *Runtime, descriptor *config.Descriptor, factories map[string]Factory) error {
	for _, declared := range descriptor.Units {
		factory, ok := factories[declared.Type]
		if !ok {
			return NewErrConfiguration(fmt.Errorf("no factory for unit type=(%s)", declared.Type))
		}
		if _, err := r.Register(ctx, declared.ID, factory(), declared.Config()); err != nil {
			return err
		}
	}
	return nil
}
