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

import "github.com/robokit-io/robokit/log"

// Option configures a Runtime during construction.
type Option func(*Runtime)

// WithLogger sets the runtime logger. Defaults to log.DefaultLogger.
func WithLogger(logger log.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithID overrides the generated runtime identifier.
func WithID(id string) Option {
	return func(r *Runtime) {
		r.id = id
	}
}

// WithWorkerCount sets the size of the scheduler's worker pool.
func WithWorkerCount(count int) Option {
	return func(r *Runtime) {
		r.schedulerWorkers = count
	}
}

// WithMailboxCapacity sets the per-unit mailbox capacity.
func WithMailboxCapacity(capacity int) Option {
	return func(r *Runtime) {
		r.mailboxCapacity = capacity
	}
}
