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

// Package remote gives a process a client view of a runtime hosted
// elsewhere. A remote runtime owns no units and no scheduler; it hands
// out references that encode messages and write them over the wire.
package remote

import (
	"context"

	"github.com/google/uuid"

	"github.com/robokit-io/robokit/codec"
	"github.com/robokit-io/robokit/internal/syncmap"
	"github.com/robokit-io/robokit/log"
	"github.com/robokit-io/robokit/unit"
	"github.com/robokit-io/robokit/wire"
)

// Runtime is the client view of a runtime hosted on another host. It
// satisfies unit.System so callers can address remote units exactly like
// local ones; the capabilities a remote view cannot offer (unit state,
// attributes, scheduling) are simply absent from the reference type it
// hands out.
type Runtime struct {
	id       string
	client   *wire.Client
	registry *codec.Registry
	refs     *syncmap.SyncMap[string, *remoteRef]
	logger   log.Logger
}

var _ unit.System = (*Runtime)(nil)

// Option configures a remote Runtime.
type Option func(*Runtime)

// WithLogger sets the runtime logger. Defaults to log.DefaultLogger.
func WithLogger(logger log.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// NewRuntime creates a client view of the runtime listening at the given
// "host:port" address. Messages are encoded through the given codec
// registry. No connection is opened until the first send.
func NewRuntime(address string, registry *codec.Registry, opts ...Option) (*Runtime, error) {
	r := &Runtime{
		id:       uuid.NewString(),
		registry: registry,
		refs:     syncmap.New[string, *remoteRef](),
		logger:   log.DefaultLogger,
	}
	for _, opt := range opts {
		opt(r)
	}
	client, err := wire.NewClient(address, wire.WithClientLogger(r.logger))
	if err != nil {
		return nil, err
	}
	r.client = client
	return r, nil
}

// ID returns the client view's identifier.
func (r *Runtime) ID() string {
	return r.id
}

// Address returns the remote endpoint this view points at.
func (r *Runtime) Address() string {
	return r.client.Address()
}

// Reference returns the memoized remote reference for id, creating a
// placeholder on first lookup. No existence check is made against the
// remote side; a unit that does not exist over there is only discovered
// on the first failed send.
func (r *Runtime) Reference(id string) (unit.Reference, error) {
	return r.refs.GetOrSet(id, func() *remoteRef {
		return &remoteRef{id: id, runtime: r}
	}), nil
}

// Units implements unit.System. A client view owns no units.
func (r *Runtime) Units() []unit.Reference {
	return nil
}

// Scheduler implements unit.System. Scheduling is a property of the
// hosting process, not of a dependent view into it.
func (r *Runtime) Scheduler() (*unit.Scheduler, error) {
	return nil, unit.ErrSchedulerNotSupported
}

// Start implements unit.System. There is nothing to bring up; the wire
// connection is opened lazily on first send.
func (r *Runtime) Start(context.Context) error {
	return nil
}

// Stop implements unit.System. The connection is dropped; a later send
// reconnects.
func (r *Runtime) Stop(context.Context) error {
	return r.client.Close()
}

// Shutdown implements unit.System.
func (r *Runtime) Shutdown(context.Context) error {
	err := r.client.Close()
	r.refs.Reset()
	return err
}
