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

package remote

import (
	"github.com/robokit-io/robokit/codec"
	"github.com/robokit-io/robokit/unit"
)

// remoteRef addresses one unit on a remote runtime. It deliberately
// implements only unit.Reference, not unit.LocalReference: the wire
// protocol carries no control channel, so state and attribute queries do
// not exist for remote units at the type level.
type remoteRef struct {
	id      string
	runtime *Runtime
}

var _ unit.Reference = (*remoteRef)(nil)

// ID implements unit.Reference.
func (r *remoteRef) ID() string {
	return r.id
}

// Send implements unit.Reference. The message is encoded through the
// codec registry and written over the wire; encode, connect and write
// failures are all surfaced as a delivery failure, never dropped.
func (r *remoteRef) Send(message any) error {
	tag, ok := r.runtime.registry.TagOf(message)
	if !ok {
		return unit.NewErrDeliveryFailure(codec.ErrUnregisteredCodec)
	}
	payload, err := r.runtime.registry.Encode(tag, message)
	if err != nil {
		return unit.NewErrDeliveryFailure(err)
	}
	if err := r.runtime.client.Send(r.id, tag, payload); err != nil {
		return unit.NewErrDeliveryFailure(err)
	}
	return nil
}
