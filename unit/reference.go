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

// Reference is a capability handle used to deliver messages to a unit.
// The sender does not care whether the unit lives in-process or on another
// host; local and remote references share this contract.
//
// Send is fire-and-forget: it returns once the message has been enqueued
// (local) or written to the wire (remote). It never waits for the handler.
// Delivery errors are returned, never silently dropped. Messages sent
// through one Reference from one goroutine are delivered in send order;
// concurrent senders have no ordering guarantee relative to each other.
type Reference interface {
	// ID returns the identifier of the unit this reference addresses.
	ID() string
	// Send delivers a message to the unit.
	Send(message any) error
}

// LocalReference is the capability set available only for units hosted in
// the same process: remote references cannot answer state or attribute
// queries because the wire protocol carries no control channel.
type LocalReference interface {
	Reference

	// State returns the unit's current lifecycle state.
	State() State
	// KnownAttributes lists the attribute names the unit exposes.
	KnownAttributes() []string
	// Attribute returns the current value of one exposed attribute.
	Attribute(name string) (string, error)
}

// localRef adapts a process into a LocalReference. References are memoized
// per runtime: looking up the same identifier always yields the same
// instance, so identity comparison works.
type localRef struct {
	process *process
}

var _ LocalReference = (*localRef)(nil)

// ID implements Reference.
func (r *localRef) ID() string {
	return r.process.id
}

// Send implements Reference. The message is enqueued into the unit's
// inbox; the handler runs later on the unit's own goroutine.
func (r *localRef) Send(message any) error {
	return r.process.send(message)
}

// State implements LocalReference.
func (r *localRef) State() State {
	return r.process.state.State()
}

// KnownAttributes implements LocalReference.
func (r *localRef) KnownAttributes() []string {
	if attributed, ok := r.process.unit.(Attributed); ok {
		return attributed.KnownAttributes()
	}
	return nil
}

// Attribute implements LocalReference.
func (r *localRef) Attribute(name string) (string, error) {
	if attributed, ok := r.process.unit.(Attributed); ok {
		if value, ok := attributed.Attribute(name); ok {
			return value, nil
		}
	}
	return "", NewErrAttributeNotFound(name)
}
