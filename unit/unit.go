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

// Package unit implements the processing-unit runtime: independently
// addressable message-driven units, the lifecycle state machine each of
// them obeys, the runtime that owns and coordinates them, the references
// used to address them, and the scheduler used for their background work.
//
// Units communicate exclusively by asynchronous message passing. A sender
// obtains a Reference from a Runtime and calls Send; whether the receiver
// lives in the same process or on another host is the reference's concern,
// not the sender's.
package unit

import (
	"context"

	"github.com/robokit-io/robokit/config"
	"github.com/robokit-io/robokit/log"
)

// Unit is the behavior contract every processing unit implements.
//
// A unit is a lightweight, isolated actor-like entity owned by exactly one
// Runtime. Its message handler runs on a single dedicated goroutine, so
// unit state needs no synchronization of its own: only OnMessage and the
// lifecycle hooks touch it, and the runtime orders those calls.
//
// Implementations usually embed BaseUnit and override the hooks they need.
type Unit interface {
	// OnInit is invoked once, at registration, before any other hook.
	// Read required settings here and return an error when one is missing
	// or invalid; the unit is then marked failed and never started.
	OnInit(ctx *InitContext) error

	// OnMessage handles one message from the unit's inbox. Invocations are
	// sequential per unit, in enqueue order.
	OnMessage(ctx *MessageContext)

	// Start is invoked when the runtime brings the unit up. Long-running
	// work (poll loops, accept loops) should be handed to the scheduler
	// here, not run inline.
	Start(ctx context.Context) error

	// Stop is invoked when the runtime halts the unit. The unit keeps its
	// configuration and may not be restarted.
	Stop(ctx context.Context) error

	// Shutdown is invoked once when the unit is being destroyed and must
	// release every resource it holds.
	Shutdown(ctx context.Context) error
}

// Attributed is an optional capability: units implementing it expose
// introspectable key/value attributes through their local reference.
type Attributed interface {
	// KnownAttributes lists the attribute names the unit exposes.
	KnownAttributes() []string
	// Attribute returns the current value of one attribute.
	Attribute(name string) (string, bool)
}

// StartingReceiver is an optional marker: units implementing it accept
// messages already while Starting, not only once Started. Configuration
// units use this to receive setup commands during bring-up.
type StartingReceiver interface {
	AcceptWhileStarting() bool
}

// BaseUnit provides no-op defaults for every Unit hook. Embed it and
// override what you need.
type BaseUnit struct{}

var _ Unit = (*BaseUnit)(nil)

// OnInit implements Unit.
func (*BaseUnit) OnInit(*InitContext) error { return nil }

// OnMessage implements Unit.
func (*BaseUnit) OnMessage(*MessageContext) {}

// Start implements Unit.
func (*BaseUnit) Start(context.Context) error { return nil }

// Stop implements Unit.
func (*BaseUnit) Stop(context.Context) error { return nil }

// Shutdown implements Unit.
func (*BaseUnit) Shutdown(context.Context) error { return nil }

// InitContext carries everything a unit may need during OnInit.
type InitContext struct {
	ctx     context.Context
	id      string
	runtime *Runtime
	config  *config.Config
	logger  log.Logger
}

// Context returns the context governing initialization.
func (x *InitContext) Context() context.Context { return x.ctx }

// ID returns the identifier the unit was registered under.
func (x *InitContext) ID() string { return x.id }

// Runtime returns the runtime that owns the unit.
func (x *InitContext) Runtime() *Runtime { return x.runtime }

// Config returns the unit's settings.
func (x *InitContext) Config() *config.Config { return x.config }

// Logger returns a logger scoped to the unit.
func (x *InitContext) Logger() log.Logger { return x.logger }

// MessageContext carries one delivered message and the unit's surroundings.
type MessageContext struct {
	ctx     context.Context
	message any
	self    Reference
	runtime *Runtime
	logger  log.Logger
}

// Context returns the context governing message handling.
func (x *MessageContext) Context() context.Context { return x.ctx }

// Message returns the delivered payload.
func (x *MessageContext) Message() any { return x.message }

// Self returns the reference of the receiving unit.
func (x *MessageContext) Self() Reference { return x.self }

// Runtime returns the runtime that owns the receiving unit.
func (x *MessageContext) Runtime() *Runtime { return x.runtime }

// Logger returns a logger scoped to the unit.
func (x *MessageContext) Logger() log.Logger { return x.logger }
