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
	"sync"

	"github.com/robokit-io/robokit/config"
	"github.com/robokit-io/robokit/log"
)

// process pairs a Unit with its runtime wiring: lifecycle state, inbox and
// the goroutine that drains it. A process is created at registration time
// and owned exclusively by the runtime that created it.
type process struct {
	id             string
	unit           Unit
	state          *stateHolder
	inbox          *mailbox
	runtime        *Runtime
	ref            *localRef
	logger         log.Logger
	acceptStarting bool
	loop           sync.WaitGroup
}

func newProcess(id string, u Unit, runtime *Runtime, mailboxCapacity int) *process {
	p := &process{
		id:      id,
		unit:    u,
		state:   newStateHolder(),
		inbox:   newMailbox(mailboxCapacity),
		runtime: runtime,
		logger:  runtime.logger.With("unit", id),
	}
	if receiver, ok := u.(StartingReceiver); ok {
		p.acceptStarting = receiver.AcceptWhileStarting()
	}
	p.ref = &localRef{process: p}
	return p
}

// init runs the unit's OnInit hook. A hook failure marks the unit failed;
// the runtime keeps running.
func (p *process) init(ctx context.Context, cfg *config.Config) error {
	if err := p.unit.OnInit(&InitContext{
		ctx:     ctx,
		id:      p.id,
		runtime: p.runtime,
		config:  cfg,
		logger:  p.logger,
	}); err != nil {
		p.state.fail()
		return NewErrConfiguration(err)
	}
	if err := p.state.transition(Initialized); err != nil {
		return err
	}
	return nil
}

// start brings the unit up and launches its receive loop.
func (p *process) start(ctx context.Context) error {
	if err := p.state.transition(Starting); err != nil {
		return err
	}
	if err := p.unit.Start(ctx); err != nil {
		p.state.fail()
		return fmt.Errorf("starting unit=(%s): %w", p.id, err)
	}

	p.loop.Add(1)
	go p.receive()

	if err := p.state.transition(Started); err != nil {
		return err
	}
	p.logger.Info("unit started")
	return nil
}

// stop halts the unit. Queued messages are discarded; the in-flight
// handler invocation, if any, completes before the transition does.
func (p *process) stop(ctx context.Context) error {
	if err := p.state.transition(Stopping); err != nil {
		return err
	}
	p.drainLoop()
	if err := p.unit.Stop(ctx); err != nil {
		p.state.fail()
		return fmt.Errorf("stopping unit=(%s): %w", p.id, err)
	}
	if err := p.state.transition(Stopped); err != nil {
		return err
	}
	p.logger.Info("unit stopped")
	return nil
}

// shutdown destroys the unit from any non-terminal state.
func (p *process) shutdown(ctx context.Context) error {
	if err := p.state.transition(ShuttingDown); err != nil {
		return err
	}
	p.drainLoop()
	if err := p.unit.Shutdown(ctx); err != nil {
		p.state.fail()
		return fmt.Errorf("shutting down unit=(%s): %w", p.id, err)
	}
	if err := p.state.transition(Shutdown); err != nil {
		return err
	}
	p.logger.Info("unit shut down")
	return nil
}

// send enqueues a message when the unit is eligible to receive it. The
// runtime enforces eligibility here; units never check their own state.
func (p *process) send(message any) error {
	switch state := p.state.State(); {
	case state == Started:
	case state == Starting && p.acceptStarting:
	case state == Failed:
		return fmt.Errorf("unit=(%s) %w", p.id, ErrUnitFailed)
	default:
		return fmt.Errorf("unit=(%s) state=(%s) %w", p.id, state, ErrUnitNotReady)
	}

	msg := &MessageContext{
		ctx:     context.Background(),
		message: message,
		self:    p.ref,
		runtime: p.runtime,
		logger:  p.logger,
	}
	if err := p.inbox.Enqueue(msg); err != nil {
		return fmt.Errorf("unit=(%s) %w", p.id, ErrUnitNotReady)
	}
	return nil
}

// receive drains the inbox until it is disposed. It is the only goroutine
// that ever invokes OnMessage, which gives each unit single-threaded
// handler semantics.
func (p *process) receive() {
	defer p.loop.Done()
	for {
		msg, ok := p.inbox.Dequeue()
		if !ok {
			return
		}
		p.invoke(msg)
	}
}

func (p *process) invoke(msg *MessageContext) {
	defer func() {
		if recovered := recover(); recovered != nil {
			p.logger.Errorf("message handler panicked: %v", recovered)
		}
	}()
	p.unit.OnMessage(msg)
}

// drainLoop disposes the inbox and waits for the receive loop, so that a
// lifecycle transition never completes while a handler invocation is in
// flight.
func (p *process) drainLoop() {
	p.inbox.Dispose()
	p.loop.Wait()
}
