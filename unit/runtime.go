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

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/robokit-io/robokit/config"
	"github.com/robokit-io/robokit/internal/syncmap"
	"github.com/robokit-io/robokit/internal/validation"
	"github.com/robokit-io/robokit/log"
)

// System is the contract shared by every runtime view, whether it hosts
// units in this process or is a client view of a runtime hosted elsewhere.
type System interface {
	// ID returns the runtime's identifier.
	ID() string
	// Reference returns the memoized reference for the given unit
	// identifier. The same identifier always yields the same instance.
	Reference(id string) (Reference, error)
	// Units returns a snapshot of the references to all owned units, in
	// registration order. Client views own no units and return nil.
	Units() []Reference
	// Scheduler returns the runtime's scheduler. Client views fail with
	// ErrSchedulerNotSupported: scheduling is a property of the hosting
	// process, not of a dependent view into it.
	Scheduler() (*Scheduler, error)
	// Start brings every owned unit up, best-effort and in registration
	// order.
	Start(ctx context.Context) error
	// Stop halts every owned unit, best-effort and in registration order.
	Stop(ctx context.Context) error
	// Shutdown destroys every owned unit and releases the scheduler.
	Shutdown(ctx context.Context) error
}

// Runtime hosts units within one process: it owns the unit registry, the
// scheduler, and orchestrates collective lifecycle transitions. Units are
// created by Register and destroyed only by this Runtime's Shutdown.
type Runtime struct {
	id        string
	processes *syncmap.SyncMap[string, *process]
	// order preserves registration order for broadcasts; guarded by mu.
	mu        sync.Mutex
	order     []string
	scheduler *Scheduler
	state     *stateHolder
	logger    log.Logger

	mailboxCapacity  int
	schedulerWorkers int
}

var _ System = (*Runtime)(nil)

// New creates a Runtime. It starts in the Uninitialized state; call Start
// once the unit graph is registered.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		id:        uuid.NewString(),
		processes: syncmap.New[string, *process](),
		state:     newStateHolder(),
		logger:    log.DefaultLogger,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.scheduler = newScheduler(r.logger, r.schedulerWorkers, 0)
	return r
}

// ID returns the runtime's identifier.
func (r *Runtime) ID() string {
	return r.id
}

// State returns the runtime's own lifecycle state.
func (r *Runtime) State() State {
	return r.state.State()
}

// Register creates a unit under the given identifier and initializes it
// with the given settings. The identifier must be unique within this
// Runtime and is immutable afterwards. A failing OnInit hook leaves the
// unit registered in the Failed state and returns ErrConfiguration; the
// Runtime itself keeps running.
func (r *Runtime) Register(ctx context.Context, id string, u Unit, cfg *config.Config) (Reference, error) {
	if err := validation.New(validation.FailFast()).
		AddValidator(validation.NewIDValidator(id, ErrInvalidUnitID)).
		Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	if _, exists := r.processes.Get(id); exists {
		r.mu.Unlock()
		return nil, NewErrUnitAlreadyExists(id)
	}
	p := newProcess(id, u, r, r.mailboxCapacity)
	r.processes.Set(id, p)
	r.order = append(r.order, id)
	r.mu.Unlock()

	if err := p.init(ctx, cfg); err != nil {
		r.logger.Errorf("unit=(%s) failed to initialize: %v", id, err)
		return nil, err
	}
	return p.ref, nil
}

// Reference returns the memoized reference of a registered unit.
func (r *Runtime) Reference(id string) (Reference, error) {
	p, ok := r.processes.Get(id)
	if !ok {
		return nil, NewErrUnitNotFound(id)
	}
	return p.ref, nil
}

// LocalReference returns the full local capability set of a registered
// unit, including state and attribute introspection.
func (r *Runtime) LocalReference(id string) (LocalReference, error) {
	p, ok := r.processes.Get(id)
	if !ok {
		return nil, NewErrUnitNotFound(id)
	}
	return p.ref, nil
}

// Units returns a snapshot of all owned references in registration order.
func (r *Runtime) Units() []Reference {
	r.mu.Lock()
	order := make([]string, len(r.order))
	copy(order, r.order)
	r.mu.Unlock()

	refs := make([]Reference, 0, len(order))
	for _, id := range order {
		if p, ok := r.processes.Get(id); ok {
			refs = append(refs, p.ref)
		}
	}
	return refs
}

// Scheduler returns the runtime's scheduler.
func (r *Runtime) Scheduler() (*Scheduler, error) {
	return r.scheduler, nil
}

// Start brings the scheduler up and starts every owned unit in
// registration order. A unit that fails to start does not prevent the
// others from being attempted; the collected errors are returned.
func (r *Runtime) Start(ctx context.Context) error {
	if err := r.state.transition(Initialized); err != nil {
		return err
	}
	if err := r.state.transition(Starting); err != nil {
		return err
	}
	r.scheduler.Start(ctx)

	err := r.broadcast(func(p *process) error {
		if p.state.State() == Failed {
			return fmt.Errorf("unit=(%s) %w", p.id, ErrUnitFailed)
		}
		return p.start(ctx)
	})

	if terr := r.state.transition(Started); terr != nil {
		return multierr.Append(err, terr)
	}
	r.logger.Infof("runtime started, %d unit(s)", r.processes.Len())
	return err
}

// Stop halts every owned unit in registration order, best-effort.
func (r *Runtime) Stop(ctx context.Context) error {
	if st := r.state.State(); st == Uninitialized || st == Initialized {
		return ErrRuntimeNotStarted
	}
	if err := r.state.transition(Stopping); err != nil {
		return err
	}
	err := r.broadcast(func(p *process) error {
		return p.stop(ctx)
	})
	if terr := r.state.transition(Stopped); terr != nil {
		return multierr.Append(err, terr)
	}
	r.logger.Info("runtime stopped")
	return err
}

// StopUnit halts one unit by identifier, leaving its siblings and the
// runtime itself running. Units owning a background resource use it to
// retire themselves when that resource dies.
func (r *Runtime) StopUnit(ctx context.Context, id string) error {
	p, ok := r.processes.Get(id)
	if !ok {
		return NewErrUnitNotFound(id)
	}
	return p.stop(ctx)
}

// Shutdown destroys every owned unit in registration order and then
// releases the scheduler, regardless of unit errors.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if err := r.state.transition(ShuttingDown); err != nil {
		return err
	}

	err := r.broadcast(func(p *process) error {
		if p.state.State().Terminal() {
			return nil
		}
		return p.shutdown(ctx)
	})

	// the scheduler is released even when unit hooks failed
	r.scheduler.Stop(ctx)

	if terr := r.state.transition(Shutdown); terr != nil {
		return multierr.Append(err, terr)
	}
	r.logger.Info("runtime shut down")
	return err
}

// broadcast applies fn to every process in registration order and
// aggregates the failures. A failure never stops the iteration.
func (r *Runtime) broadcast(fn func(*process) error) error {
	var err error
	for _, ref := range r.Units() {
		local := ref.(*localRef)
		if ferr := fn(local.process); ferr != nil {
			r.logger.Error(ferr)
			err = multierr.Append(err, ferr)
		}
	}
	return err
}
