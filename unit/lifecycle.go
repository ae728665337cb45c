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
	"sync"

	"go.uber.org/atomic"
)

// State is the lifecycle state of a unit or runtime. Every unit starts in
// Uninitialized and only ever advances along the legal transition graph;
// the single exception is Failed, which is reachable from any live state.
type State int32

const (
	// Uninitialized is the initial state before configuration.
	Uninitialized State = iota
	// Initialized means configuration succeeded and the unit can be started.
	Initialized
	// Starting means the start hook is running.
	Starting
	// Started means the unit is live and accepts messages.
	Started
	// Stopping means the stop hook is running.
	Stopping
	// Stopped means the unit no longer accepts messages but still holds
	// its resources.
	Stopped
	// ShuttingDown means the shutdown hook is running.
	ShuttingDown
	// Shutdown is terminal; all resources are released.
	Shutdown
	// Failed is terminal; the unit hit an unrecoverable configuration or
	// initialization error and will not be dispatched to again.
	Failed
)

var stateNames = map[State]string{
	Uninitialized: "UNINITIALIZED",
	Initialized:   "INITIALIZED",
	Starting:      "STARTING",
	Started:       "STARTED",
	Stopping:      "STOPPING",
	Stopped:       "STOPPED",
	ShuttingDown:  "SHUTTING_DOWN",
	Shutdown:      "SHUTDOWN",
	Failed:        "FAILED",
}

// String returns the canonical upper-case name of the state.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Terminal reports whether no further transition can leave the state.
func (s State) Terminal() bool {
	return s == Shutdown || s == Failed
}

// legalTransitions is the forward edge set of the lifecycle graph.
// ShuttingDown is additionally reachable from every non-terminal state and
// Failed from every state except Shutdown; both are handled in CanTransition
// rather than enumerated here.
var legalTransitions = map[State]State{
	Uninitialized: Initialized,
	Initialized:   Starting,
	Starting:      Started,
	Started:       Stopping,
	Stopping:      Stopped,
	ShuttingDown:  Shutdown,
}

// CanTransition reports whether moving from one state to another is legal.
func CanTransition(from, to State) bool {
	switch to {
	case Failed:
		return from != Shutdown
	case ShuttingDown:
		return !from.Terminal() && from != ShuttingDown
	default:
		return legalTransitions[from] == to
	}
}

// stateHolder owns the current lifecycle state of one unit. Reads are
// lock-free; transitions take a mutex so that state changes stay
// total-ordered per unit and can be awaited by lifecycle coordination.
type stateHolder struct {
	mu      sync.Mutex
	current *atomic.Int32
}

func newStateHolder() *stateHolder {
	return &stateHolder{current: atomic.NewInt32(int32(Uninitialized))}
}

// State returns the current state.
func (h *stateHolder) State() State {
	return State(h.current.Load())
}

// transition atomically moves to the target state if the move is legal.
// Illegal requests leave the state unchanged and return an error.
func (h *stateHolder) transition(to State) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	from := State(h.current.Load())
	if !CanTransition(from, to) {
		return NewErrIllegalTransition(from, to)
	}
	h.current.Store(int32(to))
	return nil
}

// fail forces the state to Failed. It is a no-op when the unit already
// reached Shutdown.
func (h *stateHolder) fail() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if State(h.current.Load()) != Shutdown {
		h.current.Store(int32(Failed))
	}
}
