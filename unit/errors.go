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
	"errors"
	"fmt"
)

var (
	// ErrInvalidUnitID is returned when a unit identifier contains invalid
	// characters. A valid identifier consists of word characters
	// ([a-zA-Z0-9]) plus non-leading '-' or '_'.
	ErrInvalidUnitID = errors.New("invalid unit identifier, must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-' or '_')")

	// ErrUnitAlreadyExists is returned when registering a unit under an
	// identifier that is already taken.
	ErrUnitAlreadyExists = errors.New("unit already exists")

	// ErrUnitNotFound is returned when no unit is registered under the
	// requested identifier.
	ErrUnitNotFound = errors.New("unit not found")

	// ErrUnitFailed indicates the unit reached the failed state and will
	// not be dispatched to again.
	ErrUnitFailed = errors.New("unit is in failed state")

	// ErrUnitNotReady is returned when a message is sent to a unit that is
	// not in a state eligible to receive it.
	ErrUnitNotReady = errors.New("unit is not ready to receive messages")

	// ErrIllegalTransition is returned when a lifecycle transition is
	// requested from a state that does not permit it. The unit's state is
	// left unchanged.
	ErrIllegalTransition = errors.New("illegal lifecycle transition")

	// ErrConfiguration indicates a required setting was missing or invalid
	// at initialization time. It is fatal to the unit concerned but never
	// to the runtime hosting it.
	ErrConfiguration = errors.New("configuration error")

	// ErrDeliveryFailure is returned when a message could not be handed to
	// its destination: the connection could not be established, the write
	// failed, or the payload could not be encoded.
	ErrDeliveryFailure = errors.New("message delivery failed")

	// ErrSchedulerShutdown is returned when work is submitted to a
	// scheduler that has been shut down. Distinct from ordinary failures so
	// callers can tell "this runtime is gone" from "retry later".
	ErrSchedulerShutdown = errors.New("scheduler is shut down")

	// ErrSchedulerNotSupported is returned when the scheduler is requested
	// from a runtime that does not host one, such as a client view of a
	// remote runtime.
	ErrSchedulerNotSupported = errors.New("scheduler is not supported: scheduling belongs to the hosting process")

	// ErrRuntimeNotStarted indicates the runtime has not been started yet.
	ErrRuntimeNotStarted = errors.New("runtime has not started yet")
)

// NewErrIllegalTransition formats an ErrIllegalTransition with the states involved.
func NewErrIllegalTransition(from, to State) error {
	return fmt.Errorf("from=(%s) to=(%s) %w", from, to, ErrIllegalTransition)
}

// NewErrUnitNotFound formats an ErrUnitNotFound with the given identifier.
func NewErrUnitNotFound(id string) error {
	return fmt.Errorf("unit=(%s) %w", id, ErrUnitNotFound)
}

// NewErrUnitAlreadyExists formats an ErrUnitAlreadyExists with the given identifier.
func NewErrUnitAlreadyExists(id string) error {
	return fmt.Errorf("unit=(%s) %w", id, ErrUnitAlreadyExists)
}

// NewErrConfiguration wraps a base error with ErrConfiguration.
func NewErrConfiguration(err error) error {
	return errors.Join(ErrConfiguration, err)
}

// NewErrDeliveryFailure wraps a base error with ErrDeliveryFailure.
func NewErrDeliveryFailure(err error) error {
	return errors.Join(ErrDeliveryFailure, err)
}

// ErrAttributeNotFound is returned when a reference is asked for an
// attribute its unit does not expose.
var ErrAttributeNotFound = errors.New("attribute not found")

// NewErrAttributeNotFound formats an ErrAttributeNotFound with the given name.
func NewErrAttributeNotFound(name string) error {
	return fmt.Errorf("attribute=(%s) %w", name, ErrAttributeNotFound)
}
