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

// Package codec provides bidirectional mappings between typed message
// payloads and their UTF-8 wire representation.
//
// Codecs are registered in a Registry under a type tag. The tag travels
// with the wire request and selects the codec on the receiving side.
// Every codec must satisfy the round-trip law: Decode(Encode(v)) == v for
// every value v of its payload type. Codecs are stateless and therefore
// safe for concurrent use.
package codec

import (
	"errors"
	"fmt"
)

// ErrUnregisteredCodec is returned when no codec is registered for a type tag.
var ErrUnregisteredCodec = errors.New("no codec registered for type tag")

// ErrInvalidPayload is returned when a value does not match the codec's
// payload type or cannot be represented on the wire.
var ErrInvalidPayload = errors.New("invalid payload")

// NewErrUnregisteredCodec formats an ErrUnregisteredCodec with the given tag.
func NewErrUnregisteredCodec(tag string) error {
	return fmt.Errorf("tag=(%s) %w", tag, ErrUnregisteredCodec)
}

// NewErrInvalidPayload wraps a base error with ErrInvalidPayload.
func NewErrInvalidPayload(err error) error {
	return errors.Join(ErrInvalidPayload, err)
}

// Codec converts one payload type to and from its UTF-8 wire form.
//
// Implementations must be pure: Encode and Decode are exact inverses and
// hold no mutable state.
type Codec[T any] interface {
	// Encode renders the value as UTF-8 wire text.
	Encode(value T) (string, error)
	// Decode parses the UTF-8 wire text back into a value.
	Decode(text string) (T, error)
}
