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

package wire

import (
	"errors"
	"fmt"
)

// ErrMalformedRequest is returned when the request line or header block
// cannot be parsed.
var ErrMalformedRequest = errors.New("malformed wire request")

// ErrUnsupportedVersion is returned when the request line carries a
// protocol version token outside the accepted set.
var ErrUnsupportedVersion = errors.New("unsupported protocol version")

// ErrTruncatedBody is returned when the stream ends before Content-Length
// body bytes have been seen.
var ErrTruncatedBody = errors.New("request body truncated")

// ErrIncompleteRequest is returned when a parse result is requested before
// the full request has been fed.
var ErrIncompleteRequest = errors.New("request not fully parsed")

// NewErrMalformedRequest wraps a cause with ErrMalformedRequest.
func NewErrMalformedRequest(cause string) error {
	return fmt.Errorf("%w: %s", ErrMalformedRequest, cause)
}

// NewErrUnsupportedVersion formats an ErrUnsupportedVersion with the
// offending token.
func NewErrUnsupportedVersion(version string) error {
	return fmt.Errorf("version=(%s) %w", version, ErrUnsupportedVersion)
}
