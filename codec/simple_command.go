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

package codec

import (
	"encoding/json"
	"strings"
)

const (
	// TagSimpleCommand is the type tag of the built-in SimpleCommand codec.
	TagSimpleCommand = "simple"
	// TagText is the type tag of the built-in plain string codec.
	TagText = "text"
)

// SimpleCommand is the smallest useful payload: a command value with an
// optional qualifier naming the kind of device it addresses.
type SimpleCommand struct {
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// NewSimpleCommand creates a SimpleCommand without a type qualifier.
func NewSimpleCommand(value string) SimpleCommand {
	return SimpleCommand{Value: value}
}

// SimpleCommandCodec encodes a SimpleCommand as a small JSON object,
// omitting the type field when it is empty.
type SimpleCommandCodec struct{}

var _ Codec[SimpleCommand] = SimpleCommandCodec{}

// Encode implements Codec.
func (SimpleCommandCodec) Encode(command SimpleCommand) (string, error) {
	data, err := json.Marshal(command)
	if err != nil {
		return "", NewErrInvalidPayload(err)
	}
	return string(data), nil
}

// Decode implements Codec. Whitespace around the JSON object is
// tolerated; the field values themselves are never altered, so Decode is
// the exact inverse of Encode.
func (SimpleCommandCodec) Decode(text string) (SimpleCommand, error) {
	var command SimpleCommand
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &command); err != nil {
		return SimpleCommand{}, NewErrInvalidPayload(err)
	}
	return command, nil
}

// StringCodec passes plain UTF-8 strings through unchanged.
type StringCodec struct{}

var _ Codec[string] = StringCodec{}

// Encode implements Codec.
func (StringCodec) Encode(value string) (string, error) {
	return value, nil
}

// Decode implements Codec.
func (StringCodec) Decode(text string) (string, error) {
	return text, nil
}

// JSONCodec encodes any JSON-marshalable payload type. It is the easy way
// to move domain payloads (poses, motor commands, sensor frames) over the
// wire without writing a codec by hand.
type JSONCodec[T any] struct{}

// Encode implements Codec.
func (JSONCodec[T]) Encode(value T) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", NewErrInvalidPayload(err)
	}
	return string(data), nil
}

// Decode implements Codec.
func (JSONCodec[T]) Decode(text string) (T, error) {
	var value T
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return value, NewErrInvalidPayload(err)
	}
	return value, nil
}
