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
	"reflect"

	"github.com/robokit-io/robokit/internal/syncmap"
)

// entry erases a codec's payload type so heterogeneous codecs can share
// one registry.
type entry struct {
	payloadType reflect.Type
	encode      func(value any) (string, error)
	decode      func(text string) (any, error)
}

// Registry maps type tags to codecs. A Registry is owned by whoever
// constructs it and passed by reference to collaborators; there is no
// process-wide ambient registry. Safe for concurrent use.
type Registry struct {
	codecs *syncmap.SyncMap[string, entry]
}

// NewRegistry creates an empty codec Registry.
func NewRegistry() *Registry {
	return &Registry{
		codecs: syncmap.New[string, entry](),
	}
}

// NewDefaultRegistry creates a Registry preloaded with the built-in codecs:
// tag "simple" for SimpleCommand payloads and tag "text" for plain strings.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	Register[SimpleCommand](registry, TagSimpleCommand, SimpleCommandCodec{})
	Register[string](registry, TagText, StringCodec{})
	return registry
}

// Register binds a codec to a type tag. Registering the same tag twice
// overwrites the previous codec.
func Register[T any](r *Registry, tag string, codec Codec[T]) {
	r.codecs.Set(tag, entry{
		payloadType: reflect.TypeOf((*T)(nil)).Elem(),
		encode: func(value any) (string, error) {
			typed, ok := value.(T)
			if !ok {
				return "", NewErrInvalidPayload(NewErrUnregisteredCodec(tag))
			}
			return codec.Encode(typed)
		},
		decode: func(text string) (any, error) {
			return codec.Decode(text)
		},
	})
}

// Tags returns the tags currently registered, in no particular order.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, r.codecs.Len())
	r.codecs.Range(func(tag string, _ entry) {
		tags = append(tags, tag)
	})
	return tags
}

// TagOf returns the tag whose codec handles the given value's type.
// Remote senders use this to stamp outgoing requests without the caller
// having to name the tag explicitly.
func (r *Registry) TagOf(value any) (string, bool) {
	payloadType := reflect.TypeOf(value)
	found := ""
	r.codecs.Range(func(tag string, e entry) {
		if e.payloadType == payloadType {
			found = tag
		}
	})
	return found, found != ""
}

// Contains reports whether a codec is registered for the given tag.
func (r *Registry) Contains(tag string) bool {
	_, ok := r.codecs.Get(tag)
	return ok
}

// Encode renders the value through the codec registered for tag.
// It fails with ErrUnregisteredCodec when the tag is unknown and with
// ErrInvalidPayload when the value does not match the codec's payload type.
func (r *Registry) Encode(tag string, value any) (string, error) {
	e, ok := r.codecs.Get(tag)
	if !ok {
		return "", NewErrUnregisteredCodec(tag)
	}
	return e.encode(value)
}

// Decode parses wire text through the codec registered for tag.
// It fails with ErrUnregisteredCodec when the tag is unknown.
func (r *Registry) Decode(tag string, text string) (any, error) {
	e, ok := r.codecs.Get(tag)
	if !ok {
		return nil, NewErrUnregisteredCodec(tag)
	}
	return e.decode(text)
}
