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

// Package config carries the typed settings handed to a unit at
// initialization time and the YAML descriptor format used to declare a
// unit graph.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrMissingSetting is returned when a required setting is absent.
var ErrMissingSetting = errors.New("required setting is missing")

// NewErrMissingSetting formats an ErrMissingSetting with the given key.
func NewErrMissingSetting(key string) error {
	return fmt.Errorf("key=(%s) %w", key, ErrMissingSetting)
}

// Config holds the settings of a single unit as loose key/value pairs with
// typed accessors. A nil Config behaves like an empty one.
type Config struct {
	values map[string]any
}

// New creates an empty Config.
func New() *Config {
	return &Config{values: make(map[string]any)}
}

// FromMap creates a Config backed by the given values.
func FromMap(values map[string]any) *Config {
	if values == nil {
		values = make(map[string]any)
	}
	return &Config{values: values}
}

// Set stores a value under the given key and returns the Config for chaining.
func (c *Config) Set(key string, value any) *Config {
	c.values[key] = value
	return c
}

// GetString returns the string value stored under key, or fallback when the
// key is absent.
func (c *Config) GetString(key, fallback string) string {
	if c == nil {
		return fallback
	}
	if v, ok := c.values[key]; ok {
		return fmt.Sprint(v)
	}
	return fallback
}

// GetInt returns the integer value stored under key, or fallback when the
// key is absent or not convertible.
func (c *Config) GetInt(key string, fallback int) int {
	if c == nil {
		return fallback
	}
	switch v := c.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// GetBool returns the boolean value stored under key, or fallback when the
// key is absent or not convertible.
func (c *Config) GetBool(key string, fallback bool) bool {
	if c == nil {
		return fallback
	}
	switch v := c.values[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// GetDuration returns the duration value stored under key, or fallback when
// the key is absent or not parseable. String values use time.ParseDuration
// syntax; numeric values are taken as seconds.
func (c *Config) GetDuration(key string, fallback time.Duration) time.Duration {
	if c == nil {
		return fallback
	}
	switch v := c.values[key].(type) {
	case time.Duration:
		return v
	case int:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// Keys returns the setting names present in the Config, in no particular
// order.
func (c *Config) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, 0, len(c.values))
	for key := range c.values {
		keys = append(keys, key)
	}
	return keys
}

// MustString returns the string value stored under key or an
// ErrMissingSetting when it is absent or empty.
func (c *Config) MustString(key string) (string, error) {
	if c == nil {
		return "", NewErrMissingSetting(key)
	}
	v, ok := c.values[key]
	if !ok {
		return "", NewErrMissingSetting(key)
	}
	s := fmt.Sprint(v)
	if s == "" {
		return "", NewErrMissingSetting(key)
	}
	return s, nil
}
