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

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UnitDescriptor declares a single unit in a runtime descriptor file.
type UnitDescriptor struct {
	// ID is the stable unit identifier, unique within the runtime.
	ID string `yaml:"id"`
	// Type names the registered unit constructor to instantiate.
	Type string `yaml:"type"`
	// Settings carries the unit-specific configuration values.
	Settings map[string]any `yaml:"settings"`
}

// Descriptor declares the unit graph of one runtime.
type Descriptor struct {
	// Name is the logical runtime name.
	Name string `yaml:"name"`
	// Units lists the units to register, in registration order.
	Units []UnitDescriptor `yaml:"units"`
}

// Config returns the unit's settings as a Config.
func (u UnitDescriptor) Config() *Config {
	return FromMap(u.Settings)
}

// Parse decodes a YAML runtime descriptor.
func Parse(data []byte) (*Descriptor, error) {
	descriptor := new(Descriptor)
	if err := yaml.Unmarshal(data, descriptor); err != nil {
		return nil, fmt.Errorf("parsing descriptor: %w", err)
	}
	for i, u := range descriptor.Units {
		if u.ID == "" {
			return nil, fmt.Errorf("unit %d: %w", i, NewErrMissingSetting("id"))
		}
	}
	return descriptor, nil
}

// Load reads and decodes a YAML runtime descriptor from a file.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor %s: %w", path, err)
	}
	return Parse(data)
}
