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

package validation

import (
	"errors"
	"regexp"
)

type booleanValidator struct {
	isTrue  bool
	message string
}

var _ Validator = booleanValidator{}

func (b booleanValidator) Validate() error {
	if !b.isTrue {
		return errors.New(b.message)
	}
	return nil
}

// EmptyStringValidator validates that a named field is not empty.
type EmptyStringValidator struct {
	fieldName  string
	fieldValue string
}

var _ Validator = (*EmptyStringValidator)(nil)

// NewEmptyStringValidator creates an instance of EmptyStringValidator.
func NewEmptyStringValidator(fieldName, fieldValue string) *EmptyStringValidator {
	return &EmptyStringValidator{fieldName: fieldName, fieldValue: fieldValue}
}

// Validate implements validation.Validator.
func (x *EmptyStringValidator) Validate() error {
	if x.fieldValue == "" {
		return errors.New("the [" + x.fieldName + "] is required")
	}
	return nil
}

// idPattern matches word characters plus non-leading '-' or '_'.
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-_]*$`)

// IDValidator validates a unit identifier.
type IDValidator struct {
	id        string
	customErr error
}

var _ Validator = (*IDValidator)(nil)

// NewIDValidator creates an instance of IDValidator. When the id is invalid,
// Validate returns customErr if supplied.
func NewIDValidator(id string, customErr error) *IDValidator {
	return &IDValidator{id: id, customErr: customErr}
}

// Validate implements validation.Validator.
func (x *IDValidator) Validate() error {
	if !idPattern.MatchString(x.id) {
		if x.customErr != nil {
			return x.customErr
		}
		return errors.New("invalid identifier")
	}
	return nil
}
