// Copyright 2024 Northern.tech AS
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package query

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds. All of them are caused by the caller's input and are never
// worth retrying; match them with errors.Is.
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrFieldNotFound       = errors.New("field not found")
	ErrTypeCoercion        = errors.New("type coercion failure")
	ErrUnsupportedOperator = errors.New("unsupported operator")
)

// Error carries the kind of a query failure together with the field and
// value that caused it.
type Error struct {
	Kind  error
	Field string
	Value string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidArgument(msg string) error {
	return &Error{Kind: ErrInvalidArgument, Msg: msg}
}

func fieldNotFound(name string) error {
	return &Error{
		Kind:  ErrFieldNotFound,
		Field: name,
		Msg:   fmt.Sprintf("field %q not found", name),
	}
}

func coercionFailure(field string, t FieldType, value string, err error) error {
	return &Error{
		Kind:  ErrTypeCoercion,
		Field: field,
		Value: value,
		Msg: fmt.Sprintf("cannot convert %q to %s for field %q",
			value, t, field),
		Err: err,
	}
}

func unsupportedOperator(field string, op string, t FieldType) error {
	return &Error{
		Kind:  ErrUnsupportedOperator,
		Field: field,
		Value: op,
		Msg: fmt.Sprintf("operator %q is not supported for %s field %q",
			op, t, field),
	}
}

// IsQueryError tells whether err, or any error it wraps, was caused by
// invalid search parameters.
func IsQueryError(err error) bool {
	var qe *Error
	return errors.As(err, &qe)
}
