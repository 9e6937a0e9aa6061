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
	"strings"
	"time"

	"github.com/google/uuid"
)

// Attribute describes a record field independently of the record type:
// the name callers use, the column (or document key) stores use and the
// field's semantic type.
type Attribute struct {
	Name       string
	Column     string
	Type       FieldType
	Searchable bool
}

// Field is an Attribute together with the accessor reading it from a
// record of type T.
type Field[T any] struct {
	Attribute
	Get func(T) Value
}

// FieldOption customizes a field while it is being registered.
type FieldOption func(*Attribute)

// Column sets the storage name of the field. By default it is the
// field name in lower case.
func Column(name string) FieldOption {
	return func(a *Attribute) {
		a.Column = name
	}
}

// Searchable includes the field in free-text search.
func Searchable() FieldOption {
	return func(a *Attribute) {
		a.Searchable = true
	}
}

// Schema is the table of fields of one record type. It is built once,
// usually in a package-level var, and is read-only afterwards.
type Schema[T any] struct {
	name   string
	key    string
	fields map[string]*Field[T]
	order  []*Field[T]
}

func NewSchema[T any](name string) *Schema[T] {
	return &Schema[T]{
		name:   name,
		fields: map[string]*Field[T]{},
	}
}

func (s *Schema[T]) Name() string {
	return s.name
}

// Add registers a field. Names are matched case-insensitively, so
// registering two names differing only in case panics.
func (s *Schema[T]) Add(name string, typ FieldType, get func(T) Value, opts ...FieldOption) *Schema[T] {
	k := strings.ToLower(name)
	if _, dup := s.fields[k]; dup {
		panic(fmt.Sprintf("schema %s: duplicate field %q", s.name, name))
	}
	f := &Field[T]{
		Attribute: Attribute{Name: name, Column: k, Type: typ},
		Get:       get,
	}
	for _, opt := range opts {
		opt(&f.Attribute)
	}
	s.fields[k] = f
	s.order = append(s.order, f)
	return s
}

// Key registers the identifier field of the record; stores use it to
// address single records and to break ties between equal sort keys.
func (s *Schema[T]) Key(name string, get func(T) string, opts ...FieldOption) *Schema[T] {
	s.Add(name, TypeID, func(rec T) Value { return ID(get(rec)) }, opts...)
	s.key = strings.ToLower(name)
	return s
}

func (s *Schema[T]) String(name string, get func(T) string, opts ...FieldOption) *Schema[T] {
	return s.Add(name, TypeString, func(rec T) Value { return String(get(rec)) }, opts...)
}

func (s *Schema[T]) ID(name string, get func(T) string, opts ...FieldOption) *Schema[T] {
	return s.Add(name, TypeID, func(rec T) Value { return ID(get(rec)) }, opts...)
}

func (s *Schema[T]) UUID(name string, get func(T) uuid.UUID, opts ...FieldOption) *Schema[T] {
	return s.Add(name, TypeUUID, func(rec T) Value { return UUID(get(rec)) }, opts...)
}

func (s *Schema[T]) Int(name string, get func(T) int64, opts ...FieldOption) *Schema[T] {
	return s.Add(name, TypeNumber, func(rec T) Value { return Int(get(rec)) }, opts...)
}

func (s *Schema[T]) Float(name string, get func(T) float64, opts ...FieldOption) *Schema[T] {
	return s.Add(name, TypeNumber, func(rec T) Value { return Number(get(rec)) }, opts...)
}

func (s *Schema[T]) Bool(name string, get func(T) bool, opts ...FieldOption) *Schema[T] {
	return s.Add(name, TypeBool, func(rec T) Value { return Bool(get(rec)) }, opts...)
}

func (s *Schema[T]) Time(name string, get func(T) time.Time, opts ...FieldOption) *Schema[T] {
	return s.Add(name, TypeTime, func(rec T) Value { return Time(get(rec)) }, opts...)
}

// OptionalTime registers a nullable time field.
func (s *Schema[T]) OptionalTime(name string, get func(T) *time.Time, opts ...FieldOption) *Schema[T] {
	return s.Add(name, TypeTime, func(rec T) Value {
		if tm := get(rec); tm != nil {
			return Time(*tm)
		}
		return Null(TypeTime)
	}, opts...)
}

// Lookup resolves a field by name, ignoring letter case.
func (s *Schema[T]) Lookup(name string) (*Field[T], error) {
	if f, ok := s.fields[strings.ToLower(name)]; ok {
		return f, nil
	}
	return nil, fieldNotFound(name)
}

// KeyField returns the identifier field, or nil if none was registered.
func (s *Schema[T]) KeyField() *Field[T] {
	return s.fields[s.key]
}

// KeyOf returns the identifier of a record.
func (s *Schema[T]) KeyOf(rec T) string {
	if f := s.KeyField(); f != nil {
		return f.Get(rec).Text()
	}
	return ""
}

// Fields returns all fields in registration order.
func (s *Schema[T]) Fields() []*Field[T] {
	return s.order
}

// SearchableFields returns the names of the fields marked Searchable, in
// registration order.
func (s *Schema[T]) SearchableFields() []string {
	names := []string{}
	for _, f := range s.order {
		if f.Searchable {
			names = append(names, f.Name)
		}
	}
	return names
}
