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
	"strings"

	"github.com/pkg/errors"

	"github.com/mendersoftware/recordsearch/model"
)

// Predicate is a predicate tree bound to the accessors of a record type.
type Predicate[T any] func(T) bool

// Bind turns a predicate tree into a function over records of type T,
// resolving every attribute through the schema once.
func Bind[T any](s *Schema[T], e Expr) (Predicate[T], error) {
	switch e := e.(type) {
	case nil:
		return func(T) bool { return true }, nil

	case And:
		preds, err := bindAll(s, e)
		if err != nil {
			return nil, err
		}
		return func(rec T) bool {
			for _, p := range preds {
				if !p(rec) {
					return false
				}
			}
			return true
		}, nil

	case Or:
		preds, err := bindAll(s, e)
		if err != nil {
			return nil, err
		}
		return func(rec T) bool {
			for _, p := range preds {
				if p(rec) {
					return true
				}
			}
			return false
		}, nil

	case Compare:
		f, err := s.Lookup(e.Attr.Name)
		if err != nil {
			return nil, err
		}
		test, err := comparison(e)
		if err != nil {
			return nil, err
		}
		get := f.Get
		return func(rec T) bool {
			return test(get(rec))
		}, nil

	case TextSearch:
		gets := make([]func(T) Value, len(e.Attrs))
		for i, a := range e.Attrs {
			f, err := s.Lookup(a.Name)
			if err != nil {
				return nil, err
			}
			gets[i] = f.Get
		}
		term := strings.ToLower(e.Term)
		return func(rec T) bool {
			for _, get := range gets {
				v := get(rec)
				if !v.IsNull() && strings.Contains(strings.ToLower(v.Text()), term) {
					return true
				}
			}
			return false
		}, nil
	}
	return nil, errors.Errorf("unexpected expression %T", e)
}

func bindAll[T any](s *Schema[T], exprs []Expr) ([]Predicate[T], error) {
	preds := make([]Predicate[T], len(exprs))
	for i, child := range exprs {
		p, err := Bind(s, child)
		if err != nil {
			return nil, err
		}
		preds[i] = p
	}
	return preds, nil
}

// comparison returns the test a field value has to pass. A null field
// value only passes NotEqual.
func comparison(c Compare) (func(Value) bool, error) {
	want := c.Value
	switch c.Op {
	case model.OpEqual:
		return func(v Value) bool { return !v.IsNull() && v.Compare(want) == 0 }, nil
	case model.OpNotEqual:
		return func(v Value) bool { return v.IsNull() || v.Compare(want) != 0 }, nil
	case model.OpGreaterThan:
		return func(v Value) bool { return !v.IsNull() && v.Compare(want) > 0 }, nil
	case model.OpGreaterThanOrEqual:
		return func(v Value) bool { return !v.IsNull() && v.Compare(want) >= 0 }, nil
	case model.OpLessThan:
		return func(v Value) bool { return !v.IsNull() && v.Compare(want) < 0 }, nil
	case model.OpLessThanOrEqual:
		return func(v Value) bool { return !v.IsNull() && v.Compare(want) <= 0 }, nil
	case model.OpContains:
		return func(v Value) bool { return !v.IsNull() && strings.Contains(v.Text(), want.Text()) }, nil
	case model.OpStartsWith:
		return func(v Value) bool { return !v.IsNull() && strings.HasPrefix(v.Text(), want.Text()) }, nil
	case model.OpEndsWith:
		return func(v Value) bool { return !v.IsNull() && strings.HasSuffix(v.Text(), want.Text()) }, nil
	}
	return nil, unsupportedOperator(c.Attr.Name, string(c.Op), c.Attr.Type)
}
