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
	"context"

	"golang.org/x/exp/slices"
)

// Source is a deferred, queryable sequence of records. Every method but
// All and Count returns a new Source; nothing is evaluated until one of
// those two is called, which lets a store translate the whole query into
// its native form.
type Source[T any] interface {
	Where(e Expr) Source[T]
	OrderBy(o Order) Source[T]
	Skip(n int) Source[T]
	Take(n int) Source[T]

	// All materializes the records selected by the source.
	All(ctx context.Context) ([]T, error)
	// Count returns the number of records matching the Where
	// expressions, ignoring Skip and Take.
	Count(ctx context.Context) (int, error)
}

// sliceSource evaluates queries against records held in memory.
type sliceSource[T any] struct {
	schema  *Schema[T]
	records []T
	where   []Expr
	order   *Order
	skip    int
	take    int
}

// FromSlice returns a Source over an in-memory slice. The slice is not
// copied and must not be modified while the source is in use.
func FromSlice[T any](s *Schema[T], records []T) Source[T] {
	return &sliceSource[T]{schema: s, records: records, take: -1}
}

func (src *sliceSource[T]) clone() *sliceSource[T] {
	c := *src
	c.where = append([]Expr(nil), src.where...)
	return &c
}

func (src *sliceSource[T]) Where(e Expr) Source[T] {
	c := src.clone()
	if e != nil {
		c.where = append(c.where, e)
	}
	return c
}

func (src *sliceSource[T]) OrderBy(o Order) Source[T] {
	c := src.clone()
	c.order = &o
	return c
}

func (src *sliceSource[T]) Skip(n int) Source[T] {
	c := src.clone()
	if n > 0 {
		c.skip = n
	}
	return c
}

func (src *sliceSource[T]) Take(n int) Source[T] {
	c := src.clone()
	c.take = n
	return c
}

func (src *sliceSource[T]) filtered() ([]T, error) {
	match, err := Bind(src.schema, And(src.where))
	if err != nil {
		return nil, err
	}
	res := []T{}
	for _, rec := range src.records {
		if match(rec) {
			res = append(res, rec)
		}
	}
	return res, nil
}

func (src *sliceSource[T]) Count(ctx context.Context) (int, error) {
	res, err := src.filtered()
	if err != nil {
		return 0, err
	}
	return len(res), nil
}

func (src *sliceSource[T]) All(ctx context.Context) ([]T, error) {
	res, err := src.filtered()
	if err != nil {
		return nil, err
	}

	if o := src.order; o != nil {
		f, err := src.schema.Lookup(o.Attr.Name)
		if err != nil {
			return nil, err
		}
		// stable in both directions: ties keep their filtered order
		slices.SortStableFunc(res, func(a, b T) int {
			c := f.Get(a).Compare(f.Get(b))
			if o.Desc {
				return -c
			}
			return c
		})
	}

	if src.skip >= len(res) {
		return []T{}, nil
	}
	res = res[src.skip:]
	if src.take >= 0 && src.take < len(res) {
		res = res[:src.take]
	}
	return res, nil
}
