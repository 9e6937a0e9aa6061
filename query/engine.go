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

// Package query filters, sorts and pages sequences of records of any type.
//
// A record type is described by a Schema, a table of typed accessors keyed
// by field name. Search parameters are compiled against the schema into a
// Plan: a predicate tree over typed values, an optional order and a page
// window. The plan is then applied to a Source, which is either evaluated
// in memory (FromSlice) or translated into a store's query language.
package query

import (
	"context"

	"github.com/mendersoftware/recordsearch/model"
)

// Filter narrows the source down to the plan's predicate and order,
// without paging.
func Filter[T any](src Source[T], p *Plan) Source[T] {
	if p.Where != nil {
		src = src.Where(p.Where)
	}
	if p.Order != nil {
		src = src.OrderBy(*p.Order)
	}
	return src
}

// Page applies the whole plan to the source without evaluating it.
func Page[T any](src Source[T], p *Plan) Source[T] {
	return Filter(src, p).Skip(p.Skip).Take(p.Take)
}

// Query returns the page of records from src selected by the search
// parameters.
func Query[T any](
	ctx context.Context,
	src Source[T],
	s *Schema[T],
	p model.SearchParams,
	opts ...Option,
) ([]T, error) {
	plan, err := Compile(s, p, opts...)
	if err != nil {
		return nil, err
	}
	return Page(src, plan).All(ctx)
}

// Search works like Query and also returns the number of records
// matching the filters and search term across all pages.
func Search[T any](
	ctx context.Context,
	src Source[T],
	s *Schema[T],
	p model.SearchParams,
	opts ...Option,
) ([]T, int, error) {
	plan, err := Compile(s, p, opts...)
	if err != nil {
		return nil, -1, err
	}
	total, err := Filter(src, plan).Count(ctx)
	if err != nil {
		return nil, -1, err
	}
	if plan.Skip >= total {
		return []T{}, total, nil
	}
	res, err := Page(src, plan).All(ctx)
	if err != nil {
		return nil, -1, err
	}
	return res, total, nil
}
