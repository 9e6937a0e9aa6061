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
	"math"
	"strings"

	"github.com/mendersoftware/recordsearch/model"
)

// SearchFields supplies the names of the fields a free-text search term
// is matched against.
type SearchFields func() []string

type options struct {
	searchFields SearchFields
}

type Option func(*options)

// WithSearchFields replaces the schema's searchable fields.
func WithSearchFields(fn SearchFields) Option {
	return func(o *options) {
		o.searchFields = fn
	}
}

// Plan is a validated query: a predicate tree over typed values, the
// optional order and the page window.
type Plan struct {
	Where Expr
	Order *Order
	Skip  int
	Take  int
}

// Compile checks the search parameters against the schema and builds
// the plan. Every criterion is validated before anything is returned, so
// a bad criterion fails the whole query.
func Compile[T any](s *Schema[T], p model.SearchParams, opts ...Option) (*Plan, error) {
	o := options{searchFields: s.SearchableFields}
	for _, opt := range opts {
		opt(&o)
	}

	if p.PerPage < 1 {
		return nil, invalidArgument("page size invalid")
	}
	if p.Page < 1 {
		return nil, invalidArgument("page number invalid")
	}

	plan := &Plan{
		Skip: pageOffset(p.Page, p.PerPage),
		Take: p.PerPage,
	}

	if p.Sort != nil {
		if !p.Sort.ValidOrder() {
			return nil, invalidArgument("invalid sort order")
		}
		f, err := s.Lookup(p.Sort.Attribute)
		if err != nil {
			return nil, err
		}
		plan.Order = &Order{Attr: f.Attribute, Desc: p.Sort.Descending()}
	}

	where := And{}
	for _, fp := range p.Filters {
		c, err := compileCriterion(s, fp)
		if err != nil {
			return nil, err
		}
		where = append(where, c)
	}

	if term := strings.TrimSpace(p.SearchTerm); term != "" {
		search := TextSearch{Term: term}
		for _, name := range o.searchFields() {
			f, err := s.Lookup(name)
			if err != nil {
				return nil, err
			}
			if !f.Type.textual() {
				return nil, unsupportedOperator(f.Name, "search", f.Type)
			}
			search.Attrs = append(search.Attrs, f.Attribute)
		}
		where = append(where, search)
	}

	if len(where) > 0 {
		plan.Where = where
	}
	return plan, nil
}

func compileCriterion[T any](s *Schema[T], fp model.FilterPredicate) (Compare, error) {
	f, err := s.Lookup(fp.Attribute)
	if err != nil {
		return Compare{}, err
	}
	op, err := model.ParseOperator(string(fp.Type))
	if err != nil {
		return Compare{}, unsupportedOperator(f.Name, string(fp.Type), f.Type)
	}
	if op.Textual() && !f.Type.textual() {
		return Compare{}, unsupportedOperator(f.Name, string(op), f.Type)
	}
	if op.Ordering() && f.Type == TypeBool {
		return Compare{}, unsupportedOperator(f.Name, string(op), f.Type)
	}

	var v Value
	if op.Textual() {
		// substring operands are never parsed, "c0" is a valid
		// fragment of a uuid
		v = String(fp.Value)
	} else {
		v, err = ParseValue(f.Type, fp.Value)
		if err != nil {
			return Compare{}, coercionFailure(f.Name, f.Type, fp.Value, err)
		}
	}
	return Compare{Attr: f.Attribute, Op: op, Value: v}, nil
}

// pageOffset is the number of records before the page; it saturates at
// math.MaxInt, which is past the end of any source.
func pageOffset(page, perPage int) int {
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}
