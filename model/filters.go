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

package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
)

const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"

	PageDefault    = 1
	PerPageDefault = 20
)

// SearchParams describes a single list query: structured filters,
// a free-text search term, an optional sort and the page to return.
type SearchParams struct {
	Page       int               `json:"page" yaml:"page"`
	PerPage    int               `json:"per_page" yaml:"per_page"`
	Filters    []FilterPredicate `json:"filters" yaml:"filters"`
	SearchTerm string            `json:"search_term" yaml:"search_term"`
	Sort       *SortCriteria     `json:"sort,omitempty" yaml:"sort,omitempty"`
}

// FilterPredicate is a single criterion; Value is always textual and is
// converted to the attribute's type when the query is compiled.
type FilterPredicate struct {
	Attribute string   `json:"attribute" yaml:"attribute"`
	Type      Operator `json:"type" yaml:"type"`
	Value     string   `json:"value" yaml:"value"`
}

type SortCriteria struct {
	Attribute string `json:"attribute" yaml:"attribute"`
	Order     string `json:"order" yaml:"order"`
}

// Descending reports whether the order is "desc" in any letter case.
func (s SortCriteria) Descending() bool {
	return strings.EqualFold(s.Order, SortOrderDesc)
}

// ValidOrder reports whether the order is one of asc/desc, case-insensitive.
func (s SortCriteria) ValidOrder() bool {
	return strings.EqualFold(s.Order, SortOrderAsc) ||
		strings.EqualFold(s.Order, SortOrderDesc)
}

var errInvalidOperator = validation.NewError(
	"validation_invalid_operator", "must be a valid filter operator")

var errInvalidSortOrder = validation.NewError(
	"validation_invalid_sort_order", "must be either asc or desc")

func validateOperator(v interface{}) error {
	op, _ := v.(Operator)
	if _, err := ParseOperator(string(op)); err != nil {
		return errInvalidOperator
	}
	return nil
}

func validateSortOrder(v interface{}) error {
	order, _ := v.(string)
	if !(SortCriteria{Order: order}).ValidOrder() {
		return errInvalidSortOrder
	}
	return nil
}

// Validate checks the shape of the request. It does not know the record
// type, so attribute names and value types are checked by the query
// compiler against the entity schema.
func (sp SearchParams) Validate() error {
	for _, f := range sp.Filters {
		err := validation.ValidateStruct(&f,
			validation.Field(&f.Attribute, validation.Required),
			validation.Field(&f.Type, validation.Required, validation.By(validateOperator)))
		if err != nil {
			return errors.Wrap(err, "invalid filter")
		}
	}

	if s := sp.Sort; s != nil {
		err := validation.ValidateStruct(s,
			validation.Field(&s.Attribute, validation.Required),
			validation.Field(&s.Order, validation.Required, validation.By(validateSortOrder)))
		if err != nil {
			return errors.Wrap(err, "invalid sort")
		}
	}
	return nil
}

const valueSeparator = ":"

// ParseFilterPredicate reads a criterion on attr written as `[op:]value`.
// The operator defaults to Equal; a prefix which names no operator is
// part of the value.
func ParseFilterPredicate(attr, s string) FilterPredicate {
	fp := FilterPredicate{Attribute: attr, Type: OpEqual, Value: s}
	parts := strings.SplitN(s, valueSeparator, 2)
	if len(parts) == 2 {
		if op, err := ParseOperator(parts[0]); err == nil {
			fp.Type = op
			fp.Value = parts[1]
		}
	}
	return fp
}

// ParseSortCriteria reads a sort written as `attr[:asc|desc]`; the order
// defaults to ascending.
func ParseSortCriteria(s string) (*SortCriteria, error) {
	parts := strings.Split(s, valueSeparator)
	sort := &SortCriteria{Attribute: parts[0], Order: SortOrderAsc}
	switch len(parts) {
	case 1:
	case 2:
		sort.Order = parts[1]
		if !sort.ValidOrder() {
			return nil, errors.New("invalid sort order")
		}
	default:
		return nil, errors.New("invalid sort parameter")
	}
	return sort, nil
}
