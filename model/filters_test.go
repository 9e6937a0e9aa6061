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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestSearchParams(t *testing.T) {
	testCases := map[string]struct {
		params *SearchParams
		err    error
	}{
		"ok, empty": {
			params: &SearchParams{},
		},
		"ok, filters": {
			params: &SearchParams{
				Filters: []FilterPredicate{
					{
						Attribute: "attribute",
						Type:      OpEqual,
						Value:     "value",
					},
					{
						Attribute: "attribute",
						Type:      "$gte",
						Value:     "",
					},
				},
			},
		},
		"ko, filters": {
			params: &SearchParams{
				Filters: []FilterPredicate{
					{
						Type:  OpEqual,
						Value: "value",
					},
				},
			},
			err: errors.New("invalid filter: attribute: cannot be blank."),
		},
		"ko, filter operator": {
			params: &SearchParams{
				Filters: []FilterPredicate{
					{
						Attribute: "attribute",
						Type:      "Like",
						Value:     "value",
					},
				},
			},
			err: errors.New("invalid filter: type: must be a valid filter operator."),
		},
		"ok, sort": {
			params: &SearchParams{
				Sort: &SortCriteria{
					Attribute: "attribute",
					Order:     "DESC",
				},
			},
		},
		"ko, sort": {
			params: &SearchParams{
				Sort: &SortCriteria{
					Order: "asc",
				},
			},
			err: errors.New("invalid sort: attribute: cannot be blank."),
		},
		"ko, sort order": {
			params: &SearchParams{
				Sort: &SortCriteria{
					Attribute: "attribute",
					Order:     "up",
				},
			},
			err: errors.New("invalid sort: order: must be either asc or desc."),
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			err := tc.params.Validate()
			if tc.err != nil {
				assert.EqualError(t, err, tc.err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseOperator(t *testing.T) {
	testCases := map[string]struct {
		in  string
		out Operator
		err bool
	}{
		"canonical":        {in: "GreaterThanOrEqual", out: OpGreaterThanOrEqual},
		"lower case":       {in: "startswith", out: OpStartsWith},
		"short alias":      {in: "ne", out: OpNotEqual},
		"mongo selector":   {in: "$lt", out: OpLessThan},
		"surrounding WS":   {in: " Contains ", out: OpContains},
		"unknown":          {in: "like", err: true},
		"empty":            {in: "", err: true},
		"selector unknown": {in: "$in", err: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			op, err := ParseOperator(tc.in)
			if tc.err {
				assert.ErrorIs(t, err, ErrUnknownOperator)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.out, op)
		})
	}
}

func TestOperatorClasses(t *testing.T) {
	assert.True(t, OpLessThanOrEqual.Ordering())
	assert.False(t, OpEqual.Ordering())
	assert.True(t, OpEndsWith.Textual())
	assert.False(t, OpGreaterThan.Textual())
}

func TestParseFilterPredicate(t *testing.T) {
	testCases := map[string]struct {
		in  string
		out FilterPredicate
	}{
		"plain value": {
			in:  "Math",
			out: FilterPredicate{Attribute: "a", Type: OpEqual, Value: "Math"},
		},
		"operator prefix": {
			in:  "gte:10",
			out: FilterPredicate{Attribute: "a", Type: OpGreaterThanOrEqual, Value: "10"},
		},
		"long operator name": {
			in:  "StartsWith:Mo",
			out: FilterPredicate{Attribute: "a", Type: OpStartsWith, Value: "Mo"},
		},
		"colon in value": {
			in:  "lt:2024-01-01T10:00:00Z",
			out: FilterPredicate{Attribute: "a", Type: OpLessThan, Value: "2024-01-01T10:00:00Z"},
		},
		"prefix is no operator": {
			in:  "10:30",
			out: FilterPredicate{Attribute: "a", Type: OpEqual, Value: "10:30"},
		},
		"empty value": {
			in:  "ne:",
			out: FilterPredicate{Attribute: "a", Type: OpNotEqual, Value: ""},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.out, ParseFilterPredicate("a", tc.in))
		})
	}
}

func TestParseSortCriteria(t *testing.T) {
	testCases := map[string]struct {
		in  string
		out *SortCriteria
		err string
	}{
		"attribute only": {
			in:  "hours",
			out: &SortCriteria{Attribute: "hours", Order: SortOrderAsc},
		},
		"descending": {
			in:  "hours:DESC",
			out: &SortCriteria{Attribute: "hours", Order: "DESC"},
		},
		"bad order": {
			in:  "hours:up",
			err: "invalid sort order",
		},
		"too many parts": {
			in:  "hours:asc:desc",
			err: "invalid sort parameter",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			sort, err := ParseSortCriteria(tc.in)
			if tc.err != "" {
				assert.EqualError(t, err, tc.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.out, sort)
		})
	}
}
