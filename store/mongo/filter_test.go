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

package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mendersoftware/recordsearch/entity"
	"github.com/mendersoftware/recordsearch/model"
	"github.com/mendersoftware/recordsearch/query"
)

func compileTeachers(t *testing.T, p model.SearchParams) *query.Plan {
	plan, err := query.Compile(entity.TeacherSchema, p)
	require.NoError(t, err)
	return plan
}

func TestBuildFilter(t *testing.T) {
	t.Parallel()

	ds := NewDataStoreMongo(nil, entity.TeacherSchema, "")
	hired := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	testCases := map[string]struct {
		params model.SearchParams
		filter bson.D
	}{
		"no conditions": {
			params: model.SearchParams{Page: 1, PerPage: 10},
			filter: bson.D{},
		},
		"comparisons": {
			params: model.SearchParams{
				Page: 1, PerPage: 10,
				Filters: []model.FilterPredicate{
					{Attribute: "hours", Type: "gt", Value: "10"},
					{Attribute: "active", Type: model.OpNotEqual, Value: "false"},
					{Attribute: "hiredAt", Type: "lte", Value: "2020-01-01"},
					{Attribute: "id", Type: "eq", Value: "t1"},
				},
			},
			filter: bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "hours", Value: bson.D{{Key: "$gt", Value: float64(10)}}}},
					bson.D{{Key: "active", Value: bson.D{{Key: "$ne", Value: false}}}},
					bson.D{{Key: "hired_at", Value: bson.D{{Key: "$lte", Value: hired}}}},
					bson.D{{Key: "_id", Value: bson.D{{Key: "$eq", Value: "t1"}}}},
				}}},
			}}},
		},
		"textual operators quote the operand": {
			params: model.SearchParams{
				Page: 1, PerPage: 10,
				Filters: []model.FilterPredicate{
					{Attribute: "email", Type: model.OpContains, Value: "a.b"},
					{Attribute: "firstName", Type: model.OpStartsWith, Value: "Al"},
					{Attribute: "lastName", Type: model.OpEndsWith, Value: "(x)"},
				},
			},
			filter: bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "email", Value: primitive.Regex{Pattern: `a\.b`}}},
					bson.D{{Key: "first_name", Value: primitive.Regex{Pattern: `^Al`}}},
					bson.D{{Key: "last_name", Value: primitive.Regex{Pattern: `\(x\)$`}}},
				}}},
			}}},
		},
		"search term": {
			params: model.SearchParams{Page: 1, PerPage: 10, SearchTerm: " o+ "},
			filter: bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "$or", Value: bson.A{
						bson.D{{Key: "first_name", Value: primitive.Regex{Pattern: `o\+`, Options: "i"}}},
						bson.D{{Key: "last_name", Value: primitive.Regex{Pattern: `o\+`, Options: "i"}}},
						bson.D{{Key: "email", Value: primitive.Regex{Pattern: `o\+`, Options: "i"}}},
						bson.D{{Key: "subject", Value: primitive.Regex{Pattern: `o\+`, Options: "i"}}},
					}}},
				}}},
			}}},
		},
	}

	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			plan := compileTeachers(t, tc.params)
			src := ds.Records()
			if plan.Where != nil {
				src = src.Where(plan.Where)
			}
			filter, err := src.(*source[entity.Teacher]).filter()
			require.NoError(t, err)
			assert.Equal(t, tc.filter, filter)
		})
	}
}

func TestBuildFilterEdgeCases(t *testing.T) {
	t.Parallel()

	field := func(a query.Attribute) string { return a.Column }

	f, err := BuildFilter(query.Or{}, field)
	require.NoError(t, err)
	assert.Equal(t, matchNothing, f)

	f, err = BuildFilter(query.TextSearch{Term: "x"}, field)
	require.NoError(t, err)
	assert.Equal(t, matchNothing, f)

	_, err = BuildFilter(query.Compare{
		Attr: query.Attribute{Column: "c"},
		Op:   model.Operator("Between"),
	}, field)
	assert.EqualError(t, err, `operator "Between" can not be translated`)
}

func TestFindOptions(t *testing.T) {
	t.Parallel()

	ds := NewDataStoreMongo(nil, entity.TeacherSchema, "")
	hours, _ := entity.TeacherSchema.Lookup("hours")
	id := entity.TeacherSchema.KeyField()

	src := ds.Records().
		OrderBy(query.Order{Attr: hours.Attribute, Desc: true}).
		Skip(20).
		Take(10).(*source[entity.Teacher])
	opts := src.findOptions()
	assert.Equal(t, bson.D{{Key: "hours", Value: -1}, {Key: "_id", Value: 1}}, opts.Sort)
	require.NotNil(t, opts.Skip)
	assert.Equal(t, int64(20), *opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(10), *opts.Limit)

	byID := ds.Records().
		OrderBy(query.Order{Attr: id.Attribute, Desc: true}).(*source[entity.Teacher])
	opts = byID.findOptions()
	assert.Equal(t, bson.D{{Key: "_id", Value: -1}}, opts.Sort)
	assert.Nil(t, opts.Skip)
	assert.Nil(t, opts.Limit)

	assert.Equal(t, bson.D{{Key: "_id", Value: 1}},
		ds.Records().(*source[entity.Teacher]).findOptions().Sort)
}
