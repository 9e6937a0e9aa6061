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
	"regexp"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mendersoftware/recordsearch/model"
	"github.com/mendersoftware/recordsearch/query"
)

// matches no document; mongo rejects an empty $or
var matchNothing = bson.D{{Key: "$nor", Value: bson.A{bson.D{}}}}

var mongoOperators = map[model.Operator]string{
	model.OpEqual:              "$eq",
	model.OpNotEqual:           "$ne",
	model.OpGreaterThan:        "$gt",
	model.OpGreaterThanOrEqual: "$gte",
	model.OpLessThan:           "$lt",
	model.OpLessThanOrEqual:    "$lte",
}

// FieldNamer maps an attribute to the document key it is stored under.
type FieldNamer func(query.Attribute) string

// BuildFilter translates a predicate tree into a find filter.
func BuildFilter(e query.Expr, field FieldNamer) (bson.D, error) {
	switch e := e.(type) {
	case nil:
		return bson.D{}, nil

	case query.And:
		if len(e) == 0 {
			return bson.D{}, nil
		}
		parts, err := buildAll(e, field)
		if err != nil {
			return nil, err
		}
		return bson.D{{Key: "$and", Value: parts}}, nil

	case query.Or:
		if len(e) == 0 {
			return matchNothing, nil
		}
		parts, err := buildAll(e, field)
		if err != nil {
			return nil, err
		}
		return bson.D{{Key: "$or", Value: parts}}, nil

	case query.Compare:
		return buildCompare(e, field(e.Attr))

	case query.TextSearch:
		if len(e.Attrs) == 0 {
			return matchNothing, nil
		}
		re := primitive.Regex{Pattern: regexp.QuoteMeta(e.Term), Options: "i"}
		parts := make(bson.A, len(e.Attrs))
		for i, a := range e.Attrs {
			parts[i] = bson.D{{Key: field(a), Value: re}}
		}
		return bson.D{{Key: "$or", Value: parts}}, nil
	}
	return nil, errors.Errorf("unexpected expression %T", e)
}

func buildAll(exprs []query.Expr, field FieldNamer) (bson.A, error) {
	parts := make(bson.A, len(exprs))
	for i, child := range exprs {
		f, err := BuildFilter(child, field)
		if err != nil {
			return nil, err
		}
		parts[i] = f
	}
	return parts, nil
}

func buildCompare(c query.Compare, key string) (bson.D, error) {
	if op, ok := mongoOperators[c.Op]; ok {
		return bson.D{{Key: key, Value: bson.D{{Key: op, Value: c.Value.Native()}}}}, nil
	}
	pattern := regexp.QuoteMeta(c.Value.Text())
	switch c.Op {
	case model.OpContains:
	case model.OpStartsWith:
		pattern = "^" + pattern
	case model.OpEndsWith:
		pattern = pattern + "$"
	default:
		return nil, errors.Errorf("operator %q can not be translated", c.Op)
	}
	return bson.D{{Key: key, Value: primitive.Regex{Pattern: pattern}}}, nil
}

// BuildSort returns the sort document for an order, with the key field
// as a tie-break so that pages never overlap.
func BuildSort(o *query.Order, field FieldNamer, key string) bson.D {
	sort := bson.D{}
	keyDir := 1
	if o != nil {
		dir := 1
		if o.Desc {
			dir = -1
		}
		if k := field(o.Attr); k != key {
			sort = append(sort, bson.E{Key: k, Value: dir})
		} else {
			keyDir = dir
		}
	}
	return append(sort, bson.E{Key: key, Value: keyDir})
}
