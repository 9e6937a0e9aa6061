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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mendersoftware/recordsearch/model"
)

type item struct {
	Key   string
	Title string
	Qty   int
}

func itemSchema() *Schema[item] {
	return NewSchema[item]("items").
		Key("Key", func(i item) string { return i.Key }, Column("_id")).
		String("Title", func(i item) string { return i.Title }, Searchable()).
		Int("Qty", func(i item) int64 { return int64(i.Qty) }, Column("quantity"))
}

func TestSchemaLookup(t *testing.T) {
	t.Parallel()
	s := itemSchema()

	f, err := s.Lookup("QTY")
	require.NoError(t, err)
	assert.Equal(t, "Qty", f.Name)
	assert.Equal(t, "quantity", f.Column)
	assert.Equal(t, TypeNumber, f.Type)
	assert.Equal(t, 0, f.Get(item{Qty: 3}).Compare(Number(3)))

	f, err = s.Lookup("title")
	require.NoError(t, err)
	assert.Equal(t, "title", f.Column)

	_, err = s.Lookup("price")
	assert.ErrorIs(t, err, ErrFieldNotFound)
	assert.EqualError(t, err, `field "price" not found`)

	assert.Equal(t, "_id", s.KeyField().Column)
	assert.Equal(t, "k1", s.KeyOf(item{Key: "k1"}))
	assert.Equal(t, []string{"Title"}, s.SearchableFields())
	assert.Len(t, s.Fields(), 3)
	assert.Equal(t, "items", s.Name())
}

func TestSchemaWithoutKey(t *testing.T) {
	t.Parallel()
	s := NewSchema[item]("keyless").
		String("Title", func(i item) string { return i.Title })
	assert.Nil(t, s.KeyField())
	assert.Equal(t, "", s.KeyOf(item{Key: "k1"}))
	assert.Empty(t, s.SearchableFields())
}

func TestSchemaDuplicateField(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		itemSchema().String("TITLE", func(i item) string { return i.Title })
	})
}

func TestCompilePlan(t *testing.T) {
	t.Parallel()
	s := itemSchema()

	plan, err := Compile(s, model.SearchParams{
		Page:    3,
		PerPage: 25,
		Filters: []model.FilterPredicate{
			{Attribute: "qty", Type: "gte", Value: "10"},
			{Attribute: "Key", Type: model.OpContains, Value: "abc"},
		},
		SearchTerm: "  lamp ",
		Sort:       &model.SortCriteria{Attribute: "title", Order: "Desc"},
	})
	require.NoError(t, err)

	title, _ := s.Lookup("Title")
	qty, _ := s.Lookup("Qty")
	key := s.KeyField()
	assert.Equal(t, &Plan{
		Skip:  50,
		Take:  25,
		Order: &Order{Attr: title.Attribute, Desc: true},
		Where: And{
			Compare{Attr: qty.Attribute, Op: model.OpGreaterThanOrEqual, Value: Number(10)},
			Compare{Attr: key.Attribute, Op: model.OpContains, Value: String("abc")},
			TextSearch{Attrs: []Attribute{title.Attribute}, Term: "lamp"},
		},
	}, plan)
}

func TestCompileEmpty(t *testing.T) {
	t.Parallel()

	plan, err := Compile(itemSchema(), model.SearchParams{Page: 1, PerPage: 5})
	require.NoError(t, err)
	assert.Nil(t, plan.Where)
	assert.Nil(t, plan.Order)
	assert.Equal(t, 0, plan.Skip)
	assert.Equal(t, 5, plan.Take)
}

func TestBindEmptyOr(t *testing.T) {
	t.Parallel()

	match, err := Bind(itemSchema(), Or{})
	require.NoError(t, err)
	assert.False(t, match(item{}))

	_, err = Bind(itemSchema(), Compare{Attr: Attribute{Name: "price"}, Op: model.OpEqual})
	assert.ErrorIs(t, err, ErrFieldNotFound)
}
