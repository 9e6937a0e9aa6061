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
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mendersoftware/go-lib-micro/identity"

	"github.com/mendersoftware/recordsearch/entity"
	"github.com/mendersoftware/recordsearch/model"
	"github.com/mendersoftware/recordsearch/query"
	"github.com/mendersoftware/recordsearch/store"
)

// testDataStore connects to the server named by TEST_MONGO_URL in a
// database private to the test.
func testDataStore(t *testing.T) *DataStoreMongo[entity.Teacher] {
	if testing.Short() {
		t.Skip("skipping mongo integration test in short mode")
	}
	url := os.Getenv("TEST_MONGO_URL")
	if url == "" {
		t.Skip("TEST_MONGO_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := NewClient(ctx, DataStoreMongoConfig{ConnectionString: url})
	require.NoError(t, err)

	dbName := "test_" + uuid.NewString()[:8]
	t.Cleanup(func() {
		_ = client.Database(dbName).Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return NewDataStoreMongo(client, entity.TeacherSchema, dbName)
}

func TestDatabaseFromContext(t *testing.T) {
	t.Parallel()

	// no server is contacted before the first operation
	client, err := mongo.Connect(context.Background(),
		options.Client().ApplyURI("mongodb://localhost:27017"))
	require.NoError(t, err)
	defer func() { _ = client.Disconnect(context.Background()) }()

	ds := NewDataStoreMongo(client, entity.TeacherSchema, "")

	testCases := map[string]struct {
		ctx context.Context
		db  string
	}{
		"no identity": {
			ctx: context.Background(),
			db:  DbName,
		},
		"tenant": {
			ctx: identity.WithContext(context.Background(),
				&identity.Identity{Tenant: "acme"}),
			db: DbName + "-acme",
		},
	}

	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.db, ds.database(tc.ctx).Name())
			assert.Equal(t, tc.db, ds.collection(tc.ctx).Database().Name())
		})
	}
}

func TestMongoCRUD(t *testing.T) {
	ds := testDataStore(t)
	ctx := context.Background()

	require.NoError(t, ds.Ping(ctx))

	rec := &entity.Teacher{ID: "t1", FirstName: "Alice", LastName: "Hansen",
		HiredAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, ds.Insert(ctx, rec))
	assert.ErrorIs(t, ds.Insert(ctx, rec), store.ErrConflict)

	got, err := ds.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.FirstName)

	rec.FirstName = "Alicia"
	require.NoError(t, ds.Replace(ctx, "t1", rec))
	assert.ErrorIs(t, ds.Replace(ctx, "nope", rec), store.ErrNotFound)

	got, err = ds.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.FirstName)

	require.NoError(t, ds.Delete(ctx, "t1"))
	assert.ErrorIs(t, ds.Delete(ctx, "t1"), store.ErrNotFound)
	_, err = ds.Get(ctx, "t1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMongoSearch(t *testing.T) {
	ds := testDataStore(t)
	ctx := context.Background()

	for _, rec := range []entity.Teacher{
		{ID: "1", FirstName: "Alice", Subject: "Math", Hours: 30},
		{ID: "2", FirstName: "Bob", Subject: "History", Hours: 25},
		{ID: "3", FirstName: "Carl", Subject: "Math", Hours: 25},
		{ID: "4", FirstName: "Dora", Subject: "Music", Hours: 10},
	} {
		rec := rec
		require.NoError(t, ds.Insert(ctx, &rec))
	}

	testCases := map[string]struct {
		params model.SearchParams
		ids    []string
		total  int
	}{
		"equal": {
			params: model.SearchParams{Page: 1, PerPage: 10,
				Filters: []model.FilterPredicate{
					{Attribute: "subject", Type: "eq", Value: "Math"},
				}},
			ids:   []string{"1", "3"},
			total: 2,
		},
		"sorted descending with key tie-break": {
			params: model.SearchParams{Page: 1, PerPage: 3,
				Sort: &model.SortCriteria{Attribute: "hours", Order: "desc"}},
			ids:   []string{"1", "2", "3"},
			total: 4,
		},
		"search is case insensitive": {
			params: model.SearchParams{Page: 1, PerPage: 10, SearchTerm: "MU"},
			ids:    []string{"4"},
			total:  1,
		},
		"second page": {
			params: model.SearchParams{Page: 2, PerPage: 2,
				Sort: &model.SortCriteria{Attribute: "firstName", Order: "asc"}},
			ids:   []string{"3", "4"},
			total: 4,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			res, total, err := query.Search(ctx, ds.Records(), entity.TeacherSchema, tc.params)
			require.NoError(t, err)
			ids := []string{}
			for _, r := range res {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tc.ids, ids)
			assert.Equal(t, tc.total, total)
		})
	}
}
