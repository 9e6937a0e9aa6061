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

package main

import (
	"bytes"
	"context"
	"flag"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"

	"github.com/mendersoftware/recordsearch/client/records"
	"github.com/mendersoftware/recordsearch/entity"
	"github.com/mendersoftware/recordsearch/model"
)

func queryContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("query", flag.ContinueOnError)
	set.Int("page", model.PageDefault, "")
	set.Int("per-page", model.PerPageDefault, "")
	set.String("search", "", "")
	set.String("sort", "", "")
	filters := &cli.StringSlice{}
	set.Var(filters, "filter", "")
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestQueryParams(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		args []string

		params model.SearchParams
		err    string
	}{
		"defaults": {
			params: model.SearchParams{
				Page:    1,
				PerPage: 20,
				Filters: []model.FilterPredicate{},
			},
		},
		"everything": {
			args: []string{
				"-page", "2", "-per-page", "5", "-search", "moe",
				"-sort", "hours:desc",
				"-filter", "subject=Math", "-filter", "hours=gte:10",
			},
			params: model.SearchParams{
				Page:    2,
				PerPage: 5,
				Filters: []model.FilterPredicate{
					{Attribute: "subject", Type: model.OpEqual, Value: "Math"},
					{Attribute: "hours", Type: model.OpGreaterThanOrEqual, Value: "10"},
				},
				SearchTerm: "moe",
				Sort:       &model.SortCriteria{Attribute: "hours", Order: "desc"},
			},
		},
		"filter without value": {
			args: []string{"-filter", "subject"},
			err:  `invalid filter "subject"`,
		},
		"bad sort": {
			args: []string{"-sort", "hours:sideways"},
			err:  "invalid sort order",
		},
	}

	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			params, err := queryParams(queryContext(t, tc.args...))
			if tc.err != "" {
				assert.EqualError(t, err, tc.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.params, params)
		})
	}
}

func TestRunQuery(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		params model.SearchParams
		format string

		contains    []string
		notContains []string
		err         string
	}{
		"table": {
			params: model.SearchParams{Page: 1, PerPage: 10, SearchTerm: "smith",
				Sort: &model.SortCriteria{Attribute: "hours", Order: "desc"}},
			format:      outputTable,
			contains:    []string{"FirstName", "Carl", "Alice", "2 of 2 teachers"},
			notContains: []string{"Bob"},
		},
		"yaml": {
			params: model.SearchParams{Page: 1, PerPage: 1,
				Filters: []model.FilterPredicate{
					{Attribute: "active", Type: model.OpEqual, Value: "false"},
				}},
			format:   outputYAML,
			contains: []string{"first_name: Bob", "1 of 1 teachers"},
		},
		"query error": {
			params: model.SearchParams{Page: 1, PerPage: 1,
				Filters: []model.FilterPredicate{
					{Attribute: "salary", Type: model.OpEqual, Value: "1"},
				}},
			format: outputTable,
			err:    `field "salary" not found`,
		},
		"unknown format": {
			params: model.SearchParams{Page: 1, PerPage: 1},
			format: "csv",
			err:    `unknown output format "csv"`,
		},
	}

	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			f, err := os.Open("testdata/teachers.yaml")
			require.NoError(t, err)
			defer f.Close()

			var out bytes.Buffer
			err = runQuery(context.Background(), &out, entity.TeacherSchema,
				fileSearch(entity.TeacherSchema, f), tc.params, tc.format)
			if tc.err != "" {
				assert.EqualError(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			for _, s := range tc.contains {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tc.notContains {
				assert.NotContains(t, out.String(), s)
			}
		})
	}
}

func TestRunQueryRemote(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := testConfig(map[string]interface{}{SettingFixtures: "testdata"})
	ds, err := SetupDataStores(ctx, c)
	require.NoError(t, err)
	defer ds.Close(ctx)

	handler, err := NewHandler(c, ds, prometheus.NewRegistry())
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	defer srv.Close()

	var out bytes.Buffer
	err = runQuery(context.Background(), &out, entity.TeacherSchema,
		searcher(entity.TeacherSchema, records.NewClient(srv.URL), nil),
		model.SearchParams{Page: 1, PerPage: 1, SearchTerm: "smith",
			Sort: &model.SortCriteria{Attribute: "firstName", Order: "asc"}},
		outputTable)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Alice")
	assert.NotContains(t, out.String(), "Carl")
	assert.Contains(t, out.String(), "1 of 2 teachers")

	out.Reset()
	err = runQuery(context.Background(), &out, entity.TeacherSchema,
		searcher(entity.TeacherSchema, records.NewClient(srv.URL), nil),
		model.SearchParams{Page: 1, PerPage: 1,
			Sort: &model.SortCriteria{Attribute: "salary", Order: "asc"}},
		outputTable)
	assert.EqualError(t, err, `field "salary" not found`)
}
