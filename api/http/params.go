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

package http

import (
	"github.com/ant0ine/go-json-rest/rest"
	"golang.org/x/exp/slices"

	"github.com/mendersoftware/recordsearch/model"
	"github.com/mendersoftware/recordsearch/utils"
)

const (
	queryParamSort   = "sort"
	queryParamSearch = "q"
)

// PageLimits bounds the page size of list and search requests. Zero
// fields take their value from DefaultPageLimits.
type PageLimits struct {
	PerPageDefault uint64
	PerPageMax     uint64
}

var DefaultPageLimits = PageLimits{
	PerPageDefault: utils.PerPageDefault,
	PerPageMax:     utils.PerPageMax,
}

func (l PageLimits) orDefault() PageLimits {
	if l.PerPageDefault == 0 {
		l.PerPageDefault = DefaultPageLimits.PerPageDefault
	}
	if l.PerPageMax == 0 {
		l.PerPageMax = DefaultPageLimits.PerPageMax
	}
	if l.PerPageDefault > l.PerPageMax {
		l.PerPageDefault = l.PerPageMax
	}
	return l
}

// `sort` paramater value is an attribute name with optional direction (desc or asc)
// separated by colon (:)
//
// eg. `sort=attr_name1` or `sort=attr_name1:desc`
func parseSortParam(r *rest.Request) (*model.SortCriteria, error) {
	sortStr, err := utils.ParseQueryParmStr(r, queryParamSort, false, nil)
	if err != nil {
		return nil, err
	}
	if sortStr == "" {
		return nil, nil
	}
	return model.ParseSortCriteria(sortStr)
}

// Filter paramaters name are attributes name. Value can be prefixed
// with an operator (`eq`, `ne`, `gt`, `contains`...), separated from value
// by colon (:). The operator defaults to `eq`.
//
// eg. `attr_name1=value1` or `attr_name1=gte:value1`
func parseFilterParams(r *rest.Request) []model.FilterPredicate {
	knownParams := []string{utils.PageName, utils.PerPageName, queryParamSort, queryParamSearch}
	query := r.URL.Query()

	names := make([]string, 0, len(query))
	for name := range query {
		if !slices.Contains(knownParams, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	filters := make([]model.FilterPredicate, 0, len(names))
	for _, name := range names {
		for _, valueStr := range query[name] {
			filters = append(filters, model.ParseFilterPredicate(name, valueStr))
		}
	}
	return filters
}

// parseSearchParams reads a list request from the query string.
func parseSearchParams(r *rest.Request, limits PageLimits) (model.SearchParams, error) {
	page, perPage, err := utils.ParsePaginationLimits(r, limits.PerPageDefault, limits.PerPageMax)
	if err != nil {
		return model.SearchParams{}, err
	}

	sort, err := parseSortParam(r)
	if err != nil {
		return model.SearchParams{}, err
	}

	params := model.SearchParams{
		Page:       int(page),
		PerPage:    int(perPage),
		Filters:    parseFilterParams(r),
		SearchTerm: r.URL.Query().Get(queryParamSearch),
		Sort:       sort,
	}
	if err := params.Validate(); err != nil {
		return model.SearchParams{}, err
	}
	return params, nil
}
