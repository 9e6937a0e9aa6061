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
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mendersoftware/recordsearch/model"
	"github.com/mendersoftware/recordsearch/utils"
)

// SearchRequestDto is the body of a search request. Page and page size
// may be omitted.
type SearchRequestDto struct {
	Page       int                     `json:"page"`
	PerPage    int                     `json:"per_page"`
	Filters    []model.FilterPredicate `json:"filters"`
	SearchTerm string                  `json:"search_term"`
	Sort       *model.SortCriteria     `json:"sort,omitempty"`
}

// Validate checks the page window against the configured page size limit
// and the criteria against the operator and sort order names.
func (d SearchRequestDto) Validate(limits PageLimits) error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Page, validation.Min(0), validation.Max(utils.PageMax)),
		validation.Field(&d.PerPage, validation.Min(0), validation.Max(int(limits.PerPageMax))),
	)
	if err != nil {
		return err
	}
	return d.SearchParams(limits).Validate()
}

// SearchParams fills in the omitted page window.
func (d SearchRequestDto) SearchParams(limits PageLimits) model.SearchParams {
	p := model.SearchParams{
		Page:       d.Page,
		PerPage:    d.PerPage,
		Filters:    d.Filters,
		SearchTerm: d.SearchTerm,
		Sort:       d.Sort,
	}
	if p.Page == 0 {
		p.Page = model.PageDefault
	}
	if p.PerPage == 0 {
		p.PerPage = int(limits.PerPageDefault)
	}
	return p
}
