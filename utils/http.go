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

package utils

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/ant0ine/go-json-rest/rest"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

const (
	PageName       = "page"
	PerPageName    = "per_page"
	PageMin        = 1
	PageMax        = math.MaxInt32
	PageDefault    = 1
	PerPageMin     = 1
	PerPageMax     = 500
	PerPageDefault = 20

	LinkHdr       = "Link"
	LinkTmpl      = "<%s?%s>; rel=\"%s\""
	LinkPrev      = "prev"
	LinkNext      = "next"
	LinkFirst     = "first"
	TotalCountHdr = "X-Total-Count"
)

func MsgQueryParmInvalid(name string) string {
	return fmt.Sprintf("Can't parse param %s", name)
}

func MsgQueryParmMissing(name string) string {
	return fmt.Sprintf("Missing required param %s", name)
}

func MsgQueryParmLimit(name string) string {
	return fmt.Sprintf("Param %s is out of bounds", name)
}

func MsgQueryParmOneOf(name string, allowed []string) string {
	return fmt.Sprintf("Param %s must be one of %v", name, allowed)
}

// build URL using request 'r' and template, replace path params with
// elements from 'params' using lexical match as in strings.Replace()
func BuildURL(r *rest.Request, template string, params map[string]string) *url.URL {
	url := r.BaseUrl()

	path := template
	for k, v := range params {
		path = strings.Replace(path, k, v, -1)
	}
	url.Path = path

	return url
}

// ParseQueryParmUInt parses an unsigned integer query parameter, checking
// it against [min, max]. A missing optional parameter yields def.
func ParseQueryParmUInt(r *rest.Request, name string, required bool,
	min, max, def uint64) (uint64, error) {
	strVal := r.URL.Query().Get(name)

	if strVal == "" {
		if required {
			return 0, errors.New(MsgQueryParmMissing(name))
		}
		return def, nil
	}

	uintVal, err := strconv.ParseUint(strVal, 10, 64)
	if err != nil {
		return 0, errors.New(MsgQueryParmInvalid(name))
	}

	if uintVal < min || uintVal > max {
		return 0, errors.New(MsgQueryParmLimit(name))
	}

	return uintVal, nil
}

// ParseQueryParmStr returns the query parameter, which must be one of
// allowed unless allowed is empty.
func ParseQueryParmStr(r *rest.Request, name string, required bool,
	allowed []string) (string, error) {
	val := r.URL.Query().Get(name)

	if val == "" {
		if required {
			return "", errors.New(MsgQueryParmMissing(name))
		}
		return "", nil
	}

	if len(allowed) > 0 && !slices.Contains(allowed, val) {
		return "", errors.New(MsgQueryParmOneOf(name, allowed))
	}

	return val, nil
}

// ParsePaginationLimits returns the page number and page size of the
// request; the page size defaults to perPageDef and is at most perPageMax.
func ParsePaginationLimits(r *rest.Request, perPageDef, perPageMax uint64) (uint64, uint64, error) {
	page, err := ParseQueryParmUInt(r, PageName, false, PageMin, PageMax, PageDefault)
	if err != nil {
		return 0, 0, err
	}
	perPage, err := ParseQueryParmUInt(r, PerPageName, false, PerPageMin, perPageMax, perPageDef)
	if err != nil {
		return 0, 0, err
	}
	return page, perPage, nil
}

// MakeLink returns a Link header value pointing at the given page of the
// requested resource; other query parameters are kept.
func MakeLink(link string, r *rest.Request, page, perPage uint64) string {
	q := r.URL.Query()
	q.Set(PageName, strconv.FormatUint(page, 10))
	q.Set(PerPageName, strconv.FormatUint(perPage, 10))

	u := r.BaseUrl()
	u.Path = r.URL.Path
	return fmt.Sprintf(LinkTmpl, u.String(), q.Encode(), link)
}

func MakePageLinkHdrs(r *rest.Request, page, perPage uint64, hasNext bool) []string {
	var links []string

	if page > 1 {
		links = append(links, MakeLink(LinkPrev, r, page-1, perPage))
	}
	if hasNext {
		links = append(links, MakeLink(LinkNext, r, page+1, perPage))
	}
	links = append(links, MakeLink(LinkFirst, r, 1, perPage))
	return links
}
