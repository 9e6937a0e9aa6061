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
	"context"
	"net/http"
	"strings"

	"github.com/ant0ine/go-json-rest/rest"
	"github.com/mendersoftware/go-lib-micro/log"
	u "github.com/mendersoftware/go-lib-micro/rest_utils"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/mendersoftware/recordsearch/query"
	"github.com/mendersoftware/recordsearch/store"
)

const (
	uriRoot   = "/api/0.1.0"
	uriHealth = uriRoot + "/health"

	hdrAllow = "Allow"
)

// ApiHandler builds the rest.App serving the API.
type ApiHandler interface {
	GetApp() (rest.App, error)
}

// Resource is the set of routes serving one record type.
type Resource interface {
	Name() string
	Routes() []*rest.Route
	HealthCheck(ctx context.Context) error
}

type OptionsGenerator func(methods []string) rest.HandlerFunc

// AllowHeaderOptionsGenerator answers OPTIONS requests with the list of
// methods supported by the route.
func AllowHeaderOptionsGenerator(methods []string) rest.HandlerFunc {
	allowed := append([]string{http.MethodOptions}, methods...)
	slices.Sort(allowed)
	return func(w rest.ResponseWriter, r *rest.Request) {
		w.Header().Set(hdrAllow, strings.Join(allowed, ", "))
		w.WriteHeader(http.StatusOK)
	}
}

// AutogenOptionsRoutes adds an OPTIONS route for every path which has no
// OPTIONS handler of its own.
func AutogenOptionsRoutes(routes []*rest.Route, gen OptionsGenerator) []*rest.Route {
	paths := []string{}
	methods := map[string][]string{}
	for _, route := range routes {
		if _, ok := methods[route.PathExp]; !ok {
			paths = append(paths, route.PathExp)
		}
		methods[route.PathExp] = append(methods[route.PathExp], route.HttpMethod)
	}

	options := make([]*rest.Route, 0, len(paths))
	for _, path := range paths {
		if slices.Contains(methods[path], http.MethodOptions) {
			continue
		}
		options = append(options, rest.Options(path, gen(methods[path])))
	}
	return append(routes, options...)
}

type apiHandlers struct {
	resources []Resource
}

// NewApiHandlers serves the routes of every resource and a health check
// covering all of them.
func NewApiHandlers(resources ...Resource) ApiHandler {
	return &apiHandlers{
		resources: resources,
	}
}

func (a *apiHandlers) GetApp() (rest.App, error) {
	routes := []*rest.Route{
		rest.Get(uriHealth, a.HealthCheckHandler),
	}
	for _, res := range a.resources {
		routes = append(routes, res.Routes()...)
	}

	app, err := rest.MakeRouter(
		// augment routes with OPTIONS handler
		AutogenOptionsRoutes(routes, AllowHeaderOptionsGenerator)...,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create router")
	}

	return app, nil
}

func (a *apiHandlers) HealthCheckHandler(w rest.ResponseWriter, r *rest.Request) {
	ctx := r.Context()

	l := log.FromContext(ctx)

	for _, res := range a.resources {
		if err := res.HealthCheck(ctx); err != nil {
			u.RestErrWithLog(w, r, l,
				errors.Wrapf(err, "%s unavailable", res.Name()),
				http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// restErrWithLog picks the status code matching the failure.
func restErrWithLog(w rest.ResponseWriter, r *rest.Request, l *log.Logger, err error) {
	switch {
	case query.IsQueryError(err):
		u.RestErrWithLog(w, r, l, err, http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		u.RestErrWithLog(w, r, l, err, http.StatusNotFound)
	case errors.Is(err, store.ErrConflict):
		u.RestErrWithLog(w, r, l, err, http.StatusConflict)
	default:
		u.RestErrWithLogInternal(w, r, l, err)
	}
}
