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
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ant0ine/go-json-rest/rest"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mendersoftware/go-lib-micro/log"
	u "github.com/mendersoftware/go-lib-micro/rest_utils"
	"github.com/pkg/errors"

	"github.com/mendersoftware/recordsearch/query"
	"github.com/mendersoftware/recordsearch/service"
	"github.com/mendersoftware/recordsearch/utils"
)

// badRequest marks failures caused by the request body.
type badRequest struct {
	error
}

func (e badRequest) Cause() error  { return e.error }
func (e badRequest) Unwrap() error { return e.error }

// RecordHandlers serves one record type under /api/0.1.0/<name>.
type RecordHandlers[T any] struct {
	app    service.App[T]
	schema *query.Schema[T]
	limits PageLimits

	uriRecords string
	uriRecord  string
	uriSearch  string
}

// NewRecordHandlers returns the handlers of the records described by
// schema; the schema name is the collection path.
func NewRecordHandlers[T any](
	app service.App[T],
	schema *query.Schema[T],
	limits PageLimits,
) *RecordHandlers[T] {
	uri := uriRoot + "/" + schema.Name()
	return &RecordHandlers[T]{
		app:        app,
		schema:     schema,
		limits:     limits.orDefault(),
		uriRecords: uri,
		uriRecord:  uri + "/:id",
		uriSearch:  uri + "/search",
	}
}

func (h *RecordHandlers[T]) Name() string {
	return h.schema.Name()
}

func (h *RecordHandlers[T]) HealthCheck(ctx context.Context) error {
	return h.app.HealthCheck(ctx)
}

func (h *RecordHandlers[T]) Routes() []*rest.Route {
	return []*rest.Route{
		rest.Get(h.uriRecords, h.ListHandler),
		rest.Post(h.uriRecords, h.CreateHandler),
		rest.Post(h.uriSearch, h.SearchHandler),
		rest.Get(h.uriRecord, h.GetHandler),
		rest.Put(h.uriRecord, h.UpdateHandler),
		rest.Patch(h.uriRecord, h.PatchHandler),
		rest.Delete(h.uriRecord, h.DeleteHandler),
	}
}

func (h *RecordHandlers[T]) ListHandler(w rest.ResponseWriter, r *rest.Request) {
	ctx := r.Context()

	l := log.FromContext(ctx)

	params, err := parseSearchParams(r, h.limits)
	if err != nil {
		u.RestErrWithLog(w, r, l, err, http.StatusBadRequest)
		return
	}

	recs, totalCount, err := h.app.List(ctx, params)
	if err != nil {
		restErrWithLog(w, r, l, err)
		return
	}

	page, perPage := uint64(params.Page), uint64(params.PerPage)
	hasNext := totalCount > int(page*perPage)
	links := utils.MakePageLinkHdrs(r, page, perPage, hasNext)
	for _, l := range links {
		w.Header().Add(utils.LinkHdr, l)
	}
	// the response writer will ensure the header name is in Kebab-Pascal-Case
	w.Header().Add(utils.TotalCountHdr, strconv.Itoa(totalCount))
	_ = w.WriteJson(recs)
}

func (h *RecordHandlers[T]) SearchHandler(w rest.ResponseWriter, r *rest.Request) {
	ctx := r.Context()

	l := log.FromContext(ctx)

	var dto SearchRequestDto
	if err := r.DecodeJsonPayload(&dto); err != nil {
		u.RestErrWithLog(w, r, l,
			errors.Wrap(err, "failed to decode request body"),
			http.StatusBadRequest)
		return
	}
	if err := dto.Validate(h.limits); err != nil {
		u.RestErrWithLog(w, r, l, err, http.StatusBadRequest)
		return
	}

	recs, totalCount, err := h.app.List(ctx, dto.SearchParams(h.limits))
	if err != nil {
		restErrWithLog(w, r, l, err)
		return
	}

	w.Header().Add(utils.TotalCountHdr, strconv.Itoa(totalCount))
	_ = w.WriteJson(recs)
}

func (h *RecordHandlers[T]) GetHandler(w rest.ResponseWriter, r *rest.Request) {
	ctx := r.Context()

	l := log.FromContext(ctx)

	rec, err := h.app.GetByID(ctx, r.PathParam("id"))
	if err != nil {
		restErrWithLog(w, r, l, err)
		return
	}

	_ = w.WriteJson(rec)
}

func (h *RecordHandlers[T]) CreateHandler(w rest.ResponseWriter, r *rest.Request) {
	ctx := r.Context()

	l := log.FromContext(ctx)

	rec, err := parseRecord[T](r)
	if err != nil {
		u.RestErrWithLog(w, r, l, err, http.StatusBadRequest)
		return
	}

	if err := h.app.Create(ctx, rec); err != nil {
		restErrWithLog(w, r, l, err)
		return
	}

	recurl := utils.BuildURL(r, h.uriRecord, map[string]string{
		":id": h.schema.KeyOf(*rec),
	})
	w.Header().Add("Location", recurl.String())
	w.WriteHeader(http.StatusCreated)
}

func (h *RecordHandlers[T]) UpdateHandler(w rest.ResponseWriter, r *rest.Request) {
	ctx := r.Context()

	l := log.FromContext(ctx)

	rec, err := parseRecord[T](r)
	if err != nil {
		u.RestErrWithLog(w, r, l, err, http.StatusBadRequest)
		return
	}

	if err := h.app.Update(ctx, r.PathParam("id"), rec); err != nil {
		restErrWithLog(w, r, l, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PatchHandler merges the JSON object in the body into the stored record.
// Attributes missing from the body keep their values.
func (h *RecordHandlers[T]) PatchHandler(w rest.ResponseWriter, r *rest.Request) {
	ctx := r.Context()

	l := log.FromContext(ctx)

	var patch json.RawMessage
	if err := r.DecodeJsonPayload(&patch); err != nil {
		u.RestErrWithLog(w, r, l,
			errors.Wrap(err, "failed to decode request body"),
			http.StatusBadRequest)
		return
	}

	rec, err := h.app.Patch(ctx, r.PathParam("id"), func(rec *T) error {
		if err := json.Unmarshal(patch, rec); err != nil {
			return badRequest{errors.Wrap(err, "failed to apply patch")}
		}
		if err := validation.Validate(rec); err != nil {
			return badRequest{err}
		}
		return nil
	})
	if err != nil {
		var br badRequest
		if errors.As(err, &br) {
			u.RestErrWithLog(w, r, l, br.error, http.StatusBadRequest)
			return
		}
		restErrWithLog(w, r, l, err)
		return
	}

	_ = w.WriteJson(rec)
}

func (h *RecordHandlers[T]) DeleteHandler(w rest.ResponseWriter, r *rest.Request) {
	ctx := r.Context()

	l := log.FromContext(ctx)

	if err := h.app.Delete(ctx, r.PathParam("id")); err != nil {
		restErrWithLog(w, r, l, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseRecord[T any](r *rest.Request) (*T, error) {
	rec := new(T)

	//decode body
	err := r.DecodeJsonPayload(rec)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode request body")
	}

	if err := validation.Validate(rec); err != nil {
		return nil, err
	}
	return rec, nil
}
