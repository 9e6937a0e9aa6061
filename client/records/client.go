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

// Package records is a client of the record search HTTP API.
package records

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/mendersoftware/go-lib-micro/requestid"
	"github.com/mendersoftware/go-lib-micro/rest_utils"

	"github.com/mendersoftware/recordsearch/model"
)

const (
	SearchURI = "/api/0.1.0/:name/search"
	HealthURI = "/api/0.1.0/health"

	totalCountHdr = "X-Total-Count"
)

const (
	defaultTimeout = time.Duration(5) * time.Second
)

// Client searches the records served by a remote instance.
type Client interface {
	CheckHealth(ctx context.Context) error
	// Search decodes one page of the named records into out and returns
	// the number of matching records on all pages.
	Search(ctx context.Context, name string, p model.SearchParams, out interface{}) (int, error)
}

type ClientOptions struct {
	Client *http.Client
}

// NewClient returns a new record search client
func NewClient(url string, opts ...ClientOptions) Client {
	var clientOpts = ClientOptions{
		Client: &http.Client{},
	}
	for _, opt := range opts {
		if opt.Client != nil {
			clientOpts.Client = opt.Client
		}
	}

	return &client{
		url:    strings.TrimSuffix(url, "/"),
		client: *clientOpts.Client,
	}
}

type client struct {
	url    string
	client http.Client
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok {
		return context.WithTimeout(ctx, defaultTimeout)
	}
	return ctx, func() {}
}

// apiError returns the error body of rsp, or a generic error naming the
// status when the body can not be decoded.
func apiError(rsp *http.Response, what string) error {
	var apiErr rest_utils.ApiError
	if err := json.NewDecoder(rsp.Body).Decode(&apiErr); err != nil {
		return errors.Errorf("%s HTTP error: %s", what, rsp.Status)
	}
	return &apiErr
}

func (c *client) Search(
	ctx context.Context,
	name string,
	p model.SearchParams,
	out interface{},
) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	payload, err := json.Marshal(p)
	if err != nil {
		return -1, errors.Wrap(err, "records: failed to encode search parameters")
	}
	req, err := http.NewRequestWithContext(ctx,
		http.MethodPost,
		c.url+strings.Replace(SearchURI, ":name", name, 1),
		bytes.NewReader(payload),
	)
	if err != nil {
		return -1, errors.Wrap(err, "records: error preparing HTTP request")
	}
	req.Header.Set("Content-Type", "application/json")
	if reqID := requestid.FromContext(ctx); reqID != "" {
		req.Header.Set(requestid.RequestIdHeader, reqID)
	}

	rsp, err := c.client.Do(req)
	if err != nil {
		return -1, errors.Wrapf(err, "records: failed to search %s", name)
	}
	defer rsp.Body.Close()

	if rsp.StatusCode != http.StatusOK {
		return -1, apiError(rsp, "search")
	}
	total, err := strconv.Atoi(rsp.Header.Get(totalCountHdr))
	if err != nil {
		return -1, errors.Errorf("records: invalid %s header", totalCountHdr)
	}
	if err := json.NewDecoder(rsp.Body).Decode(out); err != nil {
		return -1, errors.Wrap(err, "records: error parsing search result")
	}
	return total, nil
}

func (c *client) CheckHealth(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+HealthURI, nil)
	if err != nil {
		return errors.Wrap(err, "records: error preparing HTTP request")
	}

	rsp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer rsp.Body.Close()

	if rsp.StatusCode >= http.StatusOK && rsp.StatusCode < 300 {
		return nil
	}
	return apiError(rsp, "health check")
}
