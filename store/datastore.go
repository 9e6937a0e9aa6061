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

package store

import (
	"context"
	"errors"

	"github.com/mendersoftware/recordsearch/query"
)

var (
	// record not found
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when inserting a record whose identifier
	// is already taken.
	ErrConflict = errors.New("record already exists")
)

// DataStore is the persistence of one record type.
type DataStore[T any] interface {
	Ping(ctx context.Context) error

	// Records returns a deferred source over every record in the store;
	// nothing is read until All or Count is called on it.
	Records() query.Source[T]

	// find a record with given `id`, returns ErrNotFound if there is none
	Get(ctx context.Context, id string) (*T, error)

	// insert a new record, the identifier must be set by the caller
	Insert(ctx context.Context, rec *T) error

	// Replace overwrites the record with the given id.
	Replace(ctx context.Context, id string, rec *T) error

	Delete(ctx context.Context, id string) error
}
