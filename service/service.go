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

package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mendersoftware/recordsearch/model"
	"github.com/mendersoftware/recordsearch/query"
	"github.com/mendersoftware/recordsearch/store"
)

// App is the CRUD service of one record type.
type App[T any] interface {
	HealthCheck(ctx context.Context) error
	GetByID(ctx context.Context, id string) (*T, error)
	List(ctx context.Context, p model.SearchParams) ([]T, int, error)
	Create(ctx context.Context, rec *T) error
	Update(ctx context.Context, id string, rec *T) error
	Patch(ctx context.Context, id string, apply func(*T) error) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Identifiable is implemented by records which accept an identifier
// assigned by the service.
type Identifiable interface {
	SetID(id string)
}

type service[T any] struct {
	db     store.DataStore[T]
	schema *query.Schema[T]
	opts   []query.Option
	newID  func() string
}

// NewService returns the service of the records in db, searched with the
// given query options.
func NewService[T any](db store.DataStore[T], schema *query.Schema[T], opts ...query.Option) App[T] {
	return &service[T]{
		db:     db,
		schema: schema,
		opts:   opts,
		newID:  uuid.NewString,
	}
}

func (s *service[T]) HealthCheck(ctx context.Context) error {
	err := s.db.Ping(ctx)
	if err != nil {
		return errors.Wrap(err, "error reaching data store")
	}
	return nil
}

func (s *service[T]) GetByID(ctx context.Context, id string) (*T, error) {
	rec, err := s.db.Get(ctx, id)
	if err == store.ErrNotFound {
		return nil, err
	} else if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s record", s.schema.Name())
	}
	return rec, nil
}

// List returns one page of the records matching the search parameters
// and the number of matching records on all pages. Errors caused by the
// parameters are returned as they are.
func (s *service[T]) List(ctx context.Context, p model.SearchParams) ([]T, int, error) {
	recs, total, err := query.Search(ctx, s.db.Records(), s.schema, p, s.opts...)
	if err != nil {
		if query.IsQueryError(err) {
			return nil, -1, err
		}
		return nil, -1, errors.Wrapf(err, "failed to fetch %s records", s.schema.Name())
	}
	return recs, total, nil
}

func (s *service[T]) setID(rec *T, id string) error {
	r, ok := interface{}(rec).(Identifiable)
	if !ok {
		return errors.Errorf("%s records can not be assigned an id", s.schema.Name())
	}
	r.SetID(id)
	return nil
}

// Create stores a new record, assigning it a random UUID unless it
// already has an identifier.
func (s *service[T]) Create(ctx context.Context, rec *T) error {
	if rec == nil {
		return errors.New("no record given")
	}
	if s.schema.KeyOf(*rec) == "" {
		if err := s.setID(rec, s.newID()); err != nil {
			return err
		}
	}
	err := s.db.Insert(ctx, rec)
	if err == store.ErrConflict {
		return err
	} else if err != nil {
		return errors.Wrapf(err, "failed to add %s record", s.schema.Name())
	}
	return nil
}

// Update replaces the record with the given id; the identifier of rec is
// overwritten with id.
func (s *service[T]) Update(ctx context.Context, id string, rec *T) error {
	if rec == nil {
		return errors.New("no record given")
	}
	if err := s.setID(rec, id); err != nil {
		return err
	}
	return s.replace(ctx, id, rec)
}

func (s *service[T]) replace(ctx context.Context, id string, rec *T) error {
	err := s.db.Replace(ctx, id, rec)
	if err == store.ErrNotFound {
		return err
	} else if err != nil {
		return errors.Wrapf(err, "failed to update %s record", s.schema.Name())
	}
	return nil
}

// Patch applies a partial update to the stored record and stores the
// result. The record keeps its identifier whatever apply does.
func (s *service[T]) Patch(ctx context.Context, id string, apply func(*T) error) (*T, error) {
	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(rec); err != nil {
		return nil, err
	}
	if err := s.setID(rec, id); err != nil {
		return nil, err
	}
	if err := s.replace(ctx, id, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *service[T]) Delete(ctx context.Context, id string) error {
	err := s.db.Delete(ctx, id)
	if err == store.ErrNotFound {
		return err
	} else if err != nil {
		return errors.Wrapf(err, "failed to delete %s record", s.schema.Name())
	}
	return nil
}
