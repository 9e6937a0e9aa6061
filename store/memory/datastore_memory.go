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

package memory

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mendersoftware/recordsearch/query"
	"github.com/mendersoftware/recordsearch/store"
)

// DataStore keeps records in insertion order in memory.
type DataStore[T any] struct {
	schema *query.Schema[T]

	mu      sync.RWMutex
	records []T
	index   map[string]int
}

func NewDataStore[T any](s *query.Schema[T]) *DataStore[T] {
	return &DataStore[T]{
		schema: s,
		index:  map[string]int{},
	}
}

// Seed inserts the records in order; it stops at the first record whose
// identifier is already taken.
func (db *DataStore[T]) Seed(records ...T) error {
	for i := range records {
		if err := db.Insert(context.Background(), &records[i]); err != nil {
			return errors.Wrapf(err, "failed to seed record %d", i)
		}
	}
	return nil
}

// LoadYAML seeds the store from a YAML sequence of records.
func (db *DataStore[T]) LoadYAML(r io.Reader) error {
	var records []T
	if err := yaml.NewDecoder(r).Decode(&records); err != nil && err != io.EOF {
		return errors.Wrap(err, "failed to decode records")
	}
	return db.Seed(records...)
}

func (db *DataStore[T]) Ping(ctx context.Context) error {
	return nil
}

// Records returns a source over a snapshot of the records; writes made
// after the call are not visible through it.
func (db *DataStore[T]) Records() query.Source[T] {
	db.mu.RLock()
	defer db.mu.RUnlock()
	snapshot := make([]T, len(db.records))
	copy(snapshot, db.records)
	return query.FromSlice(db.schema, snapshot)
}

func (db *DataStore[T]) Get(ctx context.Context, id string) (*T, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	i, ok := db.index[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	rec := db.records[i]
	return &rec, nil
}

func (db *DataStore[T]) Insert(ctx context.Context, rec *T) error {
	id := db.schema.KeyOf(*rec)
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, taken := db.index[id]; taken {
		return store.ErrConflict
	}
	db.index[id] = len(db.records)
	db.records = append(db.records, *rec)
	return nil
}

func (db *DataStore[T]) Replace(ctx context.Context, id string, rec *T) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	i, ok := db.index[id]
	if !ok {
		return store.ErrNotFound
	}
	db.records[i] = *rec
	return nil
}

func (db *DataStore[T]) Delete(ctx context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	i, ok := db.index[id]
	if !ok {
		return store.ErrNotFound
	}
	db.records = append(db.records[:i], db.records[i+1:]...)
	delete(db.index, id)
	for j := i; j < len(db.records); j++ {
		db.index[db.schema.KeyOf(db.records[j])] = j
	}
	return nil
}
