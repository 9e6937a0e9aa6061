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

package sql

import (
	"context"
	"database/sql"
	"math"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mendersoftware/go-lib-micro/log"
	"github.com/pkg/errors"

	"github.com/mendersoftware/recordsearch/query"
	"github.com/mendersoftware/recordsearch/store"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"

	pqUniqueViolation   = "23505"
	mysqlDuplicateEntry = 1062
)

// Connect opens a connection pool and checks the connection.
func Connect(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s database", driver)
	}
	return db, nil
}

// DataStoreSQL stores the records of one type in the table named after
// the record schema; every schema field is a column.
type DataStoreSQL[T any] struct {
	db     *sqlx.DB
	schema *query.Schema[T]

	table   string
	key     string
	columns []string
}

func NewDataStoreSQL[T any](db *sqlx.DB, schema *query.Schema[T]) *DataStoreSQL[T] {
	ds := &DataStoreSQL[T]{
		db:     db,
		schema: schema,
		table:  schema.Name(),
	}
	if k := schema.KeyField(); k != nil {
		ds.key = k.Column
	}
	for _, f := range schema.Fields() {
		ds.columns = append(ds.columns, f.Column)
	}
	return ds
}

func (ds *DataStoreSQL[T]) selectFrom() string {
	return "SELECT " + strings.Join(ds.columns, ", ") + " FROM " + ds.table
}

func (ds *DataStoreSQL[T]) Ping(ctx context.Context) error {
	return ds.db.PingContext(ctx)
}

func (ds *DataStoreSQL[T]) Records() query.Source[T] {
	return &source[T]{ds: ds, take: -1}
}

func (ds *DataStoreSQL[T]) Get(ctx context.Context, id string) (*T, error) {
	var rec T
	q := ds.db.Rebind(ds.selectFrom() + " WHERE " + ds.key + " = ?")
	err := ds.db.GetContext(ctx, &rec, q, id)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	} else if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s record", ds.table)
	}
	return &rec, nil
}

func (ds *DataStoreSQL[T]) Insert(ctx context.Context, rec *T) error {
	q := "INSERT INTO " + ds.table +
		" (" + strings.Join(ds.columns, ", ") + ")" +
		" VALUES (:" + strings.Join(ds.columns, ", :") + ")"
	if _, err := ds.db.NamedExecContext(ctx, q, rec); err != nil {
		if isDuplicate(err) {
			return store.ErrConflict
		}
		return errors.Wrapf(err, "failed to store %s record", ds.table)
	}
	return nil
}

func (ds *DataStoreSQL[T]) Replace(ctx context.Context, id string, rec *T) error {
	if got := ds.schema.KeyOf(*rec); got != id {
		return errors.Errorf("record id %q does not match %q", got, id)
	}
	set := []string{}
	for _, c := range ds.columns {
		if c != ds.key {
			set = append(set, c+" = :"+c)
		}
	}
	q := "UPDATE " + ds.table + " SET " + strings.Join(set, ", ") +
		" WHERE " + ds.key + " = :" + ds.key
	res, err := ds.db.NamedExecContext(ctx, q, rec)
	if err != nil {
		return errors.Wrapf(err, "failed to update %s record", ds.table)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if n > 0 {
		return nil
	}
	// mysql does not count rows updated with identical values
	exists, err := ds.exists(ctx, id)
	if err != nil {
		return err
	} else if !exists {
		return store.ErrNotFound
	}
	return nil
}

func (ds *DataStoreSQL[T]) exists(ctx context.Context, id string) (bool, error) {
	var n int
	q := ds.db.Rebind("SELECT COUNT(*) FROM " + ds.table + " WHERE " + ds.key + " = ?")
	if err := ds.db.GetContext(ctx, &n, q, id); err != nil {
		return false, errors.Wrapf(err, "failed to fetch %s record", ds.table)
	}
	return n > 0, nil
}

func (ds *DataStoreSQL[T]) Delete(ctx context.Context, id string) error {
	q := ds.db.Rebind("DELETE FROM " + ds.table + " WHERE " + ds.key + " = ?")
	res, err := ds.db.ExecContext(ctx, q, id)
	if err != nil {
		return errors.Wrapf(err, "failed to remove %s record", ds.table)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isDuplicate(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return false
}

// source pushes the whole query down to a single SELECT.
type source[T any] struct {
	ds    *DataStoreSQL[T]
	where query.And
	order *query.Order
	skip  int
	take  int
}

func (s *source[T]) clone() *source[T] {
	c := *s
	c.where = append(query.And(nil), s.where...)
	return &c
}

func (s *source[T]) Where(e query.Expr) query.Source[T] {
	c := s.clone()
	if e != nil {
		c.where = append(c.where, e)
	}
	return c
}

func (s *source[T]) OrderBy(o query.Order) query.Source[T] {
	c := s.clone()
	c.order = &o
	return c
}

func (s *source[T]) Skip(n int) query.Source[T] {
	c := s.clone()
	if n > 0 {
		c.skip = n
	}
	return c
}

func (s *source[T]) Take(n int) query.Source[T] {
	c := s.clone()
	c.take = n
	return c
}

func (s *source[T]) whereClause() (string, []interface{}, error) {
	if len(s.where) == 0 {
		return "", nil, nil
	}
	cond, args, err := BuildWhere(s.where)
	if err != nil {
		return "", nil, err
	}
	return " WHERE " + cond, args, nil
}

// selectQuery returns the SELECT statement, with `?` placeholders,
// and its arguments.
func (s *source[T]) selectQuery() (string, []interface{}, error) {
	cond, args, err := s.whereClause()
	if err != nil {
		return "", nil, err
	}
	q := s.ds.selectFrom() + cond + " ORDER BY " + BuildOrder(s.order, s.ds.key)
	if s.take >= 0 || s.skip > 0 {
		take := int64(s.take)
		if s.take < 0 {
			take = math.MaxInt64
		}
		q += " LIMIT ? OFFSET ?"
		args = append(args, take, int64(s.skip))
	}
	return q, args, nil
}

func (s *source[T]) All(ctx context.Context) ([]T, error) {
	res := []T{}
	if s.take == 0 {
		return res, nil
	}
	q, args, err := s.selectQuery()
	if err != nil {
		return nil, err
	}
	q = s.ds.db.Rebind(q)
	log.FromContext(ctx).Debugf("query %s: %s %v", s.ds.table, q, args)

	if err := s.ds.db.SelectContext(ctx, &res, q, args...); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s records", s.ds.table)
	}
	return res, nil
}

func (s *source[T]) Count(ctx context.Context) (int, error) {
	cond, args, err := s.whereClause()
	if err != nil {
		return -1, err
	}
	var n int
	q := s.ds.db.Rebind("SELECT COUNT(*) FROM " + s.ds.table + cond)
	if err := s.ds.db.GetContext(ctx, &n, q, args...); err != nil {
		return -1, errors.Wrapf(err, "failed to count %s records", s.ds.table)
	}
	return n, nil
}
