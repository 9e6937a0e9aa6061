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

package mongo

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/mendersoftware/go-lib-micro/log"
	mstore "github.com/mendersoftware/go-lib-micro/store"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mendersoftware/recordsearch/query"
	"github.com/mendersoftware/recordsearch/store"
)

const (
	DbName = "recordsearch"

	// every record is stored under its key in the document id
	DbKey = "_id"

	connectTimeout = 10 * time.Second
)

type DataStoreMongoConfig struct {
	// connection string
	ConnectionString string

	// SSL support
	SSL           bool
	SSLSkipVerify bool

	// Overwrites credentials provided in connection string if provided
	Username string
	Password string
}

// NewClient connects to the server and checks the connection.
func NewClient(ctx context.Context, config DataStoreMongoConfig) (*mongo.Client, error) {
	connectionString := config.ConnectionString
	if !strings.Contains(connectionString, "://") {
		connectionString = "mongodb://" + connectionString
	}
	clientOptions := mopts.Client().
		ApplyURI(connectionString).
		SetConnectTimeout(connectTimeout)

	if config.Username != "" {
		clientOptions.SetAuth(mopts.Credential{
			Username: config.Username,
			Password: config.Password,
		})
	}

	if config.SSL {
		tlsConfig := &tls.Config{}
		tlsConfig.InsecureSkipVerify = config.SSLSkipVerify
		clientOptions.SetTLSConfig(tlsConfig)
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to mongo server")
	}

	if err = client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "error reaching mongo server")
	}

	return client, nil
}

// DataStoreMongo stores the records of one type in the collection named
// after the record schema.
type DataStoreMongo[T any] struct {
	client *mongo.Client
	schema *query.Schema[T]
	dbName string
}

func NewDataStoreMongo[T any](
	client *mongo.Client,
	schema *query.Schema[T],
	dbName string,
) *DataStoreMongo[T] {
	if dbName == "" {
		dbName = DbName
	}
	return &DataStoreMongo[T]{
		client: client,
		schema: schema,
		dbName: dbName,
	}
}

// database is the database of the tenant in ctx, if any.
func (db *DataStoreMongo[T]) database(ctx context.Context) *mongo.Database {
	return db.client.Database(mstore.DbFromContext(ctx, db.dbName))
}

func (db *DataStoreMongo[T]) collection(ctx context.Context) *mongo.Collection {
	return db.database(ctx).Collection(db.schema.Name())
}

// field maps an attribute to its document key.
func (db *DataStoreMongo[T]) field(a query.Attribute) string {
	if k := db.schema.KeyField(); k != nil && k.Name == a.Name {
		return DbKey
	}
	return a.Column
}

func (db *DataStoreMongo[T]) Ping(ctx context.Context) error {
	res := db.database(ctx).RunCommand(ctx, bson.M{"ping": 1})
	return res.Err()
}

func (db *DataStoreMongo[T]) Records() query.Source[T] {
	return &source[T]{db: db, take: -1}
}

func (db *DataStoreMongo[T]) Get(ctx context.Context, id string) (*T, error) {
	var rec T
	err := findByID(ctx, db.collection(ctx), id, &rec)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrNotFound
	} else if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s record", db.schema.Name())
	}
	return &rec, nil
}

func (db *DataStoreMongo[T]) Insert(ctx context.Context, rec *T) error {
	_, err := db.collection(ctx).InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrConflict
	} else if err != nil {
		return errors.Wrapf(err, "failed to store %s record", db.schema.Name())
	}
	return nil
}

func (db *DataStoreMongo[T]) Replace(ctx context.Context, id string, rec *T) error {
	res, err := db.collection(ctx).ReplaceOne(ctx, bson.D{{Key: DbKey, Value: id}}, rec)
	if err != nil {
		return errors.Wrapf(err, "failed to update %s record", db.schema.Name())
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (db *DataStoreMongo[T]) Delete(ctx context.Context, id string) error {
	res, err := db.collection(ctx).DeleteOne(ctx, bson.D{{Key: DbKey, Value: id}})
	if err != nil {
		return errors.Wrapf(err, "failed to remove %s record", db.schema.Name())
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// source pushes the whole query down to a single find or count.
type source[T any] struct {
	db    *DataStoreMongo[T]
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

func (s *source[T]) filter() (bson.D, error) {
	return BuildFilter(s.where, s.db.field)
}

func (s *source[T]) findOptions() *mopts.FindOptions {
	opts := mopts.Find().
		SetSort(BuildSort(s.order, s.db.field, DbKey))
	if s.skip > 0 {
		opts.SetSkip(int64(s.skip))
	}
	if s.take >= 0 {
		opts.SetLimit(int64(s.take))
	}
	return opts
}

func (s *source[T]) All(ctx context.Context) ([]T, error) {
	l := log.FromContext(ctx)

	res := []T{}
	if s.take == 0 {
		return res, nil
	}
	filter, err := s.filter()
	if err != nil {
		return nil, err
	}
	l.Debugf("find %s: %v", s.db.schema.Name(), filter)

	cur, err := s.db.collection(ctx).Find(ctx, filter, s.findOptions())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s records", s.db.schema.Name())
	}
	if err := cur.All(ctx, &res); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s records", s.db.schema.Name())
	}
	return res, nil
}

func (s *source[T]) Count(ctx context.Context) (int, error) {
	filter, err := s.filter()
	if err != nil {
		return -1, err
	}
	n, err := s.db.collection(ctx).CountDocuments(ctx, filter)
	if err != nil {
		return -1, errors.Wrapf(err, "failed to count %s records", s.db.schema.Name())
	}
	return int(n), nil
}
