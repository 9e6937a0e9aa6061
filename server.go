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

package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ant0ine/go-json-rest/rest"
	"github.com/mendersoftware/go-lib-micro/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	api_http "github.com/mendersoftware/recordsearch/api/http"
	"github.com/mendersoftware/recordsearch/config"
	"github.com/mendersoftware/recordsearch/entity"
	"github.com/mendersoftware/recordsearch/service"
	"github.com/mendersoftware/recordsearch/store"
	"github.com/mendersoftware/recordsearch/store/memory"
	"github.com/mendersoftware/recordsearch/store/mongo"
	"github.com/mendersoftware/recordsearch/store/sql"
)

// dataStores holds the store of every record type served.
type dataStores struct {
	teachers store.DataStore[entity.Teacher]
	invoices store.DataStore[entity.Invoice]
	close    func(ctx context.Context) error
}

func (ds *dataStores) Close(ctx context.Context) error {
	if ds.close == nil {
		return nil
	}
	return ds.close(ctx)
}

func makeDataStoreConfig(c config.Reader) mongo.DataStoreMongoConfig {
	return mongo.DataStoreMongoConfig{
		ConnectionString: c.GetString(SettingDb),

		SSL:           c.GetBool(SettingDbSSL),
		SSLSkipVerify: c.GetBool(SettingDbSSLSkipVerify),

		Username: c.GetString(SettingDbUsername),
		Password: c.GetString(SettingDbPassword),
	}
}

// loadFixture seeds db from the YAML file <dir>/<name>.yaml, if present.
func loadFixture[T any](db *memory.DataStore[T], dir, name string) error {
	f, err := os.Open(filepath.Join(dir, name+".yaml"))
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return errors.Wrapf(err, "failed to open %s fixture", name)
	}
	defer f.Close()

	return errors.Wrapf(db.LoadYAML(f), "failed to load %s fixture", name)
}

// SetupDataStores connects the store selected by the configuration.
func SetupDataStores(ctx context.Context, c config.Reader) (*dataStores, error) {
	switch kind := c.GetString(SettingStore); kind {
	case StoreMemory:
		teachers := memory.NewDataStore(entity.TeacherSchema)
		invoices := memory.NewDataStore(entity.InvoiceSchema)
		if dir := c.GetString(SettingFixtures); dir != "" {
			if err := loadFixture(teachers, dir, entity.TeacherSchema.Name()); err != nil {
				return nil, err
			}
			if err := loadFixture(invoices, dir, entity.InvoiceSchema.Name()); err != nil {
				return nil, err
			}
		}
		return &dataStores{teachers: teachers, invoices: invoices}, nil

	case StoreMongo:
		client, err := mongo.NewClient(ctx, makeDataStoreConfig(c))
		if err != nil {
			return nil, err
		}
		dbName := c.GetString(SettingDbName)
		return &dataStores{
			teachers: mongo.NewDataStoreMongo(client, entity.TeacherSchema, dbName),
			invoices: mongo.NewDataStoreMongo(client, entity.InvoiceSchema, dbName),
			close:    client.Disconnect,
		}, nil

	case StoreSQL:
		db, err := sql.Connect(ctx, c.GetString(SettingSQLDriver), c.GetString(SettingSQLDSN))
		if err != nil {
			return nil, err
		}
		return &dataStores{
			teachers: sql.NewDataStoreSQL(db, entity.TeacherSchema),
			invoices: sql.NewDataStoreSQL(db, entity.InvoiceSchema),
			close: func(context.Context) error {
				return db.Close()
			},
		}, nil

	default:
		return nil, errors.Errorf("unknown store type %q", kind)
	}
}

func SetupAPI(stacktype string, reg prometheus.Registerer) (*rest.Api, error) {
	api := rest.NewApi()
	if err := SetupMiddleware(api, stacktype, reg); err != nil {
		return nil, errors.Wrap(err, "failed to setup middleware")
	}

	//this will override the framework's error resp to the desired one:
	// {"error": "msg"}
	// instead of:
	// {"Error": "msg"}
	rest.ErrorFieldName = "error"

	return api, nil
}

// NewHandler serves the API for the records in ds and the metrics
// gathered by reg.
func NewHandler(c config.Reader, ds *dataStores, reg *prometheus.Registry) (http.Handler, error) {
	api, err := SetupAPI(c.GetString(SettingMiddleware), reg)
	if err != nil {
		return nil, errors.Wrap(err, "API setup failed")
	}

	limits := api_http.PageLimits{
		PerPageDefault: uint64(c.GetInt(SettingPerPageDefault)),
		PerPageMax:     uint64(c.GetInt(SettingPerPageMax)),
	}
	handlers := api_http.NewApiHandlers(
		api_http.NewRecordHandlers(
			service.NewService(ds.teachers, entity.TeacherSchema),
			entity.TeacherSchema, limits),
		api_http.NewRecordHandlers(
			service.NewService(ds.invoices, entity.InvoiceSchema),
			entity.InvoiceSchema, limits),
	)

	apph, err := handlers.GetApp()
	if err != nil {
		return nil, errors.Wrap(err, "API handlers setup failed")
	}
	api.SetApp(apph)

	mux := http.NewServeMux()
	mux.Handle(c.GetString(SettingMetricsPath), promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/", api.MakeHandler())
	return mux, nil
}

func RunServer(c config.Reader) error {

	l := log.New(log.Ctx{})

	ctx := context.Background()
	ds, err := SetupDataStores(ctx, c)
	if err != nil {
		return errors.Wrap(err, "database connection failed")
	}
	defer ds.Close(ctx)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler, err := NewHandler(c, ds, reg)
	if err != nil {
		return err
	}

	addr := c.GetString(SettingListen)
	l.Printf("listening on %s", addr)

	return http.ListenAndServe(addr, handler)
}
