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
	"github.com/mendersoftware/recordsearch/config"
	"github.com/mendersoftware/recordsearch/utils"
)

const (
	SettingListen        = "listen"
	SettingListenDefault = ":8080"

	SettingMiddleware        = "middleware"
	SettingMiddlewareDefault = EnvProd

	SettingStore        = "store"
	SettingStoreDefault = StoreMemory

	SettingFixtures = "fixtures"

	SettingDb        = "mongo"
	SettingDbDefault = "mongo-recordsearch:27017"

	SettingDbName        = "mongo_db"
	SettingDbNameDefault = "recordsearch"

	SettingDbSSL        = "mongo_ssl"
	SettingDbSSLDefault = false

	SettingDbSSLSkipVerify        = "mongo_ssl_skipverify"
	SettingDbSSLSkipVerifyDefault = false

	SettingDbUsername = "mongo_username"
	SettingDbPassword = "mongo_password"

	SettingSQLDriver        = "sql_driver"
	SettingSQLDriverDefault = "postgres"

	SettingSQLDSN = "sql_dsn"

	SettingPerPageDefault        = "per_page_default"
	SettingPerPageDefaultDefault = utils.PerPageDefault

	SettingPerPageMax        = "per_page_max"
	SettingPerPageMaxDefault = utils.PerPageMax

	SettingMetricsPath        = "metrics_path"
	SettingMetricsPathDefault = "/metrics"
)

const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
	StoreSQL    = "sql"
)

var (
	configDefaults = []config.Default{
		{Key: SettingListen, Value: SettingListenDefault},
		{Key: SettingMiddleware, Value: SettingMiddlewareDefault},
		{Key: SettingStore, Value: SettingStoreDefault},
		{Key: SettingDb, Value: SettingDbDefault},
		{Key: SettingDbName, Value: SettingDbNameDefault},
		{Key: SettingDbSSL, Value: SettingDbSSLDefault},
		{Key: SettingDbSSLSkipVerify, Value: SettingDbSSLSkipVerifyDefault},
		{Key: SettingSQLDriver, Value: SettingSQLDriverDefault},
		{Key: SettingPerPageDefault, Value: SettingPerPageDefaultDefault},
		{Key: SettingPerPageMax, Value: SettingPerPageMaxDefault},
		{Key: SettingMetricsPath, Value: SettingMetricsPathDefault},
	}
)
