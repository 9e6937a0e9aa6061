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

// Package config holds the service configuration, read from an optional
// file and from the environment.
package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Reader gives read access to configuration values.
type Reader interface {
	Get(key string) interface{}
	GetBool(key string) bool
	GetFloat64(key string) float64
	GetInt(key string) int
	GetString(key string) string
	GetStringSlice(key string) []string
	GetDuration(key string) time.Duration
	IsSet(key string) bool
}

// Default is the default value of one setting.
type Default struct {
	Key   string
	Value interface{}
}

// Config is the global configuration.
var Config = viper.New()

// SetDefaults applies the defaults to c.
func SetDefaults(c *viper.Viper, defaults []Default) {
	for _, def := range defaults {
		c.SetDefault(def.Key, def.Value)
	}
}

// FromConfigFile loads the configuration file into the global
// configuration after setting the defaults. An empty path only sets the
// defaults.
func FromConfigFile(filePath string, defaults []Default) error {
	return LoadFile(Config, filePath, defaults)
}

// LoadFile works like FromConfigFile on the given configuration.
func LoadFile(c *viper.Viper, filePath string, defaults []Default) error {
	SetDefaults(c, defaults)

	if filePath == "" {
		return nil
	}

	c.SetConfigFile(filePath)
	if err := c.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read configuration file %s", filePath)
	}
	return nil
}
