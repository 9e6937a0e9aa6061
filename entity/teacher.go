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

package entity

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/mendersoftware/recordsearch/query"
)

type Teacher struct {
	ID        string     `json:"id" bson:"_id" db:"id" yaml:"id"`
	FirstName string     `json:"first_name" bson:"first_name" db:"first_name" yaml:"first_name"`
	LastName  string     `json:"last_name" bson:"last_name" db:"last_name" yaml:"last_name"`
	Email     string     `json:"email" bson:"email" db:"email" yaml:"email"`
	Subject   string     `json:"subject" bson:"subject" db:"subject" yaml:"subject"`
	Hours     int        `json:"hours" bson:"hours" db:"hours" yaml:"hours"`
	Active    bool       `json:"active" bson:"active" db:"active" yaml:"active"`
	HiredAt   time.Time  `json:"hired_at" bson:"hired_at" db:"hired_at" yaml:"hired_at"`
	LeftAt    *time.Time `json:"left_at,omitempty" bson:"left_at,omitempty" db:"left_at" yaml:"left_at,omitempty"`
}

func (t Teacher) GetID() string { return t.ID }

func (t *Teacher) SetID(id string) { t.ID = id }

func (t Teacher) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.FirstName, validation.Required, validation.Length(1, 256)),
		validation.Field(&t.LastName, validation.Required, validation.Length(1, 256)),
		validation.Field(&t.Email, is.EmailFormat),
		validation.Field(&t.Hours, validation.Min(0)),
	)
}

var TeacherSchema = query.NewSchema[Teacher]("teachers").
	Key("Id", func(t Teacher) string { return t.ID }).
	String("FirstName", func(t Teacher) string { return t.FirstName },
		query.Column("first_name"), query.Searchable()).
	String("LastName", func(t Teacher) string { return t.LastName },
		query.Column("last_name"), query.Searchable()).
	String("Email", func(t Teacher) string { return t.Email }, query.Searchable()).
	String("Subject", func(t Teacher) string { return t.Subject }, query.Searchable()).
	Int("Hours", func(t Teacher) int64 { return int64(t.Hours) }).
	Bool("Active", func(t Teacher) bool { return t.Active }).
	Time("HiredAt", func(t Teacher) time.Time { return t.HiredAt }, query.Column("hired_at")).
	OptionalTime("LeftAt", func(t Teacher) *time.Time { return t.LeftAt }, query.Column("left_at"))
