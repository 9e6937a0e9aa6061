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

	"github.com/mendersoftware/recordsearch/query"
)

const (
	InvoiceDraft    = "draft"
	InvoiceIssued   = "issued"
	InvoicePaid     = "paid"
	InvoiceCanceled = "canceled"
)

var invoiceStatuses = []interface{}{
	InvoiceDraft, InvoiceIssued, InvoicePaid, InvoiceCanceled,
}

type Invoice struct {
	ID        string     `json:"id" bson:"_id" db:"id" yaml:"id"`
	Number    string     `json:"number" bson:"number" db:"number" yaml:"number"`
	Customer  string     `json:"customer" bson:"customer" db:"customer" yaml:"customer"`
	TeacherID string     `json:"teacher_id,omitempty" bson:"teacher_id,omitempty" db:"teacher_id" yaml:"teacher_id,omitempty"`
	Amount    float64    `json:"amount" bson:"amount" db:"amount" yaml:"amount"`
	Currency  string     `json:"currency" bson:"currency" db:"currency" yaml:"currency"`
	Status    string     `json:"status" bson:"status" db:"status" yaml:"status"`
	Paid      bool       `json:"paid" bson:"paid" db:"paid" yaml:"paid"`
	IssuedAt  time.Time  `json:"issued_at" bson:"issued_at" db:"issued_at" yaml:"issued_at"`
	DueAt     *time.Time `json:"due_at,omitempty" bson:"due_at,omitempty" db:"due_at" yaml:"due_at,omitempty"`
}

func (i Invoice) GetID() string { return i.ID }

func (i *Invoice) SetID(id string) { i.ID = id }

func (i Invoice) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Number, validation.Required),
		validation.Field(&i.Customer, validation.Required),
		validation.Field(&i.Amount, validation.Min(0.0)),
		validation.Field(&i.Currency, validation.Length(3, 3)),
		validation.Field(&i.Status, validation.In(invoiceStatuses...)),
	)
}

var InvoiceSchema = query.NewSchema[Invoice]("invoices").
	Key("Id", func(i Invoice) string { return i.ID }).
	String("Number", func(i Invoice) string { return i.Number }, query.Searchable()).
	String("Customer", func(i Invoice) string { return i.Customer }, query.Searchable()).
	ID("TeacherId", func(i Invoice) string { return i.TeacherID }, query.Column("teacher_id")).
	Float("Amount", func(i Invoice) float64 { return i.Amount }).
	String("Currency", func(i Invoice) string { return i.Currency }).
	String("Status", func(i Invoice) string { return i.Status }).
	Bool("Paid", func(i Invoice) bool { return i.Paid }).
	Time("IssuedAt", func(i Invoice) time.Time { return i.IssuedAt }, query.Column("issued_at")).
	OptionalTime("DueAt", func(i Invoice) *time.Time { return i.DueAt }, query.Column("due_at"))
