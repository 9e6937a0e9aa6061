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

package query

import (
	"github.com/mendersoftware/recordsearch/model"
)

// Expr is a node of a predicate tree. The tree only references fields by
// Attribute, so a store can translate it into its own query language
// without knowing the record type.
type Expr interface {
	expr()
}

// And holds when every child holds; an empty And always holds.
type And []Expr

// Or holds when at least one child holds; an empty Or never holds.
type Or []Expr

// Compare compares a field with a typed value.
type Compare struct {
	Attr  Attribute
	Op    model.Operator
	Value Value
}

// TextSearch holds when Term occurs, ignoring letter case, in at least one of
// the attributes.
type TextSearch struct {
	Attrs []Attribute
	Term  string
}

func (And) expr()        {}
func (Or) expr()         {}
func (Compare) expr()    {}
func (TextSearch) expr() {}

// Order sorts by a single attribute.
type Order struct {
	Attr Attribute
	Desc bool
}
