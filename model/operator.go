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

package model

import (
	"strings"

	"github.com/pkg/errors"
)

// Operator is the comparison applied by a FilterPredicate.
type Operator string

const (
	OpEqual              Operator = "Equal"
	OpNotEqual           Operator = "NotEqual"
	OpContains           Operator = "Contains"
	OpGreaterThan        Operator = "GreaterThan"
	OpLessThan           Operator = "LessThan"
	OpGreaterThanOrEqual Operator = "GreaterThanOrEqual"
	OpLessThanOrEqual    Operator = "LessThanOrEqual"
	OpStartsWith         Operator = "StartsWith"
	OpEndsWith           Operator = "EndsWith"
)

var ErrUnknownOperator = errors.New("unknown filter operator")

// aliases maps every accepted (lower-cased) spelling to its operator.
var aliases = map[string]Operator{
	"equal":              OpEqual,
	"eq":                 OpEqual,
	"$eq":                OpEqual,
	"notequal":           OpNotEqual,
	"ne":                 OpNotEqual,
	"$ne":                OpNotEqual,
	"contains":           OpContains,
	"greaterthan":        OpGreaterThan,
	"gt":                 OpGreaterThan,
	"$gt":                OpGreaterThan,
	"lessthan":           OpLessThan,
	"lt":                 OpLessThan,
	"$lt":                OpLessThan,
	"greaterthanorequal": OpGreaterThanOrEqual,
	"gte":                OpGreaterThanOrEqual,
	"$gte":               OpGreaterThanOrEqual,
	"lessthanorequal":    OpLessThanOrEqual,
	"lte":                OpLessThanOrEqual,
	"$lte":               OpLessThanOrEqual,
	"startswith":         OpStartsWith,
	"endswith":           OpEndsWith,
}

// ParseOperator resolves an operator from any accepted spelling,
// ignoring letter case.
func ParseOperator(s string) (Operator, error) {
	if op, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return op, nil
	}
	return "", errors.Wrapf(ErrUnknownOperator, "%q", s)
}

// Ordering reports whether the operator compares by order rather than
// by equality or text matching.
func (op Operator) Ordering() bool {
	switch op {
	case OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual:
		return true
	}
	return false
}

// Textual reports whether the operator is a substring match.
func (op Operator) Textual() bool {
	switch op {
	case OpContains, OpStartsWith, OpEndsWith:
		return true
	}
	return false
}
