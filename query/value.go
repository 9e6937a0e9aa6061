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
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// FieldType is the semantic type of a record field. Filter values are
// converted to it and comparisons are made in it.
type FieldType int

const (
	TypeString FieldType = iota
	TypeNumber
	TypeTime
	TypeBool
	TypeID
	TypeUUID
)

func (t FieldType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeTime:
		return "time"
	case TypeBool:
		return "bool"
	case TypeID:
		return "identifier"
	case TypeUUID:
		return "uuid"
	}
	return "unknown"
}

// textual types compare lexically and support substring operators
func (t FieldType) textual() bool {
	return t == TypeString || t == TypeID || t == TypeUUID
}

// accepted layouts for time values, tried in order
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Value is a typed field value. Numbers of every width are widened to
// float64 so that any two values of one field type are comparable.
type Value struct {
	typ  FieldType
	null bool
	str  string
	num  float64
	tm   time.Time
	b    bool
}

func String(s string) Value { return Value{typ: TypeString, str: s} }

func ID(s string) Value { return Value{typ: TypeID, str: s} }

func Number(f float64) Value { return Value{typ: TypeNumber, num: f} }

func Int(i int64) Value { return Value{typ: TypeNumber, num: float64(i)} }

func Time(t time.Time) Value { return Value{typ: TypeTime, tm: t} }

func Bool(b bool) Value { return Value{typ: TypeBool, b: b} }

func UUID(id uuid.UUID) Value { return Value{typ: TypeUUID, str: id.String()} }

// Null returns the absent value of the given type.
func Null(t FieldType) Value { return Value{typ: t, null: true} }

func (v Value) Type() FieldType { return v.typ }

func (v Value) IsNull() bool { return v.null }

// Text returns the textual content of a string, identifier or uuid value.
func (v Value) Text() string { return v.str }

// Native returns the value as a plain Go value, the way storage drivers
// expect it: string, float64, time.Time, bool or nil.
func (v Value) Native() interface{} {
	if v.null {
		return nil
	}
	switch v.typ {
	case TypeNumber:
		return v.num
	case TypeTime:
		return v.tm
	case TypeBool:
		return v.b
	}
	return v.str
}

func (v Value) String() string {
	if v.null {
		return "<null>"
	}
	switch v.typ {
	case TypeNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case TypeTime:
		return v.tm.Format(time.RFC3339Nano)
	case TypeBool:
		return strconv.FormatBool(v.b)
	}
	return v.str
}

// Compare orders two values of the same type: it returns -1, 0 or 1.
// A null value sorts before any other value; false sorts before true.
func (v Value) Compare(o Value) int {
	switch {
	case v.null && o.null:
		return 0
	case v.null:
		return -1
	case o.null:
		return 1
	}
	switch v.typ {
	case TypeNumber:
		return compareOrdered(v.num, o.num)
	case TypeTime:
		return v.tm.Compare(o.tm)
	case TypeBool:
		if v.b == o.b {
			return 0
		} else if !v.b {
			return -1
		}
		return 1
	}
	return strings.Compare(v.str, o.str)
}

func compareOrdered(a, b float64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

// ParseValue converts the textual representation of a filter value to
// a value of the given type.
func ParseValue(t FieldType, s string) (Value, error) {
	switch t {
	case TypeString:
		return String(s), nil
	case TypeID:
		return ID(s), nil
	case TypeUUID:
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			return Value{}, err
		}
		return UUID(id), nil
	case TypeNumber:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return Value{}, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, errors.New("not a finite number")
		}
		return Number(f), nil
	case TypeBool:
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case TypeTime:
		s = strings.TrimSpace(s)
		for _, layout := range timeLayouts {
			if tm, err := time.Parse(layout, s); err == nil {
				return Time(tm), nil
			}
		}
		return Value{}, errors.New("unrecognized time format")
	}
	return Value{}, errors.Errorf("unknown field type %d", t)
}
