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
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		typ FieldType
		in  string
		out Value
		err bool
	}{
		"string kept verbatim": {
			typ: TypeString,
			in:  " x ",
			out: String(" x "),
		},
		"identifier": {
			typ: TypeID,
			in:  "dev-1",
			out: ID("dev-1"),
		},
		"integer": {
			typ: TypeNumber,
			in:  "42",
			out: Number(42),
		},
		"float with spaces": {
			typ: TypeNumber,
			in:  " -1.5 ",
			out: Number(-1.5),
		},
		"not a number": {
			typ: TypeNumber,
			in:  "4x",
			err: true,
		},
		"nan": {
			typ: TypeNumber,
			in:  "NaN",
			err: true,
		},
		"infinity": {
			typ: TypeNumber,
			in:  "+Inf",
			err: true,
		},
		"negative infinity": {
			typ: TypeNumber,
			in:  "-infinity",
			err: true,
		},
		"out of float range": {
			typ: TypeNumber,
			in:  "1e400",
			err: true,
		},
		"bool": {
			typ: TypeBool,
			in:  "TRUE",
			out: Bool(true),
		},
		"not a bool": {
			typ: TypeBool,
			in:  "yes",
			err: true,
		},
		"date": {
			typ: TypeTime,
			in:  "2024-02-29",
			out: Time(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)),
		},
		"rfc3339": {
			typ: TypeTime,
			in:  "2024-02-29T10:11:12+02:00",
			out: Time(time.Date(2024, 2, 29, 8, 11, 12, 0, time.UTC)),
		},
		"date and time with space": {
			typ: TypeTime,
			in:  "2024-02-29 10:11:12",
			out: Time(time.Date(2024, 2, 29, 10, 11, 12, 0, time.UTC)),
		},
		"not a date": {
			typ: TypeTime,
			in:  "29/02/2024",
			err: true,
		},
		"uuid is normalized": {
			typ: TypeUUID,
			in:  "6BA7B810-9DAD-11D1-80B4-00C04FD430C8",
			out: UUID(uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")),
		},
		"not a uuid": {
			typ: TypeUUID,
			in:  "6ba7b810",
			err: true,
		},
	}

	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			v, err := ParseValue(tc.typ, tc.in)
			if tc.err {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.out.Type(), v.Type())
			assert.Equal(t, 0, tc.out.Compare(v), "%s != %s", tc.out, v)
		})
	}
}

func TestValueCompare(t *testing.T) {
	t.Parallel()

	early := Time(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	late := Time(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, -1, Int(2).Compare(Number(10)))
	assert.Equal(t, 0, Int(3).Compare(Number(3.0)))
	assert.Equal(t, 1, String("b").Compare(String("a")))
	assert.Equal(t, -1, String("B").Compare(String("a")))
	assert.Equal(t, -1, early.Compare(late))
	assert.Equal(t, 1, late.Compare(early))
	assert.Equal(t, -1, Bool(false).Compare(Bool(true)))
	assert.Equal(t, 0, Bool(true).Compare(Bool(true)))
	assert.Equal(t, -1, Null(TypeTime).Compare(early))
	assert.Equal(t, 1, early.Compare(Null(TypeTime)))
	assert.Equal(t, 0, Null(TypeNumber).Compare(Null(TypeNumber)))
}

func TestValueNative(t *testing.T) {
	t.Parallel()

	tm := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "a", String("a").Native())
	assert.Equal(t, float64(7), Int(7).Native())
	assert.Equal(t, tm, Time(tm).Native())
	assert.Equal(t, true, Bool(true).Native())
	assert.Nil(t, Null(TypeString).Native())
	assert.Equal(t, "7", Int(7).String())
	assert.Equal(t, "<null>", Null(TypeBool).String())
}
