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

package sql

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/mendersoftware/recordsearch/model"
	"github.com/mendersoftware/recordsearch/query"
)

const (
	sqlTrue  = "1=1"
	sqlFalse = "1=0"

	likeEscape = "!"
)

var sqlOperators = map[model.Operator]string{
	model.OpEqual:              "=",
	model.OpGreaterThan:        ">",
	model.OpGreaterThanOrEqual: ">=",
	model.OpLessThan:           "<",
	model.OpLessThanOrEqual:    "<=",
}

var likeEscaper = strings.NewReplacer(
	likeEscape, likeEscape+likeEscape,
	"%", likeEscape+"%",
	"_", likeEscape+"_",
)

// BuildWhere translates a predicate tree into a boolean SQL expression
// with `?` placeholders and its arguments. Column names come from the
// record schema, values are always passed as arguments.
func BuildWhere(e query.Expr) (string, []interface{}, error) {
	w := &where{}
	if err := w.build(e); err != nil {
		return "", nil, err
	}
	return w.sb.String(), w.args, nil
}

type where struct {
	sb   strings.Builder
	args []interface{}
}

func (w *where) build(e query.Expr) error {
	switch e := e.(type) {
	case nil:
		w.sb.WriteString(sqlTrue)

	case query.And:
		return w.join(e, " AND ", sqlTrue)

	case query.Or:
		return w.join(e, " OR ", sqlFalse)

	case query.Compare:
		return w.compare(e)

	case query.TextSearch:
		if len(e.Attrs) == 0 {
			w.sb.WriteString(sqlFalse)
			return nil
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(e.Term)) + "%"
		w.sb.WriteString("(")
		for i, a := range e.Attrs {
			if i > 0 {
				w.sb.WriteString(" OR ")
			}
			w.sb.WriteString("LOWER(" + a.Column + ") LIKE ? ESCAPE '" + likeEscape + "'")
			w.args = append(w.args, pattern)
		}
		w.sb.WriteString(")")

	default:
		return errors.Errorf("unexpected expression %T", e)
	}
	return nil
}

func (w *where) join(exprs []query.Expr, sep, empty string) error {
	if len(exprs) == 0 {
		w.sb.WriteString(empty)
		return nil
	}
	if len(exprs) == 1 {
		return w.build(exprs[0])
	}
	w.sb.WriteString("(")
	for i, child := range exprs {
		if i > 0 {
			w.sb.WriteString(sep)
		}
		if err := w.build(child); err != nil {
			return err
		}
	}
	w.sb.WriteString(")")
	return nil
}

func (w *where) compare(c query.Compare) error {
	col := c.Attr.Column
	if op, ok := sqlOperators[c.Op]; ok {
		w.sb.WriteString(col + " " + op + " ?")
		w.args = append(w.args, c.Value.Native())
		return nil
	}

	var pattern string
	operand := likeEscaper.Replace(c.Value.Text())
	switch c.Op {
	case model.OpNotEqual:
		// NULL <> x is unknown, but an absent value differs from any value
		w.sb.WriteString("(" + col + " <> ? OR " + col + " IS NULL)")
		w.args = append(w.args, c.Value.Native())
		return nil
	case model.OpContains:
		pattern = "%" + operand + "%"
	case model.OpStartsWith:
		pattern = operand + "%"
	case model.OpEndsWith:
		pattern = "%" + operand
	default:
		return errors.Errorf("operator %q can not be translated", c.Op)
	}
	w.sb.WriteString(col + " LIKE ? ESCAPE '" + likeEscape + "'")
	w.args = append(w.args, pattern)
	return nil
}

// BuildOrder returns the ORDER BY list for an order with the key column
// as a tie-break. Absent values sort first, as the in-memory source
// orders them.
func BuildOrder(o *query.Order, key string) string {
	keyDir := "ASC"
	if o == nil {
		return key + " " + keyDir
	}
	var nulls, dir string
	if o.Desc {
		nulls, dir = "ASC", "DESC"
	} else {
		nulls, dir = "DESC", "ASC"
	}
	if o.Attr.Column == key {
		return key + " " + dir
	}
	col := o.Attr.Column
	return "(" + col + " IS NULL) " + nulls + ", " + col + " " + dir + ", " + key + " " + keyDir
}
