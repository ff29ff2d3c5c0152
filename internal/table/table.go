// Package table implements the in-memory columnar table the pipeline
// stages operate on: typed named columns, ordered rows, nil cells for
// nulls.
package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Type identifies the data type of a column.
type Type int

const (
	Int Type = iota
	Float
	String
	Bool
	Time
	Decimal
)

// String returns a human-readable type name.
func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Bool:
		return "bool"
	case Time:
		return "time"
	case Decimal:
		return "decimal"
	}
	return "unknown"
}

// Column describes a single named, typed column.
type Column struct {
	Name string
	Type Type
}

// Table holds rows of typed values. A nil cell is a null. Cell values are
// int64, float64, string, bool, time.Time or decimal.Decimal according to
// the column type.
type Table struct {
	cols []Column
	rows [][]any
}

var (
	// ErrRenameCollision is returned when a column rename would map two
	// columns onto the same name.
	ErrRenameCollision = errors.New("column rename collision")

	// ErrJoinCardinality is returned when the right-side join key is not
	// unique, which would silently multiply left rows.
	ErrJoinCardinality = errors.New("join key not unique on right side")
)

// New creates an empty table with the given columns.
func New(cols ...Column) *Table {
	return &Table{cols: append([]Column(nil), cols...)}
}

// Columns returns a copy of the column definitions.
func (t *Table) Columns() []Column {
	return append([]Column(nil), t.cols...)
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.cols {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// AppendRow appends one row. The number of values must match the number
// of columns.
func (t *Table) AppendRow(values ...any) error {
	if len(values) != len(t.cols) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.cols))
	}
	t.rows = append(t.rows, append([]any(nil), values...))
	return nil
}

// Row returns the i-th row. The slice is shared, callers must not modify it.
func (t *Table) Row(i int) []any {
	return t.rows[i]
}

// Value returns the cell at row i, named column.
func (t *Table) Value(i int, column string) (any, error) {
	ci, ok := t.ColumnIndex(column)
	if !ok {
		return nil, fmt.Errorf("no such column: %s", column)
	}
	return t.rows[i][ci], nil
}

// SetValue overwrites the cell at row i, named column.
func (t *Table) SetValue(i int, column string, v any) error {
	ci, ok := t.ColumnIndex(column)
	if !ok {
		return fmt.Errorf("no such column: %s", column)
	}
	t.rows[i][ci] = v
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := New(t.cols...)
	out.rows = make([][]any, len(t.rows))
	for i, r := range t.rows {
		out.rows[i] = append([]any(nil), r...)
	}
	return out
}

// RenameColumns renames columns according to the mapping. Columns missing
// from the mapping keep their name. If two columns end up with the same
// name the rename fails with ErrRenameCollision instead of silently
// overwriting one of them.
func (t *Table) RenameColumns(mapping map[string]string) error {
	next := make([]Column, len(t.cols))
	seen := make(map[string]string, len(t.cols))
	for i, c := range t.cols {
		name := c.Name
		if renamed, ok := mapping[c.Name]; ok {
			name = renamed
		}
		if prev, dup := seen[name]; dup {
			return fmt.Errorf("%w: %q and %q both map to %q", ErrRenameCollision, prev, c.Name, name)
		}
		seen[name] = c.Name
		next[i] = Column{Name: name, Type: c.Type}
	}
	t.cols = next
	return nil
}

// AddConstColumn appends a column holding the same value in every row.
func (t *Table) AddConstColumn(col Column, value any) {
	t.cols = append(t.cols, col)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], value)
	}
}

// AddComputedColumn appends a column whose value is derived from each row.
func (t *Table) AddComputedColumn(col Column, compute func(row []any) any) {
	t.cols = append(t.cols, col)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], compute(t.rows[i]))
	}
}

// Select returns a new table restricted to the named columns, in the
// given order.
func (t *Table) Select(names []string) (*Table, error) {
	indices := make([]int, len(names))
	cols := make([]Column, len(names))
	for i, name := range names {
		ci, ok := t.ColumnIndex(name)
		if !ok {
			return nil, fmt.Errorf("no such column: %s", name)
		}
		indices[i] = ci
		cols[i] = t.cols[ci]
	}
	out := New(cols...)
	out.rows = make([][]any, len(t.rows))
	for i, r := range t.rows {
		row := make([]any, len(indices))
		for j, ci := range indices {
			row[j] = r[ci]
		}
		out.rows[i] = row
	}
	return out, nil
}

// DropDuplicates removes rows that are equal across every column, keeping
// the first occurrence.
func (t *Table) DropDuplicates() *Table {
	out := New(t.cols...)
	seen := make(map[string]struct{}, len(t.rows))
	for _, r := range t.rows {
		key := rowKey(r)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.rows = append(out.rows, append([]any(nil), r...))
	}
	return out
}

// CellKey encodes a single cell value into a string usable as a map key.
// Nulls encode distinctly from every real value.
func CellKey(v any) string {
	if v == nil {
		return "\x00null"
	}
	switch x := v.(type) {
	case int64:
		return "i" + strconv.FormatInt(x, 10)
	case float64:
		return "f" + strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return "s" + x
	case bool:
		return "b" + strconv.FormatBool(x)
	case time.Time:
		return "t" + strconv.FormatInt(x.UnixNano(), 10)
	case decimal.Decimal:
		return "d" + x.String()
	}
	return fmt.Sprintf("?%v", v)
}

func rowKey(row []any) string {
	var b strings.Builder
	for _, v := range row {
		b.WriteString(CellKey(v))
		b.WriteByte('\x1f')
	}
	return b.String()
}
