package table

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// LeftJoin joins right onto t, matching leftKey against rightKey. Every
// left row is preserved; unmatched rows carry nulls in the right-side
// columns. The right key column is dropped from the result, matching the
// semantics of a relational join on differently named keys.
//
// The right key must be unique: a duplicated key would silently multiply
// left rows, so it fails with ErrJoinCardinality instead. Null keys never
// match.
func (t *Table) LeftJoin(right *Table, leftKey, rightKey string) (*Table, error) {
	li, ok := t.ColumnIndex(leftKey)
	if !ok {
		return nil, fmt.Errorf("left table has no column %s", leftKey)
	}
	ri, ok := right.ColumnIndex(rightKey)
	if !ok {
		return nil, fmt.Errorf("right table has no column %s", rightKey)
	}

	index := make(map[string]int, right.NumRows())
	for i, row := range right.rows {
		if row[ri] == nil {
			continue
		}
		key := CellKey(row[ri])
		if _, dup := index[key]; dup {
			return nil, fmt.Errorf("%w: column %s value %v", ErrJoinCardinality, rightKey, row[ri])
		}
		index[key] = i
	}

	cols := append([]Column(nil), t.cols...)
	for i, c := range right.cols {
		if i == ri {
			continue
		}
		cols = append(cols, c)
	}
	out := New(cols...)
	out.rows = make([][]any, 0, len(t.rows))

	for _, row := range t.rows {
		joined := make([]any, 0, len(cols))
		joined = append(joined, row...)
		matched := -1
		if row[li] != nil {
			if j, ok := index[CellKey(row[li])]; ok {
				matched = j
			}
		}
		for i := range right.cols {
			if i == ri {
				continue
			}
			if matched >= 0 {
				joined = append(joined, right.rows[matched][i])
			} else {
				joined = append(joined, nil)
			}
		}
		out.rows = append(out.rows, joined)
	}
	return out, nil
}

// GroupBySum groups rows by the given columns and sums sumColumn within
// each group. The result has the group columns followed by one Decimal
// column named asName. Null cells are skipped by the sum; a group whose
// cells are all null sums to zero. Groups are emitted in a deterministic
// order.
func (t *Table) GroupBySum(groupColumns []string, sumColumn, asName string) (*Table, error) {
	gi := make([]int, len(groupColumns))
	cols := make([]Column, 0, len(groupColumns)+1)
	for i, name := range groupColumns {
		ci, ok := t.ColumnIndex(name)
		if !ok {
			return nil, fmt.Errorf("no such column: %s", name)
		}
		gi[i] = ci
		cols = append(cols, t.cols[ci])
	}
	si, ok := t.ColumnIndex(sumColumn)
	if !ok {
		return nil, fmt.Errorf("no such column: %s", sumColumn)
	}
	cols = append(cols, Column{Name: asName, Type: Decimal})

	type group struct {
		values []any
		sum    decimal.Decimal
	}
	groups := make(map[string]*group)
	order := make([]string, 0)

	for _, row := range t.rows {
		values := make([]any, len(gi))
		for i, ci := range gi {
			values[i] = row[ci]
		}
		key := rowKey(values)
		g, ok := groups[key]
		if !ok {
			g = &group{values: values}
			groups[key] = g
			order = append(order, key)
		}
		if row[si] == nil {
			continue
		}
		d, err := ToDecimal(row[si])
		if err != nil {
			return nil, fmt.Errorf("failed to sum column %s: %w", sumColumn, err)
		}
		g.sum = g.sum.Add(d)
	}

	sort.Strings(order)
	out := New(cols...)
	for _, key := range order {
		g := groups[key]
		row := append(append([]any(nil), g.values...), g.sum.Round(decimalScale))
		out.rows = append(out.rows, row)
	}
	return out, nil
}

// SumColumn sums the named column across all rows, skipping nulls.
func (t *Table) SumColumn(name string) (decimal.Decimal, error) {
	ci, ok := t.ColumnIndex(name)
	if !ok {
		return decimal.Zero, fmt.Errorf("no such column: %s", name)
	}
	sum := decimal.Zero
	for _, row := range t.rows {
		if row[ci] == nil {
			continue
		}
		d, err := ToDecimal(row[ci])
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to sum column %s: %w", name, err)
		}
		sum = sum.Add(d)
	}
	return sum, nil
}

// decimalScale is the fixed scale all derived decimal values carry.
const decimalScale = 6

// ToDecimal converts a numeric cell value to a decimal.
func ToDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case int64:
		return decimal.NewFromInt(x), nil
	case float64:
		return decimal.NewFromFloat(x), nil
	}
	return decimal.Zero, fmt.Errorf("value %v is not numeric", v)
}
