// Package curate turns a table of valid rows into a curated table:
// timestamped, null-filled, rounded and deduplicated.
package curate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/NFIT95/data-pipeline/internal/table"
)

// TimestampColumn is the curation timestamp column added to every table.
const TimestampColumn = "CreatedTimeStamp"

// Null fill defaults per column type. Types not listed are left untouched.
const missingText = "MISSING"

// Curate runs the fixed curation sequence on a copy of the input:
// timestamp, null fill, rounding, duplicate removal. The timestamp is
// captured once per call, so otherwise identical rows in the same batch
// still deduplicate; re-curating a curated table refreshes the existing
// timestamp column. Floats round to 2 decimals, half away from zero.
func Curate(t *table.Table, now time.Time) *table.Table {
	out := t.Clone()
	if _, exists := out.ColumnIndex(TimestampColumn); exists {
		for i := 0; i < out.NumRows(); i++ {
			_ = out.SetValue(i, TimestampColumn, now.UTC())
		}
	} else {
		out.AddConstColumn(table.Column{Name: TimestampColumn, Type: table.Time}, now.UTC())
	}
	fillNulls(out)
	roundFloats(out)
	return out.DropDuplicates()
}

// fillNulls replaces null cells with a type-appropriate default: 0 for
// ints and floats, "MISSING" for text, false for bools. Other column
// types keep their nulls.
func fillNulls(t *table.Table) {
	for ci, col := range t.Columns() {
		var def any
		switch col.Type {
		case table.Int:
			def = int64(0)
		case table.Float:
			def = float64(0)
		case table.String:
			def = missingText
		case table.Bool:
			def = false
		default:
			continue
		}
		for i := 0; i < t.NumRows(); i++ {
			if t.Row(i)[ci] == nil {
				t.Row(i)[ci] = def
			}
		}
	}
}

// roundFloats rounds every float column to 2 decimal places.
func roundFloats(t *table.Table) {
	for ci, col := range t.Columns() {
		if col.Type != table.Float {
			continue
		}
		for i := 0; i < t.NumRows(); i++ {
			if v, ok := t.Row(i)[ci].(float64); ok {
				t.Row(i)[ci] = round2(v)
			}
		}
	}
}

// round2 rounds half away from zero via decimal arithmetic to avoid the
// usual binary float rounding surprises.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
