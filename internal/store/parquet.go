package store

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/NFIT95/data-pipeline/internal/table"
)

// WriteParquet writes a table to a timestamped parquet file in folder.
// Decimal columns are stored as fixed-scale strings so the value
// round-trips without binary float drift.
func (s *Store) WriteParquet(t *table.Table, folder, name string, now time.Time) (string, error) {
	path := s.stampedPath(folder, name, "parquet", now)

	schema, err := parquetSchema(name, t)
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer f.Close()

	w := parquet.NewGenericWriter[map[string]any](f, schema)
	rows := make([]map[string]any, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		row := make(map[string]any, t.NumCols())
		for ci, col := range t.Columns() {
			v := t.Row(i)[ci]
			if v == nil {
				continue
			}
			row[col.Name] = parquetValue(v)
		}
		rows[i] = row
	}
	if _, err := w.Write(rows); err != nil {
		return "", fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close parquet writer: %w", err)
	}

	s.logger.Info("Parquet file written",
		zap.String("path", path),
		zap.Int("rows", t.NumRows()))
	return path, nil
}

// ReadLatestParquet loads the most recent parquet snapshot of name from
// folder, picking the file with the highest timestamp prefix.
func (s *Store) ReadLatestParquet(folder, name string) (*table.Table, error) {
	path, err := s.latestPath(folder, name, "parquet")
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat parquet file: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	// Map rows carry no schema of their own, so the reader needs the
	// file's schema up front.
	r := parquet.NewGenericReader[map[string]any](f, pf.Schema())
	defer r.Close()

	cols, err := tableColumns(pf.Schema())
	if err != nil {
		return nil, fmt.Errorf("failed to read schema of %s: %w", path, err)
	}
	t := table.New(cols...)

	batch := make([]map[string]any, 128)
	for {
		for i := range batch {
			batch[i] = make(map[string]any, len(cols))
		}
		n, err := r.Read(batch)
		for i := 0; i < n; i++ {
			row := make([]any, len(cols))
			for ci, col := range cols {
				row[ci] = tableValue(batch[i][col.Name], col.Type)
			}
			if appendErr := t.AppendRow(row...); appendErr != nil {
				return nil, appendErr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	s.logger.Info("Parquet file read",
		zap.String("path", path),
		zap.Int("rows", t.NumRows()))
	return t, nil
}

// parquetSchema maps the table's columns onto an all-optional flat
// parquet schema.
func parquetSchema(name string, t *table.Table) (*parquet.Schema, error) {
	group := parquet.Group{}
	for _, col := range t.Columns() {
		var node parquet.Node
		switch col.Type {
		case table.Int:
			node = parquet.Int(64)
		case table.Float:
			node = parquet.Leaf(parquet.DoubleType)
		case table.String, table.Decimal:
			node = parquet.String()
		case table.Bool:
			node = parquet.Leaf(parquet.BooleanType)
		case table.Time:
			node = parquet.Timestamp(parquet.Millisecond)
		default:
			return nil, fmt.Errorf("column %s has unsupported type %s", col.Name, col.Type)
		}
		group[col.Name] = parquet.Optional(node)
	}
	return parquet.NewSchema(name, group), nil
}

// parquetValue converts a table cell to the value stored in the file.
func parquetValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x.UnixMilli()
	case decimal.Decimal:
		return x.StringFixed(6)
	default:
		return v
	}
}

// tableColumns rebuilds table columns from a file schema. Decimal columns
// come back as text; only curated tables are read back, and those carry
// no decimals.
func tableColumns(schema *parquet.Schema) ([]table.Column, error) {
	cols := make([]table.Column, 0, len(schema.Fields()))
	for _, field := range schema.Fields() {
		var typ table.Type
		logical := field.Type().LogicalType()
		switch {
		case logical != nil && logical.Timestamp != nil:
			typ = table.Time
		case logical != nil && logical.UTF8 != nil:
			typ = table.String
		case field.Type().Kind() == parquet.Int64:
			typ = table.Int
		case field.Type().Kind() == parquet.Double:
			typ = table.Float
		case field.Type().Kind() == parquet.Boolean:
			typ = table.Bool
		case field.Type().Kind() == parquet.ByteArray:
			typ = table.String
		default:
			return nil, fmt.Errorf("field %s has unsupported parquet type %s", field.Name(), field.Type())
		}
		cols = append(cols, table.Column{Name: field.Name(), Type: typ})
	}
	return cols, nil
}

// tableValue converts a value read from the file back to a table cell.
func tableValue(v any, typ table.Type) any {
	if v == nil {
		return nil
	}
	switch typ {
	case table.Time:
		if ms, ok := v.(int64); ok {
			return time.UnixMilli(ms).UTC()
		}
	case table.String:
		if b, ok := v.([]byte); ok {
			return string(b)
		}
	}
	return v
}
