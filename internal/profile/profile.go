// Package profile computes per-table data profiles and renders them as
// HTML reports alongside the curated and consumable outputs.
package profile

import (
	"fmt"
	"html/template"
	"io"

	"github.com/shopspring/decimal"

	"github.com/NFIT95/data-pipeline/internal/table"
)

// Report is the data profile of one table.
type Report struct {
	Title   string
	Rows    int
	Columns []ColumnProfile
}

// ColumnProfile summarizes one column.
type ColumnProfile struct {
	Name     string
	Type     string
	Nulls    int
	Distinct int
	Min      string
	Max      string
}

// New profiles a table: row count and, per column, type, null count,
// distinct count and the numeric min/max.
func New(title string, t *table.Table) *Report {
	report := &Report{Title: title, Rows: t.NumRows()}
	for ci, col := range t.Columns() {
		cp := ColumnProfile{Name: col.Name, Type: col.Type.String()}
		distinct := make(map[string]struct{})
		var min, max decimal.Decimal
		hasNumeric := false
		for i := 0; i < t.NumRows(); i++ {
			v := t.Row(i)[ci]
			if v == nil {
				cp.Nulls++
				continue
			}
			distinct[table.CellKey(v)] = struct{}{}
			d, err := table.ToDecimal(v)
			if err != nil {
				continue
			}
			if !hasNumeric || d.LessThan(min) {
				min = d
			}
			if !hasNumeric || d.GreaterThan(max) {
				max = d
			}
			hasNumeric = true
		}
		cp.Distinct = len(distinct)
		if hasNumeric {
			cp.Min = min.String()
			cp.Max = max.String()
		}
		report.Columns = append(report.Columns, cp)
	}
	return report
}

var reportTemplate = template.Must(template.New("profile").Parse(`<!DOCTYPE html>
<html>
<head><title>Profile Report of {{.Title}}</title></head>
<body>
<h1>Profile Report of {{.Title}}</h1>
<p>{{.Rows}} rows, {{len .Columns}} columns</p>
<table border="1">
<tr><th>Column</th><th>Type</th><th>Nulls</th><th>Distinct</th><th>Min</th><th>Max</th></tr>
{{range .Columns}}<tr><td>{{.Name}}</td><td>{{.Type}}</td><td>{{.Nulls}}</td><td>{{.Distinct}}</td><td>{{.Min}}</td><td>{{.Max}}</td></tr>
{{end}}</table>
</body>
</html>
`))

// Render writes the report as HTML.
func (r *Report) Render(w io.Writer) error {
	if err := reportTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("failed to render profile report: %w", err)
	}
	return nil
}
