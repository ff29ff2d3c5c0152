package profile

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NFIT95/data-pipeline/internal/table"
)

func profiledTable(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New(
		table.Column{Name: "Id", Type: table.Int},
		table.Column{Name: "Score", Type: table.Float},
		table.Column{Name: "Name", Type: table.String},
		table.Column{Name: "Ratio", Type: table.Decimal},
		table.Column{Name: "CreatedTimeStamp", Type: table.Time},
	)
	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, tbl.AppendRow(int64(1), -2.5, "anvil", decimal.RequireFromString("0.25"), stamp))
	require.NoError(t, tbl.AppendRow(int64(2), 7.25, "anvil", decimal.RequireFromString("0.75"), stamp))
	require.NoError(t, tbl.AppendRow(int64(3), nil, nil, nil, stamp))
	return tbl
}

func columnByName(t *testing.T, r *Report, name string) ColumnProfile {
	t.Helper()
	for _, cp := range r.Columns {
		if cp.Name == name {
			return cp
		}
	}
	t.Fatalf("no column %s in report", name)
	return ColumnProfile{}
}

func TestNewComputesColumnStats(t *testing.T) {
	report := New("products", profiledTable(t))

	assert.Equal(t, "products", report.Title)
	assert.Equal(t, 3, report.Rows)
	require.Len(t, report.Columns, 5)

	id := columnByName(t, report, "Id")
	assert.Equal(t, "int", id.Type)
	assert.Equal(t, 0, id.Nulls)
	assert.Equal(t, 3, id.Distinct)
	assert.Equal(t, "1", id.Min)
	assert.Equal(t, "3", id.Max)

	score := columnByName(t, report, "Score")
	assert.Equal(t, 1, score.Nulls)
	assert.Equal(t, 2, score.Distinct)
	assert.Equal(t, "-2.5", score.Min)
	assert.Equal(t, "7.25", score.Max)

	ratio := columnByName(t, report, "Ratio")
	assert.Equal(t, 1, ratio.Nulls)
	assert.Equal(t, "0.25", ratio.Min)
	assert.Equal(t, "0.75", ratio.Max)

	// Nulls do not count as a distinct value, duplicates collapse, and
	// text columns carry no numeric min/max.
	name := columnByName(t, report, "Name")
	assert.Equal(t, 1, name.Nulls)
	assert.Equal(t, 1, name.Distinct)
	assert.Empty(t, name.Min)
	assert.Empty(t, name.Max)

	created := columnByName(t, report, "CreatedTimeStamp")
	assert.Equal(t, 0, created.Nulls)
	assert.Equal(t, 1, created.Distinct)
}

func TestRender(t *testing.T) {
	report := New("analytics_base_table", profiledTable(t))

	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf))

	html := buf.String()
	assert.Contains(t, html, "Profile Report of analytics_base_table")
	assert.Contains(t, html, "3 rows, 5 columns")
	assert.Contains(t, html, "<td>Score</td>")
	assert.Contains(t, html, "<td>7.25</td>")
}
