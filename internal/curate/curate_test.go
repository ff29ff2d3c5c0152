package curate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NFIT95/data-pipeline/internal/table"
)

func newTestTable(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New(
		table.Column{Name: "Id", Type: table.Int},
		table.Column{Name: "Score", Type: table.Float},
		table.Column{Name: "Name", Type: table.String},
		table.Column{Name: "Active", Type: table.Bool},
	)
	return tbl
}

func TestCurateFillsNullsByType(t *testing.T) {
	tbl := newTestTable(t)
	require.NoError(t, tbl.AppendRow(nil, nil, nil, nil))

	curated := Curate(tbl, time.Now())

	row := curated.Row(0)
	assert.Equal(t, int64(0), row[0])
	assert.Equal(t, float64(0), row[1])
	assert.Equal(t, "MISSING", row[2])
	assert.Equal(t, false, row[3])
}

func TestCurateRoundsFloatsHalfAwayFromZero(t *testing.T) {
	tbl := newTestTable(t)
	require.NoError(t, tbl.AppendRow(int64(1), 1.005, "a", true))
	require.NoError(t, tbl.AppendRow(int64(2), -1.005, "b", true))
	require.NoError(t, tbl.AppendRow(int64(3), 2.344, "c", true))

	curated := Curate(tbl, time.Now())

	v, err := curated.Value(0, "Score")
	require.NoError(t, err)
	assert.Equal(t, 1.01, v)
	v, err = curated.Value(1, "Score")
	require.NoError(t, err)
	assert.Equal(t, -1.01, v)
	v, err = curated.Value(2, "Score")
	require.NoError(t, err)
	assert.Equal(t, 2.34, v)
}

func TestCurateRemovesDuplicatesWithinBatch(t *testing.T) {
	tbl := newTestTable(t)
	require.NoError(t, tbl.AppendRow(int64(1), 1.0, "a", true))
	require.NoError(t, tbl.AppendRow(int64(1), 1.0, "a", true))
	require.NoError(t, tbl.AppendRow(int64(2), 1.0, "a", true))

	// Identical rows share the batch timestamp, so they still deduplicate.
	curated := Curate(tbl, time.Now())

	assert.Equal(t, 2, curated.NumRows())
}

func TestCurateSingleTimestampPerBatch(t *testing.T) {
	tbl := newTestTable(t)
	require.NoError(t, tbl.AppendRow(int64(1), 1.0, "a", true))
	require.NoError(t, tbl.AppendRow(int64(2), 2.0, "b", false))

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	curated := Curate(tbl, now)

	first, err := curated.Value(0, TimestampColumn)
	require.NoError(t, err)
	second, err := curated.Value(1, TimestampColumn)
	require.NoError(t, err)
	assert.Equal(t, now, first)
	assert.Equal(t, first, second)
}

func TestCurateDoesNotMutateInput(t *testing.T) {
	tbl := newTestTable(t)
	require.NoError(t, tbl.AppendRow(int64(1), nil, nil, nil))

	_ = Curate(tbl, time.Now())

	v, err := tbl.Value(0, "Score")
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, 4, tbl.NumCols())
}

func TestCurateIdempotentExceptTimestamp(t *testing.T) {
	tbl := newTestTable(t)
	require.NoError(t, tbl.AppendRow(int64(1), 1.239, nil, true))
	require.NoError(t, tbl.AppendRow(int64(2), -5.555, "b", nil))

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	once := Curate(tbl, now)

	// Re-curating refreshes the timestamp but the already cleaned data
	// columns are a fixed point.
	twice := Curate(once.Clone(), now.Add(time.Hour))

	ts, err := twice.Value(0, TimestampColumn)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), ts)

	for _, name := range []string{"Id", "Score", "Name", "Active"} {
		for i := 0; i < once.NumRows(); i++ {
			before, err := once.Value(i, name)
			require.NoError(t, err)
			after, err := twice.Value(i, name)
			require.NoError(t, err)
			assert.Equal(t, before, after, "column %s row %d", name, i)
		}
	}
}
