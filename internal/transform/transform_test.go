package transform

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NFIT95/data-pipeline/internal/entity"
	"github.com/NFIT95/data-pipeline/internal/table"
)

// fixture builds five small curated tables: two countries, two products,
// two customers, two orders and four sales. Country IT totals 50
// quantity, country FR totals 150.
func fixture(t *testing.T) map[entity.Kind]*table.Table {
	t.Helper()

	sales := table.New(entity.Sales.Schema()...)
	require.NoError(t, sales.AppendRow(int64(1), int64(10), int64(100), int64(5)))
	require.NoError(t, sales.AppendRow(int64(2), int64(10), int64(101), int64(45)))
	require.NoError(t, sales.AppendRow(int64(3), int64(11), int64(100), int64(150)))
	require.NoError(t, sales.AppendRow(int64(4), int64(99), int64(999), int64(0)))

	products := table.New(entity.Products.Schema()...)
	require.NoError(t, products.AppendRow(int64(100), "Anvil", "IT", int64(2000)))
	require.NoError(t, products.AppendRow(int64(101), "Hammer", "DE", int64(500)))

	orders := table.New(entity.Orders.Schema()...)
	require.NoError(t, orders.AppendRow(int64(10), int64(1000), "2024-05-01"))
	require.NoError(t, orders.AppendRow(int64(11), int64(1001), "2024-05-02"))

	customers := table.New(entity.Customers.Schema()...)
	require.NoError(t, customers.AppendRow(int64(1000), true, "Alice", "Via Roma 1", "Milano", "IT", "alice@example.com"))
	require.NoError(t, customers.AppendRow(int64(1001), false, "Bob", "Rue de Lyon 2", "Paris", "FR", "bob@example.com"))

	countries := table.New(
		table.Column{Name: "Country", Type: table.String},
		table.Column{Name: "Currency", Type: table.String},
		table.Column{Name: "Name", Type: table.String},
		table.Column{Name: "Region", Type: table.String},
		table.Column{Name: "Population", Type: table.Int},
	)
	require.NoError(t, countries.AppendRow("IT", "EUR", "Italy", "EUROPE", int64(59000000)))
	require.NoError(t, countries.AppendRow("FR", "EUR", "France", "EUROPE", int64(67000000)))

	return map[entity.Kind]*table.Table{
		entity.Sales:     sales,
		entity.Products:  products,
		entity.Orders:    orders,
		entity.Customers: customers,
		entity.Countries: countries,
	}
}

func decimalAt(t *testing.T, tbl *table.Table, row int, column string) decimal.Decimal {
	t.Helper()
	v, err := tbl.Value(row, column)
	require.NoError(t, err)
	require.NotNil(t, v, "column %s row %d", column, row)
	d, ok := v.(decimal.Decimal)
	require.True(t, ok, "column %s row %d is %T", column, row, v)
	return d
}

func TestRenameForJoinPrefixesAndRestoresSaleId(t *testing.T) {
	renamed, err := RenameForJoin(fixture(t))
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"SaleId", "SaleOrderId", "SaleProductId", "SaleQuantity"},
		renamed[entity.Sales].ColumnNames())
	assert.Equal(t,
		[]string{"ProductProductId", "ProductName", "ProductManufacturedCountry", "ProductWeightGrams"},
		renamed[entity.Products].ColumnNames())
	// "countries" prefixes as Country, not Countrie.
	assert.Contains(t, renamed[entity.Countries].ColumnNames(), "CountryCurrency")
	assert.Contains(t, renamed[entity.Countries].ColumnNames(), "CountryCountry")
}

func TestJoinPreservesSaleRowCount(t *testing.T) {
	renamed, err := RenameForJoin(fixture(t))
	require.NoError(t, err)

	joined, err := Join(renamed)
	require.NoError(t, err)

	assert.Equal(t, 4, joined.NumRows())

	// Sale 4 references an unknown product and order: its lookups are null.
	name, err := joined.Value(3, "ProductName")
	require.NoError(t, err)
	assert.Nil(t, name)
	country, err := joined.Value(3, "CountryName")
	require.NoError(t, err)
	assert.Nil(t, country)
}

func TestJoinFailsOnDuplicateRightKey(t *testing.T) {
	tables := fixture(t)
	require.NoError(t, tables[entity.Products].AppendRow(int64(100), "Anvil Mk2", "IT", int64(2500)))

	renamed, err := RenameForJoin(tables)
	require.NoError(t, err)

	_, err = Join(renamed)
	assert.ErrorIs(t, err, table.ErrJoinCardinality)
}

func TestJoinMissingTable(t *testing.T) {
	tables := fixture(t)
	delete(tables, entity.Countries)

	renamed, err := RenameForJoin(tables)
	require.NoError(t, err)

	_, err = Join(renamed)
	assert.Error(t, err)
}

func enriched(t *testing.T, mainCurrencies []string) *table.Table {
	t.Helper()
	renamed, err := RenameForJoin(fixture(t))
	require.NoError(t, err)
	joined, err := Join(renamed)
	require.NoError(t, err)
	out, err := New(mainCurrencies).AddFeatures(joined)
	require.NoError(t, err)
	return out
}

func TestWeightGramsPerSaleQuantity(t *testing.T) {
	out := enriched(t, []string{"EUR"})

	// Sale 1: 2000 grams over quantity 5.
	assert.Equal(t, "400.000000", decimalAt(t, out, 0, ColWeightPerQuantity).StringFixed(6))

	// Sale 4 has quantity 0: division by zero yields null.
	v, err := out.Value(3, ColWeightPerQuantity)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestCountryQuantityOverTotalQuantityPercentage(t *testing.T) {
	out := enriched(t, []string{"EUR"})

	// Italy's rows: 50 of a global total of 200.
	assert.Equal(t, "0.250000", decimalAt(t, out, 0, ColCountryOverTotal).StringFixed(6))
	assert.Equal(t, "0.250000", decimalAt(t, out, 1, ColCountryOverTotal).StringFixed(6))
	// France: 150 of 200.
	assert.Equal(t, "0.750000", decimalAt(t, out, 2, ColCountryOverTotal).StringFixed(6))
}

func TestQuantityOverTotalCountryQuantityPercentage(t *testing.T) {
	out := enriched(t, []string{"EUR"})

	// Sale 1 is 5 of Italy's 50; sale 2 is 45 of 50.
	assert.Equal(t, "0.100000", decimalAt(t, out, 0, ColQuantityOverCountry).StringFixed(6))
	assert.Equal(t, "0.900000", decimalAt(t, out, 1, ColQuantityOverCountry).StringFixed(6))

	// Per country, the ratios sum to one.
	sum := decimalAt(t, out, 0, ColQuantityOverCountry).Add(decimalAt(t, out, 1, ColQuantityOverCountry))
	assert.True(t, sum.Sub(decimal.NewFromInt(1)).Abs().LessThanOrEqual(decimal.New(1, -6)))
}

func TestQuantityOverMainCountriesQuantityPercentage(t *testing.T) {
	out := enriched(t, []string{"EUR"})

	// Both countries use EUR, so the main total is 200.
	assert.Equal(t, "0.025000", decimalAt(t, out, 0, ColQuantityOverMain).StringFixed(6))
	assert.Equal(t, "0.750000", decimalAt(t, out, 2, ColQuantityOverMain).StringFixed(6))
}

func TestMainCountriesTotalMissingColumn(t *testing.T) {
	totals := table.New(table.Column{Name: "CountryName", Type: table.String})
	require.NoError(t, totals.AppendRow("Italy"))

	_, err := New([]string{"EUR"}).mainCountriesTotal(totals)

	assert.ErrorContains(t, err, "CountryCurrency")
}

func TestMainCurrenciesFilterNoMatchYieldsNull(t *testing.T) {
	out := enriched(t, []string{"JPY"})

	// No country matches the currency set: the denominator is zero and
	// the feature is null everywhere.
	for i := 0; i < out.NumRows(); i++ {
		v, err := out.Value(i, ColQuantityOverMain)
		require.NoError(t, err)
		assert.Nil(t, v)
	}
}

func TestBuildConsumableProjectsColumns(t *testing.T) {
	columns := []string{"SaleId", "SaleQuantity", "CountryName", ColWeightPerQuantity}

	consumable, err := New([]string{"EUR"}).BuildConsumable(fixture(t), columns)
	require.NoError(t, err)

	assert.Equal(t, columns, consumable.ColumnNames())
	assert.Equal(t, 4, consumable.NumRows())
}

func TestCountryPercentagesSumToOneGlobally(t *testing.T) {
	out := enriched(t, []string{"EUR"})

	// Per distinct country, take the shared percentage once and sum.
	perCountry := map[string]decimal.Decimal{}
	for i := 0; i < out.NumRows(); i++ {
		country, err := out.Value(i, "CountryName")
		require.NoError(t, err)
		if country == nil {
			continue
		}
		perCountry[country.(string)] = decimalAt(t, out, i, ColCountryOverTotal)
	}
	sum := decimal.Zero
	for _, v := range perCountry {
		sum = sum.Add(v)
	}
	assert.True(t, sum.Sub(decimal.NewFromInt(1)).Abs().LessThanOrEqual(decimal.New(1, -6)),
		"sum = %s", sum)
}
