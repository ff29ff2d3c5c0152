package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/NFIT95/data-pipeline/internal/table"
)

// Derived feature column names.
const (
	ColTotalPerCountry     = "TotalSaleQuantityPerCountry"
	ColCountryOverTotal    = "CountryQuantityOverTotalQuantityPercentage"
	ColQuantityOverCountry = "QuantityOverTotalCountryQuantityPercentage"
	ColQuantityOverMain    = "QuantityOverMainCountriesQuantityPercentage"
	ColWeightPerQuantity   = "ProductWeightGramsPerSaleQuantity"
)

// featureScale is the fixed number of fractional digits every derived
// decimal carries.
const featureScale = 6

// AddFeatures derives the four ratio features plus the per-country total
// on the joined table. All arithmetic is fixed-point decimal at scale 6.
// A division whose denominator is zero or whose operand is null yields a
// null cell rather than failing the batch.
func (tr *Transformer) AddFeatures(joined *table.Table) (*table.Table, error) {
	totals, err := joined.GroupBySum(
		[]string{"CountryName", "CountryCurrency"}, "SaleQuantity", ColTotalPerCountry)
	if err != nil {
		return nil, fmt.Errorf("failed to total quantities per country: %w", err)
	}

	globalTotal, err := joined.SumColumn("SaleQuantity")
	if err != nil {
		return nil, fmt.Errorf("failed to total quantities: %w", err)
	}

	perCountry, err := totals.Select([]string{"CountryName", ColTotalPerCountry})
	if err != nil {
		return nil, fmt.Errorf("failed to project country totals: %w", err)
	}
	out, err := joined.LeftJoin(perCountry, "CountryName", "CountryName")
	if err != nil {
		return nil, fmt.Errorf("failed to join country totals: %w", err)
	}

	mainTotal, err := tr.mainCountriesTotal(totals)
	if err != nil {
		return nil, err
	}

	out.AddComputedColumn(table.Column{Name: ColCountryOverTotal, Type: table.Decimal},
		scalarRatio(out, ColTotalPerCountry, globalTotal))

	out.AddComputedColumn(table.Column{Name: ColQuantityOverCountry, Type: table.Decimal},
		rowRatio(out, "SaleQuantity", ColTotalPerCountry))

	out.AddComputedColumn(table.Column{Name: ColQuantityOverMain, Type: table.Decimal},
		scalarRatio(out, "SaleQuantity", mainTotal))

	out.AddComputedColumn(table.Column{Name: ColWeightPerQuantity, Type: table.Decimal},
		rowRatio(out, "ProductWeightGrams", "SaleQuantity"))

	return out, nil
}

// mainCountriesTotal sums the per-country totals of the countries whose
// currency is in the configured main set. The resulting scalar is shared
// by every row, the cross-join onto a one-value table collapsed into a
// constant.
func (tr *Transformer) mainCountriesTotal(totals *table.Table) (decimal.Decimal, error) {
	sum := decimal.Zero
	ci, ok := totals.ColumnIndex("CountryCurrency")
	if !ok {
		return decimal.Zero, fmt.Errorf("country totals have no column CountryCurrency")
	}
	ti, ok := totals.ColumnIndex(ColTotalPerCountry)
	if !ok {
		return decimal.Zero, fmt.Errorf("country totals have no column %s", ColTotalPerCountry)
	}
	for i := 0; i < totals.NumRows(); i++ {
		currency, ok := totals.Row(i)[ci].(string)
		if !ok {
			continue
		}
		if _, selected := tr.mainCurrencies[currency]; !selected {
			continue
		}
		if d, ok := totals.Row(i)[ti].(decimal.Decimal); ok {
			sum = sum.Add(d)
		}
	}
	return sum, nil
}

// divide performs the shared scale-6 division, mapping a zero denominator
// to null.
func divide(num, den decimal.Decimal) any {
	if den.IsZero() {
		return nil
	}
	return num.DivRound(den, featureScale)
}

// rowRatio builds a compute function dividing one column by another,
// null when either operand is null.
func rowRatio(t *table.Table, numCol, denCol string) func(row []any) any {
	ni, _ := t.ColumnIndex(numCol)
	di, _ := t.ColumnIndex(denCol)
	return func(row []any) any {
		if row[ni] == nil || row[di] == nil {
			return nil
		}
		num, err := table.ToDecimal(row[ni])
		if err != nil {
			return nil
		}
		den, err := table.ToDecimal(row[di])
		if err != nil {
			return nil
		}
		return divide(num, den)
	}
}

// scalarRatio builds a compute function dividing one column by a fixed
// scalar denominator.
func scalarRatio(t *table.Table, numCol string, den decimal.Decimal) func(row []any) any {
	ni, _ := t.ColumnIndex(numCol)
	return func(row []any) any {
		if row[ni] == nil {
			return nil
		}
		num, err := table.ToDecimal(row[ni])
		if err != nil {
			return nil
		}
		return divide(num, den)
	}
}
