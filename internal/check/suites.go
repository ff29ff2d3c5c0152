package check

import (
	"github.com/NFIT95/data-pipeline/internal/curate"
	"github.com/NFIT95/data-pipeline/internal/entity"
)

// SuiteFor builds the curated-data expectation suite of the given entity
// under the given suite name. Every column of the curated schema must
// exist and be non-null, uniqueness keys must hold, and country and
// currency codes carry fixed lengths.
func SuiteFor(kind entity.Kind, suiteName string) Suite {
	s := Suite{Name: suiteName}

	for _, col := range kind.Schema() {
		s.Rules = append(s.Rules,
			Rule{Column: col.Name, Kind: ColumnExists},
			Rule{Column: col.Name, Kind: NotNull},
		)
	}
	s.Rules = append(s.Rules,
		Rule{Column: curate.TimestampColumn, Kind: ColumnExists},
		Rule{Column: curate.TimestampColumn, Kind: NotNull},
	)

	switch kind {
	case entity.Sales:
		s.Rules = append(s.Rules, Rule{Column: "SaleId", Kind: Unique})
	case entity.Products:
		s.Rules = append(s.Rules,
			Rule{Column: "ProductId", Kind: Unique},
			Rule{Column: "Name", Kind: Unique},
			Rule{Column: "ManufacturedCountry", Kind: LengthEquals, Length: 2},
		)
	case entity.Orders:
		s.Rules = append(s.Rules, Rule{Column: "OrderId", Kind: Unique})
	case entity.Customers:
		s.Rules = append(s.Rules,
			Rule{Column: "CustomerId", Kind: Unique},
			Rule{Column: "Country", Kind: LengthEquals, Length: 2},
		)
	case entity.Countries:
		s.Rules = append(s.Rules,
			Rule{Column: "Country", Kind: Unique},
			Rule{Column: "Country", Kind: LengthEquals, Length: 2},
			Rule{Column: "Currency", Kind: LengthEquals, Length: 3},
		)
	}
	return s
}

// ConsumableSuite builds the expectation suite of the analytics base
// table: the sale key stays unique and non-null and every selected
// column must have survived the projection.
func ConsumableSuite(suiteName string, columns []string) Suite {
	s := Suite{Name: suiteName}
	s.Rules = append(s.Rules,
		Rule{Column: "SaleId", Kind: NotNull},
		Rule{Column: "SaleId", Kind: Unique},
	)
	for _, name := range columns {
		s.Rules = append(s.Rules, Rule{Column: name, Kind: ColumnExists})
	}
	return s
}
