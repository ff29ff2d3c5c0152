// Package entity defines the five source entities the pipeline ingests,
// their JSON schemas and their column layouts.
package entity

import (
	"fmt"

	"github.com/NFIT95/data-pipeline/internal/table"
)

// Kind identifies one of the source entities.
type Kind int

const (
	Sales Kind = iota
	Products
	Orders
	Customers
	Countries
)

// All returns the entities in fixed processing order. The join stage
// requires every curated table, so the order is part of the contract.
func All() []Kind {
	return []Kind{Sales, Products, Orders, Customers, Countries}
}

// String returns the plural entity name, which is also the raw file name.
func (k Kind) String() string {
	switch k {
	case Sales:
		return "sales"
	case Products:
		return "products"
	case Orders:
		return "orders"
	case Customers:
		return "customers"
	case Countries:
		return "countries"
	}
	return "unknown"
}

// Prefix returns the singular display prefix used when renaming columns
// ahead of the join. Configured per entity rather than derived from the
// plural name, since "countries" does not singularize by dropping an "s".
func (k Kind) Prefix() string {
	switch k {
	case Sales:
		return "Sale"
	case Products:
		return "Product"
	case Orders:
		return "Order"
	case Customers:
		return "Customer"
	case Countries:
		return "Country"
	}
	return "unknown"
}

// KindOf resolves an entity name to its Kind.
func KindOf(name string) (Kind, error) {
	for _, k := range All() {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown entity: %s", name)
}

// Schema returns the column layout of the entity's table.
func (k Kind) Schema() []table.Column {
	switch k {
	case Sales:
		return []table.Column{
			{Name: "SaleId", Type: table.Int},
			{Name: "OrderId", Type: table.Int},
			{Name: "ProductId", Type: table.Int},
			{Name: "Quantity", Type: table.Int},
		}
	case Products:
		return []table.Column{
			{Name: "ProductId", Type: table.Int},
			{Name: "Name", Type: table.String},
			{Name: "ManufacturedCountry", Type: table.String},
			{Name: "WeightGrams", Type: table.Int},
		}
	case Orders:
		return []table.Column{
			{Name: "OrderId", Type: table.Int},
			{Name: "CustomerId", Type: table.Int},
			{Name: "Date", Type: table.String},
		}
	case Customers:
		return []table.Column{
			{Name: "CustomerId", Type: table.Int},
			{Name: "Active", Type: table.Bool},
			{Name: "Name", Type: table.String},
			{Name: "Address", Type: table.String},
			{Name: "City", Type: table.String},
			{Name: "Country", Type: table.String},
			{Name: "Email", Type: table.String},
		}
	case Countries:
		cols := []table.Column{
			{Name: "Country", Type: table.String},
			{Name: "Currency", Type: table.String},
			{Name: "Name", Type: table.String},
			{Name: "Region", Type: table.String},
			{Name: "Population", Type: table.Int},
		}
		for _, name := range countryOptionalColumns {
			cols = append(cols, table.Column{Name: name, Type: table.Float})
		}
		return cols
	}
	return nil
}

var countryOptionalColumns = []string{
	"AreaSqMi",
	"PopDensityPerSqMi",
	"CoastlineCoastPerAreaRatio",
	"NetMigration",
	"InfantMortalityPer1000Births",
	"GDPPerCapita",
	"Literacy",
	"PhonesPer1000",
	"Arable",
	"Crops",
	"Other",
	"Climate",
	"Birthrate",
	"Deathrate",
	"Agriculture",
	"Industry",
	"Service",
}
