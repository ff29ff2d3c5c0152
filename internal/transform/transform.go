// Package transform builds the analytics base table: it renames every
// curated entity's columns into a disjoint namespace, left-joins the five
// entities anchored on sales, derives the ratio features and projects the
// configured output columns.
package transform

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/NFIT95/data-pipeline/internal/entity"
	"github.com/NFIT95/data-pipeline/internal/table"
	"github.com/NFIT95/data-pipeline/internal/util"
)

// Transformer joins curated tables and derives features.
type Transformer struct {
	mainCurrencies map[string]struct{}
	logger         *zap.Logger
}

// New creates a transformer. mainCurrencies selects the countries whose
// summed quantity becomes the "main countries" denominator.
func New(mainCurrencies []string) *Transformer {
	set := make(map[string]struct{}, len(mainCurrencies))
	for _, c := range mainCurrencies {
		set[c] = struct{}{}
	}
	return &Transformer{mainCurrencies: set, logger: util.GetLogger()}
}

// BuildConsumable runs the full transform: rename, join, features,
// projection onto columns.
func (tr *Transformer) BuildConsumable(tables map[entity.Kind]*table.Table, columns []string) (*table.Table, error) {
	renamed, err := RenameForJoin(tables)
	if err != nil {
		return nil, err
	}
	joined, err := Join(renamed)
	if err != nil {
		return nil, err
	}
	enriched, err := tr.AddFeatures(joined)
	if err != nil {
		return nil, err
	}
	consumable, err := enriched.Select(columns)
	if err != nil {
		return nil, fmt.Errorf("failed to select consumable columns: %w", err)
	}
	tr.logger.Info("Consumable table created",
		zap.Int("rows", consumable.NumRows()),
		zap.Int("columns", consumable.NumCols()))
	return consumable, nil
}

// RenameForJoin prefixes every column of every entity table with the
// entity's singular prefix, giving the five tables a disjoint column
// namespace. The sale key is renamed back to SaleId afterwards so the
// join and output key stays unprefixed. A mapping that would collide
// fails instead of silently overwriting.
func RenameForJoin(tables map[entity.Kind]*table.Table) (map[entity.Kind]*table.Table, error) {
	out := make(map[entity.Kind]*table.Table, len(tables))
	for kind, t := range tables {
		renamed := t.Clone()
		mapping := make(map[string]string, renamed.NumCols())
		for _, name := range renamed.ColumnNames() {
			mapping[name] = kind.Prefix() + name
		}
		if err := renamed.RenameColumns(mapping); err != nil {
			return nil, fmt.Errorf("failed to rename %s columns: %w", kind, err)
		}
		out[kind] = renamed
	}
	if sales, ok := out[entity.Sales]; ok {
		if err := sales.RenameColumns(map[string]string{"SaleSaleId": "SaleId"}); err != nil {
			return nil, fmt.Errorf("failed to restore sale key: %w", err)
		}
	}
	return out, nil
}

// Join executes the fixed join plan, all left joins anchored on sales:
// products on the product key, orders on the order key, customers on the
// order's customer key, countries on the customer's country code. Every
// sale row survives; unmatched lookups leave nulls. A duplicated right
// key surfaces as table.ErrJoinCardinality.
func Join(tables map[entity.Kind]*table.Table) (*table.Table, error) {
	for _, kind := range entity.All() {
		if tables[kind] == nil {
			return nil, fmt.Errorf("missing curated table: %s", kind)
		}
	}
	joined, err := tables[entity.Sales].LeftJoin(tables[entity.Products], "SaleProductId", "ProductProductId")
	if err != nil {
		return nil, fmt.Errorf("failed to join products: %w", err)
	}
	joined, err = joined.LeftJoin(tables[entity.Orders], "SaleOrderId", "OrderOrderId")
	if err != nil {
		return nil, fmt.Errorf("failed to join orders: %w", err)
	}
	joined, err = joined.LeftJoin(tables[entity.Customers], "OrderCustomerId", "CustomerCustomerId")
	if err != nil {
		return nil, fmt.Errorf("failed to join customers: %w", err)
	}
	joined, err = joined.LeftJoin(tables[entity.Countries], "CustomerCountry", "CountryCountry")
	if err != nil {
		return nil, fmt.Errorf("failed to join countries: %w", err)
	}
	return joined, nil
}
