package entity

// Record is one decoded, schema-validated raw row that can be turned into
// a table row for its entity.
type Record interface {
	Row() []any
}

// SaleRecord is the schema of one sales line.
type SaleRecord struct {
	SaleId    *int64 `json:"SaleId" validate:"required"`
	OrderId   *int64 `json:"OrderId" validate:"required"`
	ProductId *int64 `json:"ProductId" validate:"required"`
	Quantity  *int64 `json:"Quantity" validate:"required,min=0"`
}

// Row converts the record into a table row in Sales schema order.
func (r *SaleRecord) Row() []any {
	return []any{deref(r.SaleId), deref(r.OrderId), deref(r.ProductId), deref(r.Quantity)}
}

// ProductRecord is the schema of one products line.
type ProductRecord struct {
	ProductId           *int64  `json:"ProductId" validate:"required"`
	Name                *string `json:"Name" validate:"required"`
	ManufacturedCountry *string `json:"ManufacturedCountry" validate:"required"`
	WeightGrams         *int64  `json:"WeightGrams" validate:"required"`
}

// Row converts the record into a table row in Products schema order.
func (r *ProductRecord) Row() []any {
	return []any{deref(r.ProductId), deref(r.Name), deref(r.ManufacturedCountry), deref(r.WeightGrams)}
}

// OrderRecord is the schema of one orders line.
type OrderRecord struct {
	OrderId    *int64  `json:"OrderId" validate:"required"`
	CustomerId *int64  `json:"CustomerId" validate:"required"`
	Date       *string `json:"Date" validate:"required"`
}

// Row converts the record into a table row in Orders schema order.
func (r *OrderRecord) Row() []any {
	return []any{deref(r.OrderId), deref(r.CustomerId), deref(r.Date)}
}

// CustomerRecord is the schema of one customers line.
type CustomerRecord struct {
	CustomerId *int64  `json:"CustomerId" validate:"required"`
	Active     *bool   `json:"Active" validate:"required"`
	Name       *string `json:"Name" validate:"required"`
	Address    *string `json:"Address" validate:"required"`
	City       *string `json:"City" validate:"required"`
	Country    *string `json:"Country" validate:"required"`
	Email      *string `json:"Email" validate:"required"`
}

// Row converts the record into a table row in Customers schema order.
func (r *CustomerRecord) Row() []any {
	return []any{
		deref(r.CustomerId), deref(r.Active), deref(r.Name), deref(r.Address),
		deref(r.City), deref(r.Country), deref(r.Email),
	}
}

// CountryRecord is the schema of one countries line. The demographic and
// economic attributes are optional in the raw data.
type CountryRecord struct {
	Country                      *string  `json:"Country" validate:"required"`
	Currency                     *string  `json:"Currency" validate:"required"`
	Name                         *string  `json:"Name" validate:"required"`
	Region                       *string  `json:"Region" validate:"required"`
	Population                   *int64   `json:"Population" validate:"required"`
	AreaSqMi                     *float64 `json:"AreaSqMi"`
	PopDensityPerSqMi            *float64 `json:"PopDensityPerSqMi"`
	CoastlineCoastPerAreaRatio   *float64 `json:"CoastlineCoastPerAreaRatio"`
	NetMigration                 *float64 `json:"NetMigration"`
	InfantMortalityPer1000Births *float64 `json:"InfantMortalityPer1000Births"`
	GDPPerCapita                 *float64 `json:"GDPPerCapita"`
	Literacy                     *float64 `json:"Literacy"`
	PhonesPer1000                *float64 `json:"PhonesPer1000"`
	Arable                       *float64 `json:"Arable"`
	Crops                        *float64 `json:"Crops"`
	Other                        *float64 `json:"Other"`
	Climate                      *float64 `json:"Climate"`
	Birthrate                    *float64 `json:"Birthrate"`
	Deathrate                    *float64 `json:"Deathrate"`
	Agriculture                  *float64 `json:"Agriculture"`
	Industry                     *float64 `json:"Industry"`
	Service                      *float64 `json:"Service"`
}

// Row converts the record into a table row in Countries schema order.
func (r *CountryRecord) Row() []any {
	return []any{
		deref(r.Country), deref(r.Currency), deref(r.Name), deref(r.Region), deref(r.Population),
		deref(r.AreaSqMi), deref(r.PopDensityPerSqMi), deref(r.CoastlineCoastPerAreaRatio),
		deref(r.NetMigration), deref(r.InfantMortalityPer1000Births), deref(r.GDPPerCapita),
		deref(r.Literacy), deref(r.PhonesPer1000), deref(r.Arable), deref(r.Crops),
		deref(r.Other), deref(r.Climate), deref(r.Birthrate), deref(r.Deathrate),
		deref(r.Agriculture), deref(r.Industry), deref(r.Service),
	}
}

// NewRecord returns an empty record of the entity's schema, ready for
// decoding. Dispatch is by Kind, not by name lookup.
func NewRecord(k Kind) Record {
	switch k {
	case Sales:
		return &SaleRecord{}
	case Products:
		return &ProductRecord{}
	case Orders:
		return &OrderRecord{}
	case Customers:
		return &CustomerRecord{}
	case Countries:
		return &CountryRecord{}
	}
	return nil
}

// deref unwraps an optional field into a table cell, mapping absent
// values to null.
func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
