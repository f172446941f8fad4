// Package product provides the Product catalog. Besides the commercial
// fields, a product carries the default tax aliquots applied when an
// invoice line does not override them.
package product

import (
	"context"

	"faturas/internal/core/apperror"
	"faturas/internal/core/entity"
	"faturas/internal/core/types"
)

// Product represents a sellable or purchasable item.
type Product struct {
	entity.Catalog

	// Unit is the commercial unit of measure (UN, KG, CX, ...)
	Unit string `db:"unit" json:"unit"`

	// UnitPrice is the default list price
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// NCM is the Mercosul common nomenclature code (8 digits)
	NCM *string `db:"ncm" json:"ncm,omitempty"`

	// Default tax aliquots in percent. Zero means the tax does not apply
	// to this product by default.
	ICMSRate   types.Money `db:"icms_rate" json:"icmsRate"`
	IPIRate    types.Money `db:"ipi_rate" json:"ipiRate"`
	PISRate    types.Money `db:"pis_rate" json:"pisRate"`
	COFINSRate types.Money `db:"cofins_rate" json:"cofinsRate"`
}

// NewProduct creates a product with required fields.
func NewProduct(code, name, unit string) *Product {
	return &Product{
		Catalog:    entity.NewCatalog(code, name),
		Unit:       unit,
		UnitPrice:  types.Zero(),
		ICMSRate:   types.Zero(),
		IPIRate:    types.Zero(),
		PISRate:    types.Zero(),
		COFINSRate: types.Zero(),
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.Unit == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}

	if p.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice").
			WithDetail("value", p.UnitPrice.String())
	}

	for field, rate := range map[string]types.Money{
		"icmsRate":   p.ICMSRate,
		"ipiRate":    p.IPIRate,
		"pisRate":    p.PISRate,
		"cofinsRate": p.COFINSRate,
	} {
		if rate.IsNegative() || rate.GreaterThan(types.MustMoney("100")) {
			return apperror.NewValidation("tax rate must be between 0 and 100").
				WithDetail("field", field).
				WithDetail("value", rate.String())
		}
	}

	return nil
}
