package dto

import (
	"faturas/internal/core/types"
	"faturas/internal/domain/catalogs/product"
)

// CreateProductRequest for creating products.
type CreateProductRequest struct {
	Code      string      `json:"code"`
	Name      string      `json:"name" binding:"required"`
	Unit      string      `json:"unit" binding:"required"`
	UnitPrice types.Money `json:"unitPrice"`
	NCM       *string     `json:"ncm"`

	ICMSRate   types.Money `json:"icmsRate"`
	IPIRate    types.Money `json:"ipiRate"`
	PISRate    types.Money `json:"pisRate"`
	COFINSRate types.Money `json:"cofinsRate"`
}

// ToEntity maps the request to a domain product.
func (r CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.Code, r.Name, r.Unit)
	p.UnitPrice = r.UnitPrice
	p.NCM = r.NCM
	p.ICMSRate = r.ICMSRate
	p.IPIRate = r.IPIRate
	p.PISRate = r.PISRate
	p.COFINSRate = r.COFINSRate
	return p
}

// UpdateProductRequest for updating products. Nil fields keep the
// stored value.
type UpdateProductRequest struct {
	Code      *string      `json:"code"`
	Name      *string      `json:"name"`
	Unit      *string      `json:"unit"`
	UnitPrice *types.Money `json:"unitPrice"`
	NCM       *string      `json:"ncm"`

	ICMSRate   *types.Money `json:"icmsRate"`
	IPIRate    *types.Money `json:"ipiRate"`
	PISRate    *types.Money `json:"pisRate"`
	COFINSRate *types.Money `json:"cofinsRate"`

	Version int `json:"version" binding:"required,min=1"`
}

// ApplyTo merges non-nil fields into an existing product.
func (r UpdateProductRequest) ApplyTo(p *product.Product) {
	if r.Code != nil {
		p.Code = *r.Code
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Unit != nil {
		p.Unit = *r.Unit
	}
	if r.UnitPrice != nil {
		p.UnitPrice = *r.UnitPrice
	}
	if r.NCM != nil {
		p.NCM = r.NCM
	}
	if r.ICMSRate != nil {
		p.ICMSRate = *r.ICMSRate
	}
	if r.IPIRate != nil {
		p.IPIRate = *r.IPIRate
	}
	if r.PISRate != nil {
		p.PISRate = *r.PISRate
	}
	if r.COFINSRate != nil {
		p.COFINSRate = *r.COFINSRate
	}
	p.SetVersion(r.Version)
}
