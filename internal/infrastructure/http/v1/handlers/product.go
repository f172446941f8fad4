package handlers

import (
	"faturas/internal/domain/catalogs/product"
	"faturas/internal/infrastructure/http/v1/dto"
)

// ProductHandler handles HTTP requests for the Product catalog.
type ProductHandler struct {
	*CatalogHandler[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	cfg := CatalogHandlerConfig[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]{
		Service:    service,
		EntityName: "product",
		MapCreateDTO: func(req dto.CreateProductRequest) (*product.Product, error) {
			return req.ToEntity(), nil
		},
		MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) error {
			req.ApplyTo(existing)
			return nil
		},
	}

	return &ProductHandler{
		CatalogHandler: NewCatalogHandler(base, cfg),
	}
}
