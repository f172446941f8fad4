package product

import (
	"faturas/internal/core/tx"
	"faturas/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository = domain.CatalogRepository[*Product]

// Service provides product business logic.
type Service = domain.CatalogService[*Product]

// NewService creates a product service on the generic catalog plumbing.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})
}
