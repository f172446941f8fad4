package party

import (
	"context"

	"faturas/internal/domain"
)

// Repository defines the interface for Party persistence.
type Repository interface {
	domain.CatalogRepository[*Party]

	// FindByTaxID retrieves a party by canonical tax id (unique system-wide).
	FindByTaxID(ctx context.Context, taxID string) (*Party, error)
}
