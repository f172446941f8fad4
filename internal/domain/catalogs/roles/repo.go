package roles

import (
	"context"

	"faturas/internal/core/entity"
	"faturas/internal/core/id"
	"faturas/internal/domain"
)

// Repository defines persistence for a role catalog. Exactly one role
// record of each kind may exist per party (unique party_id).
type Repository[T entity.Validatable] interface {
	domain.CatalogRepository[T]

	// FindByPartyID retrieves the role record for a party.
	FindByPartyID(ctx context.Context, partyID id.ID) (T, error)
}

type (
	ClientRepository   = Repository[*Client]
	SupplierRepository = Repository[*Supplier]
	CarrierRepository  = Repository[*Carrier]
)
