package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/domain/catalogs/roles"
	"faturas/internal/infrastructure/storage/postgres"
)

const (
	clientTable   = "cat_clients"
	supplierTable = "cat_suppliers"
	carrierTable  = "cat_carriers"
)

// RoleRepo implements roles.Repository for one role catalog table.
type RoleRepo[T any] struct {
	*BaseCatalogRepo[T]
	roleName string
}

func newRoleRepo[T any](
	txManager *postgres.TxManager,
	tableName, roleName string,
	selectCols []string,
	newFn func() T,
) *RoleRepo[T] {
	return &RoleRepo[T]{
		BaseCatalogRepo: NewBaseCatalogRepo(txManager, tableName, selectCols, newFn),
		roleName:        roleName,
	}
}

// FindByPartyID retrieves the role record for a party.
func (r *RoleRepo[T]) FindByPartyID(ctx context.Context, partyID id.ID) (T, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"party_id": partyID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	role, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			var zero T
			return zero, apperror.NewNotFound(r.roleName, partyID.String())
		}
		var zero T
		return zero, err
	}
	return role, nil
}

// NewClientRepo creates a client role repository.
func NewClientRepo(txManager *postgres.TxManager) *RoleRepo[*roles.Client] {
	return newRoleRepo(
		txManager,
		clientTable,
		"client",
		postgres.ExtractDBColumns[roles.Client](),
		func() *roles.Client { return &roles.Client{} },
	)
}

// NewSupplierRepo creates a supplier role repository.
func NewSupplierRepo(txManager *postgres.TxManager) *RoleRepo[*roles.Supplier] {
	return newRoleRepo(
		txManager,
		supplierTable,
		"supplier",
		postgres.ExtractDBColumns[roles.Supplier](),
		func() *roles.Supplier { return &roles.Supplier{} },
	)
}

// NewCarrierRepo creates a carrier role repository.
func NewCarrierRepo(txManager *postgres.TxManager) *RoleRepo[*roles.Carrier] {
	return newRoleRepo(
		txManager,
		carrierTable,
		"carrier",
		postgres.ExtractDBColumns[roles.Carrier](),
		func() *roles.Carrier { return &roles.Carrier{} },
	)
}
