package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"faturas/internal/core/apperror"
	"faturas/internal/domain/catalogs/party"
	"faturas/internal/infrastructure/storage/postgres"
)

const partyTable = "cat_parties"

// PartyRepo implements party.Repository.
type PartyRepo struct {
	*BaseCatalogRepo[*party.Party]
}

// NewPartyRepo creates a new party repository.
func NewPartyRepo(txManager *postgres.TxManager) *PartyRepo {
	return &PartyRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			partyTable,
			postgres.ExtractDBColumns[party.Party](),
			func() *party.Party { return &party.Party{} },
		),
	}
}

// FindByTaxID retrieves a party by canonical tax id.
func (r *PartyRepo) FindByTaxID(ctx context.Context, taxID string) (*party.Party, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"tax_id": taxID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	p, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("party", taxID)
		}
		return nil, err
	}
	return p, nil
}
