// Package payable_repo provides PostgreSQL persistence for payable
// installments.
package payable_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/domain/payables"
	"faturas/internal/infrastructure/storage/postgres"
)

const installmentTable = "fin_installments"

var _ payables.Repository = (*InstallmentRepo)(nil)

// InstallmentRepo implements payables.Repository.
type InstallmentRepo struct {
	txManager *postgres.TxManager
	columns   []string
}

// NewInstallmentRepo creates a new installment repository.
func NewInstallmentRepo(txManager *postgres.TxManager) *InstallmentRepo {
	return &InstallmentRepo{
		txManager: txManager,
		columns:   postgres.ExtractDBColumns[payables.Installment](),
	}
}

func (r *InstallmentRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *InstallmentRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

func (r *InstallmentRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().Select(r.columns...).From(installmentTable)
}

// CreateBatch inserts all installments of a freshly posted document in
// a single statement. The unique index on (document_id, parcel_number)
// surfaces duplicates as a conflict.
func (r *InstallmentRepo) CreateBatch(ctx context.Context, installments []*payables.Installment) error {
	if len(installments) == 0 {
		return nil
	}

	q := r.builder().
		Insert(installmentTable).
		Columns(r.columns...)

	for _, inst := range installments {
		data := postgres.StructToMap(inst)
		values := make([]any, 0, len(r.columns))
		for _, col := range r.columns {
			values = append(values, data[col])
		}
		q = q.Values(values...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(fmt.Errorf("insert installments: %w", err))
	}
	return nil
}

// GetByID retrieves an installment.
func (r *InstallmentRepo) GetByID(ctx context.Context, installmentID id.ID) (*payables.Installment, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": installmentID}).
		Limit(1)

	return r.getOne(ctx, q, installmentID.String())
}

// GetByParcel retrieves an installment by its natural key.
func (r *InstallmentRepo) GetByParcel(ctx context.Context, documentID id.ID, parcelNumber int) (*payables.Installment, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{
			"document_id":   documentID,
			"parcel_number": parcelNumber,
		}).
		Limit(1)

	return r.getOne(ctx, q, fmt.Sprintf("%s/%d", documentID, parcelNumber))
}

// GetForUpdate retrieves an installment with a row lock. Must run
// inside a transaction.
func (r *InstallmentRepo) GetForUpdate(ctx context.Context, installmentID id.ID) (*payables.Installment, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": installmentID}).
		Suffix("FOR UPDATE").
		Limit(1)

	return r.getOne(ctx, q, installmentID.String())
}

func (r *InstallmentRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, lookup string) (*payables.Installment, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	inst := &payables.Installment{}
	if err := pgxscan.Get(ctx, r.querier(ctx), inst, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("installment", lookup)
		}
		return nil, postgres.MapError(fmt.Errorf("get installment: %w", err))
	}
	return inst, nil
}

// Update persists payment fields with optimistic locking.
func (r *InstallmentRepo) Update(ctx context.Context, installment *payables.Installment) error {
	data := postgres.StructToMap(installment)

	currentVersion := installment.Version
	data["version"] = currentVersion + 1
	delete(data, "id")
	delete(data, "created_at")

	sql, args, err := r.builder().
		Update(installmentTable).
		SetMap(data).
		Where(squirrel.Eq{
			"id":      installment.ID,
			"version": currentVersion,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(fmt.Errorf("update installment: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("installment", installment.ID.String())
	}

	installment.SetVersion(currentVersion + 1)
	return nil
}

// ListByDocument returns a document's installments ordered by parcel.
func (r *InstallmentRepo) ListByDocument(ctx context.Context, documentID id.ID) ([]*payables.Installment, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"document_id": documentID}).
		OrderBy("parcel_number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var installments []*payables.Installment
	if err := pgxscan.Select(ctx, r.querier(ctx), &installments, sql, args...); err != nil {
		return nil, postgres.MapError(fmt.Errorf("list installments: %w", err))
	}
	return installments, nil
}

// CountPaid returns how many of a document's installments are PAID.
func (r *InstallmentRepo) CountPaid(ctx context.Context, documentID id.ID) (int, error) {
	sql, args, err := r.builder().
		Select("COUNT(*)").
		From(installmentTable).
		Where(squirrel.Eq{
			"document_id": documentID,
			"status":      payables.StatusPaid,
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, postgres.MapError(fmt.Errorf("count paid installments: %w", err))
	}
	return count, nil
}

// DeleteByDocument removes all installments of a document.
func (r *InstallmentRepo) DeleteByDocument(ctx context.Context, documentID id.ID) error {
	sql, args, err := r.builder().
		Delete(installmentTable).
		Where(squirrel.Eq{"document_id": documentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(fmt.Errorf("delete installments: %w", err))
	}
	return nil
}
