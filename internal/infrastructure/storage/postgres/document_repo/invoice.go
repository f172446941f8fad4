// Package document_repo provides PostgreSQL implementations for
// document repositories.
package document_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/domain"
	"faturas/internal/domain/documents/invoice"
	"faturas/internal/infrastructure/storage/postgres"
)

const (
	invoiceTable     = "doc_invoices"
	invoiceLineTable = "doc_invoice_lines"
)

// Line rows carry the twelve tax columns flat; the nested TaxFields
// groups are mapped by hand.
var lineColumns = []string{
	"id", "document_id", "line_number", "product_id",
	"quantity", "unit_price", "line_total",
	"icms_base", "icms_rate", "icms_amount",
	"ipi_base", "ipi_rate", "ipi_amount",
	"pis_base", "pis_rate", "pis_amount",
	"cofins_base", "cofins_rate", "cofins_amount",
}

var _ invoice.Repository = (*InvoiceRepo)(nil)

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	txManager  *postgres.TxManager
	headerCols []string
}

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(txManager *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		txManager:  txManager,
		headerCols: postgres.ExtractDBColumns[invoice.Invoice](),
	}
}

func (r *InvoiceRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *InvoiceRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

func (r *InvoiceRepo) headerSelect() squirrel.SelectBuilder {
	return r.builder().Select(r.headerCols...).From(invoiceTable)
}

// Create inserts the document header. A hit on the natural-key
// constraint (model, series, number, direction) means the invoice was
// already posted, concurrently or before, and becomes a conflict
// carrying the key.
func (r *InvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	data := postgres.StructToMap(inv)

	filtered := make(map[string]any, len(r.headerCols))
	for _, col := range r.headerCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert(invoiceTable).
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err, "uq_invoices_key") {
			return apperror.NewConflict("invoice already posted with this key").
				WithDetail("key", inv.Key().String()).
				WithCause(err)
		}
		return postgres.MapError(fmt.Errorf("insert invoice: %w", err))
	}
	return nil
}

// GetByID retrieves the header (without lines).
func (r *InvoiceRepo) GetByID(ctx context.Context, documentID id.ID) (*invoice.Invoice, error) {
	q := r.headerSelect().
		Where(squirrel.Eq{"id": documentID}).
		Limit(1)

	return r.getOne(ctx, q, documentID.String())
}

// GetByKey retrieves the header by natural key (without lines).
func (r *InvoiceRepo) GetByKey(ctx context.Context, key invoice.Key) (*invoice.Invoice, error) {
	q := r.headerSelect().
		Where(r.keyConditions(key)).
		Limit(1)

	return r.getOne(ctx, q, key.String())
}

func (r *InvoiceRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, lookup string) (*invoice.Invoice, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	inv := &invoice.Invoice{}
	if err := pgxscan.Get(ctx, r.querier(ctx), inv, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("invoice", lookup)
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// ExistsByKey checks the natural key.
func (r *InvoiceRepo) ExistsByKey(ctx context.Context, key invoice.Key) (bool, error) {
	sql, args, err := r.builder().
		Select("1").
		From(invoiceTable).
		Where(r.keyConditions(key)).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists by key: %w", err)
	}
	return true, nil
}

func (r *InvoiceRepo) keyConditions(key invoice.Key) squirrel.Eq {
	return squirrel.Eq{
		"model":     key.Model,
		"series":    key.Series,
		"number":    key.Number,
		"direction": key.Direction,
	}
}

// SaveLines inserts line items with the twelve flat tax columns.
func (r *InvoiceRepo) SaveLines(ctx context.Context, documentID id.ID, lines []*invoice.Line) error {
	if len(lines) == 0 {
		return nil
	}

	q := r.builder().
		Insert(invoiceLineTable).
		Columns(lineColumns...)

	for _, line := range lines {
		q = q.Values(
			line.ID, documentID, line.LineNumber, line.ProductID,
			line.Quantity, line.UnitPrice, line.LineTotal,
			line.ICMS.Base, line.ICMS.Rate, line.ICMS.Amount,
			line.IPI.Base, line.IPI.Rate, line.IPI.Amount,
			line.PIS.Base, line.PIS.Rate, line.PIS.Amount,
			line.COFINS.Base, line.COFINS.Rate, line.COFINS.Amount,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(fmt.Errorf("insert invoice lines: %w", err))
	}
	return nil
}

// GetLines returns a document's lines ordered by line number.
func (r *InvoiceRepo) GetLines(ctx context.Context, documentID id.ID) ([]*invoice.Line, error) {
	sql, args, err := r.builder().
		Select(lineColumns...).
		From(invoiceLineTable).
		Where(squirrel.Eq{"document_id": documentID}).
		OrderBy("line_number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err)
	}
	defer rows.Close()

	var lines []*invoice.Line
	for rows.Next() {
		line := &invoice.Line{}
		err := rows.Scan(
			&line.ID, &line.DocumentID, &line.LineNumber, &line.ProductID,
			&line.Quantity, &line.UnitPrice, &line.LineTotal,
			&line.ICMS.Base, &line.ICMS.Rate, &line.ICMS.Amount,
			&line.IPI.Base, &line.IPI.Rate, &line.IPI.Amount,
			&line.PIS.Base, &line.PIS.Rate, &line.PIS.Amount,
			&line.COFINS.Base, &line.COFINS.Rate, &line.COFINS.Amount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

// DeleteLines removes a document's lines.
func (r *InvoiceRepo) DeleteLines(ctx context.Context, documentID id.ID) error {
	sql, args, err := r.builder().
		Delete(invoiceLineTable).
		Where(squirrel.Eq{"document_id": documentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(fmt.Errorf("delete invoice lines: %w", err))
	}
	return nil
}

// Delete removes the header. A foreign key violation (installments or
// lines still present) surfaces as an integrity error.
func (r *InvoiceRepo) Delete(ctx context.Context, documentID id.ID) error {
	sql, args, err := r.builder().
		Delete(invoiceTable).
		Where(squirrel.Eq{"id": documentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(fmt.Errorf("delete invoice: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("invoice", documentID.String())
	}
	return nil
}

// List retrieves headers with filtering and pagination. Search matches
// the document number and access key.
func (r *InvoiceRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	result := domain.ListResult[*invoice.Invoice]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.headerSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": pattern},
			squirrel.ILike{"access_key": pattern},
		})
	}
	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}

	countSQL, countArgs, err := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy(r.orderBy(filter.OrderBy))
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list invoices: %w", err)
	}
	return result, nil
}

// orderBy whitelists the sortable header columns. Documents default to
// newest first.
func (r *InvoiceRepo) orderBy(orderBy string) string {
	allowed := map[string]struct{}{
		"date": {}, "number": {}, "series": {}, "model": {},
		"total": {}, "created_at": {},
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	}

	if _, ok := allowed[field]; !ok {
		return "date DESC, number DESC"
	}
	return field + " " + direction
}
