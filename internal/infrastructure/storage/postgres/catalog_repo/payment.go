package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"faturas/internal/core/id"
	"faturas/internal/domain"
	"faturas/internal/domain/catalogs/payment"
	"faturas/internal/infrastructure/storage/postgres"
)

const (
	paymentMethodTable       = "cat_payment_methods"
	paymentConditionTable    = "cat_payment_conditions"
	installmentTemplateTable = "cat_installment_templates"
)

// PaymentMethodRepo implements payment.MethodRepository.
type PaymentMethodRepo struct {
	*BaseCatalogRepo[*payment.Method]
}

// NewPaymentMethodRepo creates a new payment method repository.
func NewPaymentMethodRepo(txManager *postgres.TxManager) *PaymentMethodRepo {
	return &PaymentMethodRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			paymentMethodTable,
			postgres.ExtractDBColumns[payment.Method](),
			func() *payment.Method { return &payment.Method{} },
		),
	}
}

// PaymentConditionRepo implements payment.ConditionRepository. The
// template rows live in their own table and travel with the header on
// every read and write.
type PaymentConditionRepo struct {
	*BaseCatalogRepo[*payment.Condition]
}

// NewPaymentConditionRepo creates a new payment condition repository.
func NewPaymentConditionRepo(txManager *postgres.TxManager) *PaymentConditionRepo {
	return &PaymentConditionRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			paymentConditionTable,
			postgres.ExtractDBColumns[payment.Condition](),
			func() *payment.Condition { return &payment.Condition{} },
		),
	}
}

// Create inserts the condition header and its templates.
func (r *PaymentConditionRepo) Create(ctx context.Context, c *payment.Condition) error {
	if err := r.BaseCatalogRepo.Create(ctx, c); err != nil {
		return err
	}
	return r.insertTemplates(ctx, c)
}

// Update rewrites the header and replaces the template rows.
func (r *PaymentConditionRepo) Update(ctx context.Context, c *payment.Condition) error {
	if err := r.BaseCatalogRepo.Update(ctx, c); err != nil {
		return err
	}
	if err := r.deleteTemplates(ctx, c.ID); err != nil {
		return err
	}
	return r.insertTemplates(ctx, c)
}

// Delete removes the templates, then the header.
func (r *PaymentConditionRepo) Delete(ctx context.Context, conditionID id.ID) error {
	if err := r.deleteTemplates(ctx, conditionID); err != nil {
		return err
	}
	return r.BaseCatalogRepo.Delete(ctx, conditionID)
}

// GetByID retrieves the condition with its templates.
func (r *PaymentConditionRepo) GetByID(ctx context.Context, conditionID id.ID) (*payment.Condition, error) {
	c, err := r.BaseCatalogRepo.GetByID(ctx, conditionID)
	if err != nil {
		return nil, err
	}
	if err := r.loadTemplates(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetByCode retrieves the condition with its templates.
func (r *PaymentConditionRepo) GetByCode(ctx context.Context, code string) (*payment.Condition, error) {
	c, err := r.BaseCatalogRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := r.loadTemplates(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves conditions with their templates.
func (r *PaymentConditionRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*payment.Condition], error) {
	result, err := r.BaseCatalogRepo.List(ctx, filter)
	if err != nil {
		return result, err
	}
	for _, c := range result.Items {
		if err := r.loadTemplates(ctx, c); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (r *PaymentConditionRepo) insertTemplates(ctx context.Context, c *payment.Condition) error {
	if len(c.Templates) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(installmentTemplateTable).
		Columns("id", "condition_id", "parcel_number", "payment_method_id", "day_offset", "percentage")

	for i := range c.Templates {
		tpl := &c.Templates[i]
		if id.IsNil(tpl.ID) {
			tpl.ID = id.New()
		}
		tpl.ConditionID = c.ID
		q = q.Values(tpl.ID, tpl.ConditionID, tpl.ParcelNumber, tpl.PaymentMethodID, tpl.DayOffset, tpl.Percentage)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert templates: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(fmt.Errorf("insert installment templates: %w", err))
	}
	return nil
}

func (r *PaymentConditionRepo) deleteTemplates(ctx context.Context, conditionID id.ID) error {
	q := r.Builder().
		Delete(installmentTemplateTable).
		Where(squirrel.Eq{"condition_id": conditionID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete templates: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(fmt.Errorf("delete installment templates: %w", err))
	}
	return nil
}

func (r *PaymentConditionRepo) loadTemplates(ctx context.Context, c *payment.Condition) error {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[payment.InstallmentTemplate]()...).
		From(installmentTemplateTable).
		Where(squirrel.Eq{"condition_id": c.ID}).
		OrderBy("parcel_number ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build load templates: %w", err)
	}

	c.Templates = nil
	if err := pgxscan.Select(ctx, r.querier(ctx), &c.Templates, sql, args...); err != nil {
		return fmt.Errorf("load installment templates: %w", err)
	}
	return nil
}
