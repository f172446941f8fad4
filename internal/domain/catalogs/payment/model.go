// Package payment provides the PaymentMethod and PaymentCondition
// catalogs. A payment condition describes how a document total splits
// into installments: one template row per parcel, with a percentage of
// the total and a due date offset.
package payment

import (
	"context"

	"faturas/internal/core/apperror"
	"faturas/internal/core/entity"
	"faturas/internal/core/id"
	"faturas/internal/core/types"
)

// Method is a way of settling an installment (boleto, PIX, card, ...).
type Method struct {
	entity.Catalog

	Description *string `db:"description" json:"description,omitempty"`
}

// NewMethod creates a payment method.
func NewMethod(code, name string) *Method {
	return &Method{Catalog: entity.NewCatalog(code, name)}
}

// InstallmentTemplate is one parcel row of a payment condition.
type InstallmentTemplate struct {
	ID          id.ID `db:"id" json:"id"`
	ConditionID id.ID `db:"condition_id" json:"conditionId"`

	// ParcelNumber is 1-based and contiguous within a condition
	ParcelNumber int `db:"parcel_number" json:"parcelNumber"`

	// PaymentMethodID selects the settlement method for this parcel
	PaymentMethodID id.ID `db:"payment_method_id" json:"paymentMethodId"`

	// DayOffset is the number of days between emission and due date
	DayOffset int `db:"day_offset" json:"dayOffset"`

	// Percentage is this parcel's share of the document total
	Percentage types.Money `db:"percentage" json:"percentage"`
}

// Condition is an installment plan applied at invoice posting.
type Condition struct {
	entity.Catalog

	// Templates are ordered by parcel number
	Templates []InstallmentTemplate `db:"-" json:"templates"`
}

// NewCondition creates a payment condition.
func NewCondition(code, name string) *Condition {
	return &Condition{Catalog: entity.NewCatalog(code, name)}
}

// Installments returns the parcel count.
func (c *Condition) Installments() int {
	return len(c.Templates)
}

// Validate implements entity.Validatable interface.
// Template percentages must cover the whole total: their sum has to be
// 100 within the reconciliation tolerance.
func (c *Condition) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if len(c.Templates) == 0 {
		return apperror.NewValidation("payment condition requires at least one installment template").
			WithDetail("field", "templates")
	}

	sum := types.Zero()
	for i, tpl := range c.Templates {
		if tpl.ParcelNumber != i+1 {
			return apperror.NewValidation("parcel numbers must be contiguous starting at 1").
				WithDetail("field", "templates").
				WithDetail("position", i).
				WithDetail("parcelNumber", tpl.ParcelNumber)
		}
		if id.IsNil(tpl.PaymentMethodID) {
			return apperror.NewValidation("installment template requires a payment method").
				WithDetail("field", "templates").
				WithDetail("parcelNumber", tpl.ParcelNumber)
		}
		if tpl.DayOffset < 0 {
			return apperror.NewValidation("day offset cannot be negative").
				WithDetail("field", "templates").
				WithDetail("parcelNumber", tpl.ParcelNumber)
		}
		if tpl.Percentage.IsNegative() || tpl.Percentage.IsZero() {
			return apperror.NewValidation("installment percentage must be positive").
				WithDetail("field", "templates").
				WithDetail("parcelNumber", tpl.ParcelNumber)
		}
		sum = sum.Add(tpl.Percentage)
	}

	if !types.WithinTolerance(sum, types.MustMoney("100")) {
		return apperror.NewValidation("installment percentages must sum to 100").
			WithDetail("field", "templates").
			WithDetail("sum", sum.String())
	}

	return nil
}
