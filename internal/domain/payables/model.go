// Package payables provides accounts-payable installments: scheduling
// them when an invoice is posted and registering their payments.
package payables

import (
	"context"
	"time"

	"faturas/internal/core/apperror"
	"faturas/internal/core/entity"
	"faturas/internal/core/id"
	"faturas/internal/core/types"
)

// Status is the installment lifecycle state. The transition is one-way:
// OPEN -> PAID. There is no un-pay operation.
type Status string

const (
	StatusOpen Status = "OPEN"
	StatusPaid Status = "PAID"
)

// Installment is a dated, valued obligation derived from a posted
// invoice. (document_id, parcel_number) is unique.
type Installment struct {
	entity.BaseDocument

	DocumentID   id.ID `db:"document_id" json:"documentId"`
	ParcelNumber int   `db:"parcel_number" json:"parcelNumber"`

	DueDate         time.Time   `db:"due_date" json:"dueDate"`
	Amount          types.Money `db:"amount" json:"amount"`
	PaymentMethodID id.ID       `db:"payment_method_id" json:"paymentMethodId"`

	Status      Status       `db:"status" json:"status"`
	PaymentDate *time.Time   `db:"payment_date" json:"paymentDate,omitempty"`
	PaidAmount  *types.Money `db:"paid_amount" json:"paidAmount,omitempty"`
}

// NewInstallment creates an OPEN installment.
func NewInstallment(documentID id.ID, parcelNumber int, dueDate time.Time, amount types.Money, methodID id.ID) *Installment {
	return &Installment{
		BaseDocument:    entity.NewBaseDocument(),
		DocumentID:      documentID,
		ParcelNumber:    parcelNumber,
		DueDate:         dueDate,
		Amount:          amount,
		PaymentMethodID: methodID,
		Status:          StatusOpen,
	}
}

// IsPaid reports whether a payment has been registered.
func (i *Installment) IsPaid() bool {
	return i.Status == StatusPaid
}

// Validate implements entity.Validatable interface.
func (i *Installment) Validate(ctx context.Context) error {
	if id.IsNil(i.DocumentID) {
		return apperror.NewValidation("document reference is required").
			WithDetail("field", "documentId")
	}
	if i.ParcelNumber < 1 {
		return apperror.NewValidation("parcel number must be positive").
			WithDetail("field", "parcelNumber").
			WithDetail("value", i.ParcelNumber)
	}
	if i.DueDate.IsZero() {
		return apperror.NewValidation("due date is required").
			WithDetail("field", "dueDate")
	}
	if !i.Amount.IsPositive() {
		return apperror.NewValidation("installment amount must be positive").
			WithDetail("field", "amount").
			WithDetail("value", i.Amount.String())
	}
	if id.IsNil(i.PaymentMethodID) {
		return apperror.NewValidation("payment method is required").
			WithDetail("field", "paymentMethodId")
	}

	switch i.Status {
	case StatusOpen:
		if i.PaymentDate != nil || i.PaidAmount != nil {
			return apperror.NewValidation("open installment must not carry payment fields").
				WithDetail("field", "status")
		}
	case StatusPaid:
		if i.PaymentDate == nil || i.PaidAmount == nil {
			return apperror.NewValidation("paid installment requires payment date and amount").
				WithDetail("field", "status")
		}
	default:
		return apperror.NewValidation("invalid installment status").
			WithDetail("field", "status").
			WithDetail("value", string(i.Status))
	}

	return nil
}

// RegisterPayment moves the installment to PAID. Paying twice is a
// conflict; the original payment fields stay untouched.
func (i *Installment) RegisterPayment(date time.Time, amount types.Money) error {
	if i.IsPaid() {
		return apperror.NewConflict("installment already paid").
			WithDetail("documentId", i.DocumentID.String()).
			WithDetail("parcelNumber", i.ParcelNumber)
	}
	if date.IsZero() {
		return apperror.NewValidation("payment date is required").
			WithDetail("field", "paymentDate")
	}
	if !amount.IsPositive() {
		return apperror.NewValidation("paid amount must be positive").
			WithDetail("field", "paidAmount").
			WithDetail("value", amount.String())
	}

	i.Status = StatusPaid
	i.PaymentDate = &date
	i.PaidAmount = &amount
	return nil
}
