package dto

import (
	"time"

	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/core/types"
	"faturas/internal/domain/payables"
)

// RegisterPaymentRequest settles one installment.
type RegisterPaymentRequest struct {
	PaymentDate time.Time   `json:"paymentDate" binding:"required"`
	PaidAmount  types.Money `json:"paidAmount"`

	// PaymentMethodID optionally replaces the scheduled method.
	PaymentMethodID *string `json:"paymentMethodId"`
}

// ToInput maps the request to the service input.
func (r RegisterPaymentRequest) ToInput(documentID id.ID, parcelNumber int) (payables.PaymentInput, error) {
	in := payables.PaymentInput{
		DocumentID:   documentID,
		ParcelNumber: parcelNumber,
		PaymentDate:  r.PaymentDate,
		PaidAmount:   r.PaidAmount,
	}
	if r.PaymentMethodID != nil {
		methodID, err := id.Parse(*r.PaymentMethodID)
		if err != nil {
			return in, apperror.NewValidation("invalid payment method id")
		}
		in.PaymentMethodID = &methodID
	}
	return in, nil
}
