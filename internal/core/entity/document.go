package entity

import (
	"context"
	"time"

	"faturas/internal/core/apperror"
)

// Document is the base type for business transactions.
// Examples: Invoice (goods receipt or sale).
type Document struct {
	BaseDocument

	// Date is the business date of the document (emission date for invoices)
	Date time.Time `db:"date" json:"date"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document with generated ID.
func NewDocument() Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	return nil
}
