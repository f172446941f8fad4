package payables

import (
	"context"

	"faturas/internal/core/id"
)

// Repository defines persistence for payable installments.
type Repository interface {
	// CreateBatch inserts all installments of a freshly posted document.
	CreateBatch(ctx context.Context, installments []*Installment) error

	// GetByID retrieves an installment.
	GetByID(ctx context.Context, installmentID id.ID) (*Installment, error)

	// GetByParcel retrieves an installment by its natural key.
	GetByParcel(ctx context.Context, documentID id.ID, parcelNumber int) (*Installment, error)

	// GetForUpdate retrieves an installment with a row lock. Must run
	// inside a transaction.
	GetForUpdate(ctx context.Context, installmentID id.ID) (*Installment, error)

	// Update persists payment fields (with optimistic locking).
	Update(ctx context.Context, installment *Installment) error

	// ListByDocument returns a document's installments ordered by parcel.
	ListByDocument(ctx context.Context, documentID id.ID) ([]*Installment, error)

	// CountPaid returns how many of a document's installments are PAID.
	CountPaid(ctx context.Context, documentID id.ID) (int, error)

	// DeleteByDocument removes all installments of a document.
	DeleteByDocument(ctx context.Context, documentID id.ID) error
}
