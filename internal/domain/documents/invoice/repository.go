package invoice

import (
	"context"

	"faturas/internal/core/id"
	"faturas/internal/domain"
)

// Repository defines persistence for invoices. Header and lines are
// stored separately; the posting flow saves both inside one transaction.
type Repository interface {
	// Create inserts the document header. A unique constraint on the
	// natural key surfaces concurrent duplicates as a conflict.
	Create(ctx context.Context, inv *Invoice) error

	// GetByID retrieves the header (without lines).
	GetByID(ctx context.Context, documentID id.ID) (*Invoice, error)

	// GetByKey retrieves the header by natural key (without lines).
	GetByKey(ctx context.Context, key Key) (*Invoice, error)

	// ExistsByKey checks the natural key.
	ExistsByKey(ctx context.Context, key Key) (bool, error)

	// SaveLines inserts the line items of a document.
	SaveLines(ctx context.Context, documentID id.ID, lines []*Line) error

	// GetLines returns a document's lines ordered by line number.
	GetLines(ctx context.Context, documentID id.ID) ([]*Line, error)

	// DeleteLines removes a document's lines.
	DeleteLines(ctx context.Context, documentID id.ID) error

	// Delete removes the header.
	Delete(ctx context.Context, documentID id.ID) error

	// List retrieves headers with filtering and pagination.
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Invoice], error)
}
