package domain

import (
	"context"

	"faturas/internal/core/id"
)

// Audit actions recorded by mutating flows.
const (
	AuditActionPost   = "invoice.post"
	AuditActionDelete = "invoice.delete"
	AuditActionPay    = "installment.pay"
)

// Auditor records business events with an opaque payload. Implementations
// persist the trail; NopAuditor discards it.
type Auditor interface {
	Record(ctx context.Context, action string, entityID id.ID, payload any) error
}

// NopAuditor discards every event. Used in tests and when the audit
// trail is disabled.
type NopAuditor struct{}

func (NopAuditor) Record(ctx context.Context, action string, entityID id.ID, payload any) error {
	return nil
}
