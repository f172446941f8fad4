// Package roles provides the Party role catalogs: Client, Supplier and
// Carrier. A role record carries the role-specific commercial data and
// references the shared Party identity; the same Party may hold any
// combination of roles.
package roles

import (
	"context"
	"time"

	"faturas/internal/core/apperror"
	"faturas/internal/core/entity"
	"faturas/internal/core/id"
	"faturas/internal/core/types"
)

// Activation is the lifecycle state of a role record. Deactivated roles
// are kept for history but rejected as invoice counterparties.
type Activation string

const (
	ActivationActive      Activation = "active"
	ActivationDeactivated Activation = "deactivated"
)

// RoleRecord contains the fields shared by all role catalogs.
type RoleRecord struct {
	entity.Catalog

	// PartyID references the shared Party identity
	PartyID id.ID `db:"party_id" json:"partyId"`

	Activation    Activation `db:"activation" json:"activation"`
	DeactivatedAt *time.Time `db:"deactivated_at" json:"deactivatedAt,omitempty"`
}

// NewRoleRecord creates an active role record for the given party.
func NewRoleRecord(partyID id.ID, code, name string) RoleRecord {
	return RoleRecord{
		Catalog:    entity.NewCatalog(code, name),
		PartyID:    partyID,
		Activation: ActivationActive,
	}
}

// record gives generic service helpers access to the embedded state.
func (r *RoleRecord) record() *RoleRecord { return r }

// IsActive reports whether the role may participate in new documents.
func (r *RoleRecord) IsActive() bool {
	return r.Activation == ActivationActive
}

// Validate implements entity.Validatable interface.
func (r *RoleRecord) Validate(ctx context.Context) error {
	if err := r.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(r.PartyID) {
		return apperror.NewValidation("party reference is required").
			WithDetail("field", "partyId")
	}

	switch r.Activation {
	case ActivationActive, ActivationDeactivated:
	default:
		return apperror.NewValidation("invalid activation state").
			WithDetail("field", "activation").
			WithDetail("value", string(r.Activation))
	}

	if r.Activation == ActivationActive && r.DeactivatedAt != nil {
		return apperror.NewValidation("active role must not carry a deactivation timestamp").
			WithDetail("field", "deactivatedAt")
	}

	return nil
}

//////////////
// Client   //
//////////////

// Client is a party acting as invoice recipient on outbound documents.
type Client struct {
	RoleRecord

	// CreditLimit caps the open receivables amount; zero means no limit
	CreditLimit types.Money `db:"credit_limit" json:"creditLimit"`
}

func NewClient(partyID id.ID, code, name string) *Client {
	return &Client{
		RoleRecord:  NewRoleRecord(partyID, code, name),
		CreditLimit: types.Zero(),
	}
}

// Validate implements entity.Validatable interface.
func (c *Client) Validate(ctx context.Context) error {
	if err := c.RoleRecord.Validate(ctx); err != nil {
		return err
	}

	if c.CreditLimit.IsNegative() {
		return apperror.NewValidation("credit limit cannot be negative").
			WithDetail("field", "creditLimit").
			WithDetail("value", c.CreditLimit.String())
	}

	return nil
}

//////////////
// Supplier //
//////////////

// Supplier is a party acting as invoice issuer on inbound documents.
type Supplier struct {
	RoleRecord

	// PaymentConditionID is the default installment plan applied when a
	// posting request does not name one explicitly.
	PaymentConditionID *id.ID `db:"payment_condition_id" json:"paymentConditionId,omitempty"`
}

func NewSupplier(partyID id.ID, code, name string) *Supplier {
	return &Supplier{RoleRecord: NewRoleRecord(partyID, code, name)}
}

//////////////
// Carrier  //
//////////////

// Carrier is a party transporting the goods of an invoice.
type Carrier struct {
	RoleRecord

	// RNTRC is the national road transport registry number (ANTT)
	RNTRC *string `db:"rntrc" json:"rntrc,omitempty"`
}

func NewCarrier(partyID id.ID, code, name string) *Carrier {
	return &Carrier{RoleRecord: NewRoleRecord(partyID, code, name)}
}
