// Package party provides the Party catalog: the natural person or
// organization behind every client, supplier and carrier role record.
// Parties are deduplicated by canonical tax id; role records reference
// a Party, they never own one.
package party

import (
	"context"
	"regexp"

	"faturas/internal/core/apperror"
	"faturas/internal/core/entity"
	"faturas/internal/domain/taxid"
)

// Pre-compiled regex patterns for validation (performance optimization)
var (
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	zipRE   = regexp.MustCompile(`^\d{8}$`)
)

// Party represents a business partner identity shared across roles.
type Party struct {
	entity.Catalog

	// Kind defines the identifier form: individual (CPF) or organization (CNPJ)
	Kind taxid.PersonKind `db:"kind" json:"kind"`

	// TradeName is the fantasy/doing-business-as name
	TradeName *string `db:"trade_name" json:"tradeName,omitempty"`

	// TaxID is the canonical (digits-only) CPF or CNPJ. Unique when set;
	// parties without a tax id are permitted.
	TaxID *string `db:"tax_id" json:"taxId,omitempty"`

	// RegistrationID is the state registration number (IE)
	RegistrationID *string `db:"registration_id" json:"registrationId,omitempty"`

	// Address fields
	Street   *string `db:"street" json:"street,omitempty"`
	Number   *string `db:"number" json:"number,omitempty"`
	District *string `db:"district" json:"district,omitempty"`
	CityCode *string `db:"city_code" json:"cityCode,omitempty"`
	ZipCode  *string `db:"zip_code" json:"zipCode,omitempty"`

	// Contact fields
	Phone *string `db:"phone" json:"phone,omitempty"`
	Email *string `db:"email" json:"email,omitempty"`
}

// NewParty creates a new Party with required fields. Name is the legal name.
func NewParty(code, name string, kind taxid.PersonKind) *Party {
	return &Party{
		Catalog: entity.NewCatalog(code, name),
		Kind:    kind,
	}
}

// Validate implements entity.Validatable interface.
func (p *Party) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidKind(p.Kind) {
		return apperror.NewValidation("invalid person kind").
			WithDetail("field", "kind").
			WithDetail("value", string(p.Kind))
	}

	// Tax id is optional; when present it must be canonical and well-formed.
	if p.TaxID != nil && *p.TaxID != "" {
		if !taxid.Validate(*p.TaxID, p.Kind) {
			return apperror.NewValidation("invalid tax id for person kind").
				WithDetail("field", "taxId").
				WithDetail("kind", string(p.Kind))
		}
	}

	if p.Email != nil && *p.Email != "" && !emailRE.MatchString(*p.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	if p.ZipCode != nil && *p.ZipCode != "" && !zipRE.MatchString(*p.ZipCode) {
		return apperror.NewValidation("invalid zip code format (must be 8 digits)").
			WithDetail("field", "zipCode")
	}

	return nil
}

// HasTaxID reports whether the party carries a non-empty tax id.
func (p *Party) HasTaxID() bool {
	return p.TaxID != nil && *p.TaxID != ""
}

func isValidKind(k taxid.PersonKind) bool {
	switch k {
	case taxid.KindIndividual, taxid.KindOrganization:
		return true
	}
	return false
}
