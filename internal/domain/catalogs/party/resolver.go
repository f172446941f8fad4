package party

import (
	"context"
	"fmt"

	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/domain/taxid"
	"faturas/pkg/logger"
)

// Attributes carries the role-supplied party fields for a resolve call.
// Pointer fields follow merge-with-precedence semantics: nil (or empty)
// keeps the stored value, non-empty replaces it.
type Attributes struct {
	Kind      taxid.PersonKind
	LegalName string

	TradeName      *string
	RegistrationID *string
	Street         *string
	Number         *string
	District       *string
	CityCode       *string
	ZipCode        *string
	Phone          *string
	Email          *string
}

// Resolver deduplicates Party records by canonical tax id.
// Registering the same tax id under a second role (e.g. a client that is
// also a carrier) reuses and refreshes the existing Party instead of
// creating a duplicate.
type Resolver struct {
	repo Repository
}

// NewResolver creates a party resolver.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the id of the Party matching rawTaxID, creating the
// Party when none exists. An empty tax id always creates a new Party.
//
// Callers run Resolve inside their own transaction so that the lookup
// and the insert/update commit together.
func (r *Resolver) Resolve(ctx context.Context, rawTaxID string, attrs Attributes) (id.ID, error) {
	canonical := taxid.Canonicalize(rawTaxID)

	if canonical != "" {
		if !taxid.Validate(canonical, attrs.Kind) {
			return id.Nil(), apperror.NewValidation("invalid tax id").
				WithDetail("field", "taxId").
				WithDetail("kind", string(attrs.Kind))
		}

		existing, err := r.repo.FindByTaxID(ctx, canonical)
		if err == nil {
			r.applyAttributes(existing, attrs)
			if err := r.repo.Update(ctx, existing); err != nil {
				return id.Nil(), fmt.Errorf("update party: %w", err)
			}
			logger.Debug(ctx, "party resolved by tax id",
				"party_id", existing.ID,
				"tax_id", canonical)
			return existing.ID, nil
		}
		if !apperror.IsNotFound(err) {
			return id.Nil(), err
		}
	}

	p := r.newParty(canonical, attrs)
	if err := p.Validate(ctx); err != nil {
		return id.Nil(), err
	}
	if err := r.repo.Create(ctx, p); err != nil {
		return id.Nil(), fmt.Errorf("create party: %w", err)
	}

	logger.Info(ctx, "party created", "party_id", p.ID, "tax_id", canonical)
	return p.ID, nil
}

func (r *Resolver) newParty(canonical string, attrs Attributes) *Party {
	// Parties with a tax id use it as their natural code; the rest fall
	// back to the time-ordered id prefix.
	p := NewParty(canonical, attrs.LegalName, attrs.Kind)
	if canonical != "" {
		p.TaxID = &canonical
	} else {
		p.Code = p.ID.String()[:8]
	}
	r.applyAttributes(p, attrs)
	return p
}

// applyAttributes overwrites stored fields with supplied non-empty values.
// Empty/nil inputs preserve what is already on the Party, so registering
// a carrier with a client's tax id cannot blank out the client's address.
func (r *Resolver) applyAttributes(p *Party, attrs Attributes) {
	if attrs.LegalName != "" {
		p.Name = attrs.LegalName
	}
	if attrs.Kind != "" {
		p.Kind = attrs.Kind
	}
	override(&p.TradeName, attrs.TradeName)
	override(&p.RegistrationID, attrs.RegistrationID)
	override(&p.Street, attrs.Street)
	override(&p.Number, attrs.Number)
	override(&p.District, attrs.District)
	override(&p.CityCode, attrs.CityCode)
	override(&p.ZipCode, attrs.ZipCode)
	override(&p.Phone, attrs.Phone)
	override(&p.Email, attrs.Email)
}

func override(dst **string, src *string) {
	if src != nil && *src != "" {
		*dst = src
	}
}
