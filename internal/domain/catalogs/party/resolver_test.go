package party

import (
	"context"
	"testing"

	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/domain"
	"faturas/internal/domain/taxid"
)

// memRepo is an in-memory Repository for resolver tests.
type memRepo struct {
	parties map[id.ID]*Party
}

func newMemRepo() *memRepo {
	return &memRepo{parties: make(map[id.ID]*Party)}
}

func (m *memRepo) Create(ctx context.Context, p *Party) error {
	cp := *p
	m.parties[p.ID] = &cp
	return nil
}

func (m *memRepo) Update(ctx context.Context, p *Party) error {
	if _, ok := m.parties[p.ID]; !ok {
		return apperror.NewNotFound("party", p.ID.String())
	}
	cp := *p
	m.parties[p.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, partyID id.ID) (*Party, error) {
	if p, ok := m.parties[partyID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, apperror.NewNotFound("party", partyID.String())
}

func (m *memRepo) GetByCode(ctx context.Context, code string) (*Party, error) {
	for _, p := range m.parties {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("party", code)
}

func (m *memRepo) FindByTaxID(ctx context.Context, taxID string) (*Party, error) {
	for _, p := range m.parties {
		if p.TaxID != nil && *p.TaxID == taxID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("party", taxID)
}

func (m *memRepo) Delete(ctx context.Context, partyID id.ID) error {
	delete(m.parties, partyID)
	return nil
}

func (m *memRepo) SetDeletionMark(ctx context.Context, partyID id.ID, marked bool) error {
	if p, ok := m.parties[partyID]; ok {
		p.DeletionMark = marked
		return nil
	}
	return apperror.NewNotFound("party", partyID.String())
}

func (m *memRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*Party], error) {
	var items []*Party
	for _, p := range m.parties {
		items = append(items, p)
	}
	return domain.ListResult[*Party]{Items: items, TotalCount: int64(len(items))}, nil
}

func (m *memRepo) Exists(ctx context.Context, partyID id.ID) (bool, error) {
	_, ok := m.parties[partyID]
	return ok, nil
}

func strPtr(s string) *string { return &s }

func TestResolve_DeduplicatesByTaxID(t *testing.T) {
	repo := newMemRepo()
	resolver := NewResolver(repo)
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, "111.444.777-35", Attributes{
		Kind:      taxid.KindIndividual,
		LegalName: "Maria Silva",
		Phone:     strPtr("11 99999-0001"),
	})
	if err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}

	second, err := resolver.Resolve(ctx, "11144477735", Attributes{
		Kind:      taxid.KindIndividual,
		LegalName: "Maria Silva Transportes",
		Street:    strPtr("Rua das Flores"),
	})
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}

	if first != second {
		t.Fatalf("expected same party id, got %s and %s", first, second)
	}
	if len(repo.parties) != 1 {
		t.Fatalf("expected 1 party, got %d", len(repo.parties))
	}

	stored := repo.parties[first]
	if stored.Name != "Maria Silva Transportes" {
		t.Errorf("second call's legal name should win, got %q", stored.Name)
	}
	if stored.Street == nil || *stored.Street != "Rua das Flores" {
		t.Error("second call's street should be persisted")
	}
	// Merge precedence: fields absent in the second call are preserved.
	if stored.Phone == nil || *stored.Phone != "11 99999-0001" {
		t.Error("phone from first call should survive the second resolve")
	}
	if stored.TaxID == nil || *stored.TaxID != "11144477735" {
		t.Error("tax id should be stored in canonical form")
	}
}

func TestResolve_InvalidTaxID(t *testing.T) {
	resolver := NewResolver(newMemRepo())

	_, err := resolver.Resolve(context.Background(), "11144477734", Attributes{
		Kind:      taxid.KindIndividual,
		LegalName: "Fulano",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestResolve_EmptyTaxIDCreatesDistinctParties(t *testing.T) {
	repo := newMemRepo()
	resolver := NewResolver(repo)
	ctx := context.Background()

	a, err := resolver.Resolve(ctx, "", Attributes{
		Kind:      taxid.KindOrganization,
		LegalName: "Fornecedor Sem Cadastro A",
	})
	if err != nil {
		t.Fatalf("resolve a: %v", err)
	}
	b, err := resolver.Resolve(ctx, "", Attributes{
		Kind:      taxid.KindOrganization,
		LegalName: "Fornecedor Sem Cadastro B",
	})
	if err != nil {
		t.Fatalf("resolve b: %v", err)
	}

	if a == b {
		t.Error("parties without tax id must not be deduplicated")
	}
	if len(repo.parties) != 2 {
		t.Errorf("expected 2 parties, got %d", len(repo.parties))
	}
}

func TestResolve_CrossKindReuse(t *testing.T) {
	repo := newMemRepo()
	resolver := NewResolver(repo)
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, "11.222.333/0001-81", Attributes{
		Kind:      taxid.KindOrganization,
		LegalName: "Acme Ltda",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// Same organization registered under another role keeps one Party.
	second, err := resolver.Resolve(ctx, "11222333000181", Attributes{
		Kind:      taxid.KindOrganization,
		LegalName: "Acme Ltda",
		Email:     strPtr("fiscal@acme.com.br"),
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if first != second {
		t.Error("formatted and canonical tax ids must resolve to the same party")
	}
}
