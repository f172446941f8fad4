package roles

import (
	"context"
	"testing"

	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/core/types"
	"faturas/internal/domain"
	"faturas/internal/domain/catalogs/party"
)

// nopTx runs the function directly, without a database.
type nopTx struct{}

func (nopTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (nopTx) RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// stubResolver keeps parties in memory, keyed by tax id.
type stubResolver struct {
	byTaxID map[string]id.ID
	parties map[id.ID]*party.Party
}

func newStubResolver() *stubResolver {
	return &stubResolver{
		byTaxID: make(map[string]id.ID),
		parties: make(map[id.ID]*party.Party),
	}
}

func (r *stubResolver) Resolve(ctx context.Context, rawTaxID string, attrs party.Attributes) (id.ID, error) {
	if rawTaxID != "" {
		if existing, ok := r.byTaxID[rawTaxID]; ok {
			r.parties[existing].Name = attrs.LegalName
			return existing, nil
		}
	}
	p := party.NewParty(rawTaxID, attrs.LegalName, attrs.Kind)
	r.parties[p.ID] = p
	if rawTaxID != "" {
		r.byTaxID[rawTaxID] = p.ID
	}
	return p.ID, nil
}

func (r *stubResolver) GetByID(ctx context.Context, partyID id.ID) (*party.Party, error) {
	if p, ok := r.parties[partyID]; ok {
		return p, nil
	}
	return nil, apperror.NewNotFound("party", partyID.String())
}

// memRoleRepo is an in-memory Repository for role tests.
type memRoleRepo[T roleEntity] struct {
	roles map[id.ID]T
}

func newMemRoleRepo[T roleEntity]() *memRoleRepo[T] {
	return &memRoleRepo[T]{roles: make(map[id.ID]T)}
}

func (m *memRoleRepo[T]) Create(ctx context.Context, role T) error {
	m.roles[role.record().ID] = role
	return nil
}

func (m *memRoleRepo[T]) Update(ctx context.Context, role T) error {
	if _, ok := m.roles[role.record().ID]; !ok {
		return apperror.NewNotFound("role", role.record().ID.String())
	}
	m.roles[role.record().ID] = role
	return nil
}

func (m *memRoleRepo[T]) GetByID(ctx context.Context, roleID id.ID) (T, error) {
	if r, ok := m.roles[roleID]; ok {
		return r, nil
	}
	var zero T
	return zero, apperror.NewNotFound("role", roleID.String())
}

func (m *memRoleRepo[T]) GetByCode(ctx context.Context, code string) (T, error) {
	for _, r := range m.roles {
		if r.record().Code == code {
			return r, nil
		}
	}
	var zero T
	return zero, apperror.NewNotFound("role", code)
}

func (m *memRoleRepo[T]) FindByPartyID(ctx context.Context, partyID id.ID) (T, error) {
	for _, r := range m.roles {
		if r.record().PartyID == partyID {
			return r, nil
		}
	}
	var zero T
	return zero, apperror.NewNotFound("role", partyID.String())
}

func (m *memRoleRepo[T]) Delete(ctx context.Context, roleID id.ID) error {
	if _, ok := m.roles[roleID]; !ok {
		return apperror.NewNotFound("role", roleID.String())
	}
	delete(m.roles, roleID)
	return nil
}

func (m *memRoleRepo[T]) SetDeletionMark(ctx context.Context, roleID id.ID, marked bool) error {
	if r, ok := m.roles[roleID]; ok {
		r.record().DeletionMark = marked
		return nil
	}
	return apperror.NewNotFound("role", roleID.String())
}

func (m *memRoleRepo[T]) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[T], error) {
	var items []T
	for _, r := range m.roles {
		items = append(items, r)
	}
	return domain.ListResult[T]{Items: items, TotalCount: int64(len(items))}, nil
}

func (m *memRoleRepo[T]) Exists(ctx context.Context, roleID id.ID) (bool, error) {
	_, ok := m.roles[roleID]
	return ok, nil
}

// stubConditions reports existence from a fixed set.
type stubConditions struct {
	known map[id.ID]bool
}

func (s *stubConditions) Exists(ctx context.Context, conditionID id.ID) (bool, error) {
	return s.known[conditionID], nil
}

func newTestService() (*Service, *stubResolver, *memRoleRepo[*Client], *memRoleRepo[*Supplier], *memRoleRepo[*Carrier], *stubConditions) {
	resolver := newStubResolver()
	clients := newMemRoleRepo[*Client]()
	suppliers := newMemRoleRepo[*Supplier]()
	carriers := newMemRoleRepo[*Carrier]()
	conditions := &stubConditions{known: make(map[id.ID]bool)}

	svc := NewService(ServiceConfig{
		Resolver:   resolver,
		Parties:    resolver,
		Conditions: conditions,
		TxManager:  nopTx{},
		Clients:    clients,
		Suppliers:  suppliers,
		Carriers:   carriers,
	})
	return svc, resolver, clients, suppliers, carriers, conditions
}

func TestRegisterClient_UpsertByTaxID(t *testing.T) {
	svc, _, clients, _, _, _ := newTestService()
	ctx := context.Background()

	first, err := svc.RegisterClient(ctx, ClientInput{
		RegisterInput: RegisterInput{
			TaxID: "11144477735",
			Party: party.Attributes{Kind: "individual", LegalName: "Maria Silva"},
		},
		CreditLimit: types.MustMoney("1000.00"),
	})
	if err != nil {
		t.Fatalf("first register: %v", err)
	}

	second, err := svc.RegisterClient(ctx, ClientInput{
		RegisterInput: RegisterInput{
			TaxID: "11144477735",
			Party: party.Attributes{Kind: "individual", LegalName: "Maria Silva ME"},
		},
		CreditLimit: types.MustMoney("2500.00"),
	})
	if err != nil {
		t.Fatalf("second register: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected same client record, got %s and %s", first.ID, second.ID)
	}
	if len(clients.roles) != 1 {
		t.Fatalf("expected 1 client, got %d", len(clients.roles))
	}

	stored := clients.roles[first.ID]
	if !stored.CreditLimit.Equal(types.MustMoney("2500.00")) {
		t.Errorf("credit limit should be refreshed, got %s", stored.CreditLimit)
	}
	if stored.Name != "Maria Silva ME" {
		t.Errorf("role name should follow the refreshed party name, got %q", stored.Name)
	}
}

func TestRegister_SamePartyAcrossRoles(t *testing.T) {
	svc, resolver, _, _, _, _ := newTestService()
	ctx := context.Background()

	client, err := svc.RegisterClient(ctx, ClientInput{
		RegisterInput: RegisterInput{
			TaxID: "11222333000181",
			Party: party.Attributes{Kind: "organization", LegalName: "Acme Ltda"},
		},
	})
	if err != nil {
		t.Fatalf("register client: %v", err)
	}

	carrier, err := svc.RegisterCarrier(ctx, CarrierInput{
		RegisterInput: RegisterInput{
			TaxID: "11222333000181",
			Party: party.Attributes{Kind: "organization", LegalName: "Acme Ltda"},
		},
	})
	if err != nil {
		t.Fatalf("register carrier: %v", err)
	}

	if client.PartyID != carrier.PartyID {
		t.Error("client and carrier roles must share the same party")
	}
	if len(resolver.parties) != 1 {
		t.Errorf("expected 1 party, got %d", len(resolver.parties))
	}
}

func TestRegisterClient_MissingLegalName(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()

	_, err := svc.RegisterClient(context.Background(), ClientInput{
		RegisterInput: RegisterInput{
			TaxID: "11144477735",
			Party: party.Attributes{Kind: "individual"},
		},
	})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestRegisterSupplier_UnknownPaymentCondition(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()
	missing := id.New()

	_, err := svc.RegisterSupplier(context.Background(), SupplierInput{
		RegisterInput: RegisterInput{
			TaxID: "11222333000181",
			Party: party.Attributes{Kind: "organization", LegalName: "Fornecedora XYZ"},
		},
		PaymentConditionID: &missing,
	})
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestActivationTransitions(t *testing.T) {
	svc, _, clients, _, _, _ := newTestService()
	ctx := context.Background()

	c, err := svc.RegisterClient(ctx, ClientInput{
		RegisterInput: RegisterInput{
			TaxID: "52998224725",
			Party: party.Attributes{Kind: "individual", LegalName: "Pedro Souza"},
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.DeactivateClient(ctx, c.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	stored := clients.roles[c.ID]
	if stored.Activation != ActivationDeactivated || stored.DeactivatedAt == nil {
		t.Error("deactivation should set state and timestamp")
	}

	// Deactivating twice is a conflict, not a no-op.
	err = svc.DeactivateClient(ctx, c.ID)
	if !apperror.IsConflict(err) {
		t.Fatalf("expected CONFLICT on double deactivate, got %v", err)
	}

	if err := svc.ReactivateClient(ctx, c.ID); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	stored = clients.roles[c.ID]
	if stored.Activation != ActivationActive || stored.DeactivatedAt != nil {
		t.Error("reactivation should clear the deactivation timestamp")
	}

	err = svc.ReactivateClient(ctx, c.ID)
	if !apperror.IsConflict(err) {
		t.Fatalf("expected CONFLICT on double reactivate, got %v", err)
	}
}

func TestActivation_UnknownRole(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()

	err := svc.DeactivateSupplier(context.Background(), id.New())
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestDeleteClient(t *testing.T) {
	svc, _, clients, _, _, _ := newTestService()
	ctx := context.Background()

	c, err := svc.RegisterClient(ctx, ClientInput{
		RegisterInput: RegisterInput{
			TaxID: "11144477735",
			Party: party.Attributes{Kind: "individual", LegalName: "Ana Costa"},
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.DeleteClient(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := clients.roles[c.ID]; ok {
		t.Error("client record should be gone after delete")
	}

	err = svc.DeleteClient(ctx, c.ID)
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND on second delete, got %v", err)
	}
}
