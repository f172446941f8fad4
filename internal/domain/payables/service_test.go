package payables

import (
	"context"
	"testing"
	"time"

	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/core/types"
)

type nopTx struct{}

func (nopTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (nopTx) RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memInstallmentRepo struct {
	installments map[id.ID]*Installment
}

func newMemInstallmentRepo() *memInstallmentRepo {
	return &memInstallmentRepo{installments: make(map[id.ID]*Installment)}
}

func (m *memInstallmentRepo) CreateBatch(ctx context.Context, installments []*Installment) error {
	for _, inst := range installments {
		cp := *inst
		m.installments[inst.ID] = &cp
	}
	return nil
}

func (m *memInstallmentRepo) GetByID(ctx context.Context, installmentID id.ID) (*Installment, error) {
	if inst, ok := m.installments[installmentID]; ok {
		cp := *inst
		return &cp, nil
	}
	return nil, apperror.NewNotFound("installment", installmentID.String())
}

func (m *memInstallmentRepo) GetByParcel(ctx context.Context, documentID id.ID, parcelNumber int) (*Installment, error) {
	for _, inst := range m.installments {
		if inst.DocumentID == documentID && inst.ParcelNumber == parcelNumber {
			cp := *inst
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("installment", documentID.String())
}

func (m *memInstallmentRepo) GetForUpdate(ctx context.Context, installmentID id.ID) (*Installment, error) {
	return m.GetByID(ctx, installmentID)
}

func (m *memInstallmentRepo) Update(ctx context.Context, inst *Installment) error {
	stored, ok := m.installments[inst.ID]
	if !ok {
		return apperror.NewNotFound("installment", inst.ID.String())
	}
	// Same contract as the postgres repo: the caller passes the stored
	// version, the repo bumps it.
	if inst.Version != stored.Version {
		return apperror.NewConcurrentModification("installment", inst.ID.String())
	}
	cp := *inst
	cp.SetVersion(stored.Version + 1)
	m.installments[inst.ID] = &cp
	inst.SetVersion(cp.Version)
	return nil
}

func (m *memInstallmentRepo) ListByDocument(ctx context.Context, documentID id.ID) ([]*Installment, error) {
	var out []*Installment
	for _, inst := range m.installments {
		if inst.DocumentID == documentID {
			cp := *inst
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memInstallmentRepo) CountPaid(ctx context.Context, documentID id.ID) (int, error) {
	n := 0
	for _, inst := range m.installments {
		if inst.DocumentID == documentID && inst.IsPaid() {
			n++
		}
	}
	return n, nil
}

func (m *memInstallmentRepo) DeleteByDocument(ctx context.Context, documentID id.ID) error {
	for instID, inst := range m.installments {
		if inst.DocumentID == documentID {
			delete(m.installments, instID)
		}
	}
	return nil
}

type allMethods struct{}

func (allMethods) Exists(ctx context.Context, methodID id.ID) (bool, error) { return true, nil }

func seedInstallment(repo *memInstallmentRepo, docID id.ID, parcel int) *Installment {
	inst := NewInstallment(docID, parcel,
		time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		types.MustMoney("50.00"), id.New())
	repo.installments[inst.ID] = inst
	return inst
}

func TestRegisterPayment(t *testing.T) {
	repo := newMemInstallmentRepo()
	docID := id.New()
	inst := seedInstallment(repo, docID, 1)

	svc := NewService(ServiceConfig{Repo: repo, Methods: allMethods{}, TxManager: nopTx{}})

	payDate := time.Date(2026, 4, 8, 0, 0, 0, 0, time.UTC)
	paid, err := svc.RegisterPayment(context.Background(), PaymentInput{
		DocumentID:   docID,
		ParcelNumber: 1,
		PaymentDate:  payDate,
		PaidAmount:   types.MustMoney("50.00"),
	})
	if err != nil {
		t.Fatalf("register payment: %v", err)
	}

	if paid.Status != StatusPaid {
		t.Errorf("status %s, want PAID", paid.Status)
	}
	stored := repo.installments[inst.ID]
	if stored.PaymentDate == nil || !stored.PaymentDate.Equal(payDate) {
		t.Error("payment date not persisted")
	}
	if stored.PaidAmount == nil || !stored.PaidAmount.Equal(types.MustMoney("50.00")) {
		t.Error("paid amount not persisted")
	}
	// The repo owns the version bump; a pre-bumped entity would miss
	// the optimistic-lock check and the payment would never land.
	if stored.Version != 2 {
		t.Errorf("stored version %d, want 2", stored.Version)
	}
	if paid.Version != stored.Version {
		t.Errorf("returned version %d, want %d", paid.Version, stored.Version)
	}
}

func TestRegisterPayment_AlreadyPaid(t *testing.T) {
	repo := newMemInstallmentRepo()
	docID := id.New()
	inst := seedInstallment(repo, docID, 1)

	svc := NewService(ServiceConfig{Repo: repo, Methods: allMethods{}, TxManager: nopTx{}})
	ctx := context.Background()

	firstDate := time.Date(2026, 4, 8, 0, 0, 0, 0, time.UTC)
	if _, err := svc.RegisterPayment(ctx, PaymentInput{
		DocumentID: docID, ParcelNumber: 1,
		PaymentDate: firstDate, PaidAmount: types.MustMoney("50.00"),
	}); err != nil {
		t.Fatalf("first payment: %v", err)
	}

	_, err := svc.RegisterPayment(ctx, PaymentInput{
		DocumentID: docID, ParcelNumber: 1,
		PaymentDate: firstDate.AddDate(0, 0, 1), PaidAmount: types.MustMoney("50.00"),
	})
	if !apperror.IsConflict(err) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}

	// The original payment must stay untouched.
	stored := repo.installments[inst.ID]
	if stored.PaymentDate == nil || !stored.PaymentDate.Equal(firstDate) {
		t.Error("failed second payment must not modify the stored payment date")
	}
}

func TestRegisterPayment_UnknownParcel(t *testing.T) {
	svc := NewService(ServiceConfig{
		Repo: newMemInstallmentRepo(), Methods: allMethods{}, TxManager: nopTx{},
	})

	_, err := svc.RegisterPayment(context.Background(), PaymentInput{
		DocumentID: id.New(), ParcelNumber: 1,
		PaymentDate: time.Now().UTC(), PaidAmount: types.MustMoney("10.00"),
	})
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestRegisterPayment_MethodOverride(t *testing.T) {
	repo := newMemInstallmentRepo()
	docID := id.New()
	inst := seedInstallment(repo, docID, 1)
	override := id.New()

	svc := NewService(ServiceConfig{Repo: repo, Methods: allMethods{}, TxManager: nopTx{}})

	_, err := svc.RegisterPayment(context.Background(), PaymentInput{
		DocumentID: docID, ParcelNumber: 1,
		PaymentDate:     time.Now().UTC(),
		PaidAmount:      types.MustMoney("50.00"),
		PaymentMethodID: &override,
	})
	if err != nil {
		t.Fatalf("register payment: %v", err)
	}

	if repo.installments[inst.ID].PaymentMethodID != override {
		t.Error("payment method override not persisted")
	}
}
