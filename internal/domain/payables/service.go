package payables

import (
	"context"
	"fmt"
	"time"

	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/core/tx"
	"faturas/internal/core/types"
	"faturas/internal/domain"
	"faturas/pkg/logger"
)

// MethodChecker verifies payment method references.
type MethodChecker interface {
	Exists(ctx context.Context, methodID id.ID) (bool, error)
}

// PaymentInput registers a payment against one installment.
type PaymentInput struct {
	DocumentID   id.ID
	ParcelNumber int

	PaymentDate time.Time
	PaidAmount  types.Money

	// PaymentMethodID optionally replaces the scheduled method (e.g. a
	// boleto parcel settled via PIX).
	PaymentMethodID *id.ID
}

// Service manages installment payments.
type Service struct {
	repo      Repository
	methods   MethodChecker
	txManager tx.Manager
	auditor   domain.Auditor
}

// ServiceConfig configures the payables service.
type ServiceConfig struct {
	Repo      Repository
	Methods   MethodChecker
	TxManager tx.Manager
	Auditor   domain.Auditor
}

// NewService creates a payables service.
func NewService(cfg ServiceConfig) *Service {
	auditor := cfg.Auditor
	if auditor == nil {
		auditor = domain.NopAuditor{}
	}
	return &Service{
		repo:      cfg.Repo,
		methods:   cfg.Methods,
		txManager: cfg.TxManager,
		auditor:   auditor,
	}
}

// RegisterPayment marks an installment PAID. The lookup and the update
// run in one serializable transaction so two concurrent payments of the
// same parcel cannot both succeed.
func (s *Service) RegisterPayment(ctx context.Context, in PaymentInput) (*Installment, error) {
	if in.PaymentMethodID != nil {
		ok, err := s.methods.Exists(ctx, *in.PaymentMethodID)
		if err != nil {
			return nil, fmt.Errorf("check payment method: %w", err)
		}
		if !ok {
			return nil, apperror.NewNotFound("payment method", in.PaymentMethodID.String())
		}
	}

	var result *Installment
	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		inst, err := s.repo.GetByParcel(ctx, in.DocumentID, in.ParcelNumber)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("installment",
					fmt.Sprintf("%s/%d", in.DocumentID, in.ParcelNumber))
			}
			return err
		}

		locked, err := s.repo.GetForUpdate(ctx, inst.ID)
		if err != nil {
			return err
		}

		if err := locked.RegisterPayment(in.PaymentDate, in.PaidAmount); err != nil {
			return err
		}
		if in.PaymentMethodID != nil {
			locked.PaymentMethodID = *in.PaymentMethodID
		}
		// Version stays at the stored value; the repo bumps it on update.
		locked.UpdatedAt = time.Now().UTC()

		if err := s.repo.Update(ctx, locked); err != nil {
			return fmt.Errorf("update installment: %w", err)
		}

		result = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.auditor.Record(ctx, domain.AuditActionPay, result.ID, result); err != nil {
		logger.Warn(ctx, "audit record failed",
			"action", domain.AuditActionPay, "installment_id", result.ID, "error", err)
	}

	logger.Info(ctx, "payment registered",
		"document_id", in.DocumentID,
		"parcel", in.ParcelNumber,
		"amount", in.PaidAmount.String())
	return result, nil
}

// GetInstallment retrieves one installment.
func (s *Service) GetInstallment(ctx context.Context, installmentID id.ID) (*Installment, error) {
	inst, err := s.repo.GetByID(ctx, installmentID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("installment", installmentID.String())
		}
		return nil, err
	}
	return inst, nil
}

// ListByDocument returns a document's installments ordered by parcel.
func (s *Service) ListByDocument(ctx context.Context, documentID id.ID) ([]*Installment, error) {
	return s.repo.ListByDocument(ctx, documentID)
}
