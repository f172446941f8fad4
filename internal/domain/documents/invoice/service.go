package invoice

import (
	"context"
	"fmt"
	"time"

	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/core/tx"
	"faturas/internal/core/types"
	"faturas/internal/domain"
	"faturas/internal/domain/catalogs/payment"
	"faturas/internal/domain/catalogs/product"
	"faturas/internal/domain/catalogs/roles"
	"faturas/internal/domain/payables"
	"faturas/pkg/logger"
)

// CounterpartyReader resolves the role records an invoice references.
// Satisfied by the roles service.
type CounterpartyReader interface {
	GetClient(ctx context.Context, clientID id.ID) (*roles.Client, error)
	GetSupplier(ctx context.Context, supplierID id.ID) (*roles.Supplier, error)
	GetCarrier(ctx context.Context, carrierID id.ID) (*roles.Carrier, error)
}

// ProductReader resolves the products an invoice references.
type ProductReader interface {
	GetByID(ctx context.Context, productID id.ID) (*product.Product, error)
}

// ConditionReader resolves payment conditions with their templates.
type ConditionReader interface {
	GetByID(ctx context.Context, conditionID id.ID) (*payment.Condition, error)
}

// MethodChecker verifies payment method references.
type MethodChecker interface {
	Exists(ctx context.Context, methodID id.ID) (bool, error)
}

// PostInput is a posting request: the declared header plus raw lines.
type PostInput struct {
	Model     string    `json:"model"`
	Series    string    `json:"series"`
	Number    string    `json:"number"`
	Direction Direction `json:"direction"`

	EmissionDate time.Time  `json:"emissionDate"`
	ExitDate     *time.Time `json:"exitDate,omitempty"`

	CounterpartyID id.ID  `json:"counterpartyId"`
	CarrierID      *id.ID `json:"carrierId,omitempty"`

	PaymentConditionID *id.ID `json:"paymentConditionId,omitempty"`
	PaymentMethodID    *id.ID `json:"paymentMethodId,omitempty"`

	DeclaredTotal types.Money `json:"declaredTotal"`

	AccessKey    *string `json:"accessKey,omitempty"`
	AuthProtocol *string `json:"authProtocol,omitempty"`

	Freight     types.Money `json:"freight"`
	GrossWeight types.Money `json:"grossWeight"`
	NetWeight   types.Money `json:"netWeight"`

	Comment string `json:"comment,omitempty"`

	Lines []LineInput `json:"lines"`
}

// Service owns the posting state machine: a stored invoice is POSTED;
// deletion is the only transition out and is blocked once any
// installment is paid.
type Service struct {
	repo           Repository
	counterparties CounterpartyReader
	products       ProductReader
	conditions     ConditionReader
	methods        MethodChecker

	scheduler    *payables.Scheduler
	installments payables.Repository

	txManager tx.Manager
	auditor   domain.Auditor
}

// ServiceConfig configures the invoice service.
type ServiceConfig struct {
	Repo           Repository
	Counterparties CounterpartyReader
	Products       ProductReader
	Conditions     ConditionReader
	Methods        MethodChecker

	Scheduler    *payables.Scheduler
	Installments payables.Repository

	TxManager tx.Manager
	Auditor   domain.Auditor
}

// NewService creates an invoice service.
func NewService(cfg ServiceConfig) *Service {
	auditor := cfg.Auditor
	if auditor == nil {
		auditor = domain.NopAuditor{}
	}
	return &Service{
		repo:           cfg.Repo,
		counterparties: cfg.Counterparties,
		products:       cfg.Products,
		conditions:     cfg.Conditions,
		methods:        cfg.Methods,
		scheduler:      cfg.Scheduler,
		installments:   cfg.Installments,
		txManager:      cfg.TxManager,
		auditor:        auditor,
	}
}

// Post validates the request, computes lines and taxes, reconciles the
// declared total and persists header, lines and installments in one
// serializable transaction. Any failure rolls the whole posting back.
func (s *Service) Post(ctx context.Context, in PostInput) (*Invoice, error) {
	var posted *Invoice

	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		if err := s.checkReferences(ctx, in); err != nil {
			return err
		}

		condition, err := s.loadCondition(ctx, in.PaymentConditionID)
		if err != nil {
			return err
		}

		lines, err := s.computeLines(ctx, in.Lines)
		if err != nil {
			return err
		}

		if err := ReconcileTotal(in.DeclaredTotal, lines); err != nil {
			return err
		}

		inv := s.buildInvoice(in, lines)
		if err := inv.Validate(ctx); err != nil {
			return err
		}

		key := inv.Key()
		exists, err := s.repo.ExistsByKey(ctx, key)
		if err != nil {
			return fmt.Errorf("check document key: %w", err)
		}
		if exists {
			return apperror.NewConflict("invoice with this key already exists").
				WithDetail("key", key.String())
		}

		if err := s.repo.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		for _, line := range inv.Lines {
			line.DocumentID = inv.ID
		}
		if err := s.repo.SaveLines(ctx, inv.ID, inv.Lines); err != nil {
			return fmt.Errorf("save invoice lines: %w", err)
		}

		if condition != nil {
			installments, err := s.scheduler.Schedule(inv.ID, inv.Total, inv.Date, condition)
			if err != nil {
				return err
			}
			if err := s.installments.CreateBatch(ctx, installments); err != nil {
				return fmt.Errorf("create installments: %w", err)
			}
		}

		posted = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.auditor.Record(ctx, domain.AuditActionPost, posted.ID, posted); err != nil {
		logger.Warn(ctx, "audit record failed",
			"action", domain.AuditActionPost, "document_id", posted.ID, "error", err)
	}

	logger.Info(ctx, "invoice posted",
		"document_id", posted.ID,
		"key", posted.Key().String(),
		"total", posted.Total.String(),
		"lines", len(posted.Lines))
	return posted, nil
}

// checkReferences runs the existence and state checks on everything the
// header points at. Each failure aborts the posting.
func (s *Service) checkReferences(ctx context.Context, in PostInput) error {
	switch in.Direction {
	case DirectionInbound:
		sup, err := s.counterparties.GetSupplier(ctx, in.CounterpartyID)
		if err != nil {
			return err
		}
		if !sup.IsActive() {
			return apperror.NewValidation("supplier is deactivated").
				WithDetail("supplierId", in.CounterpartyID.String())
		}
	case DirectionOutbound:
		cli, err := s.counterparties.GetClient(ctx, in.CounterpartyID)
		if err != nil {
			return err
		}
		if !cli.IsActive() {
			return apperror.NewValidation("client is deactivated").
				WithDetail("clientId", in.CounterpartyID.String())
		}
	default:
		return apperror.NewValidation("invalid document direction").
			WithDetail("field", "direction").
			WithDetail("value", string(in.Direction))
	}

	if in.CarrierID != nil {
		car, err := s.counterparties.GetCarrier(ctx, *in.CarrierID)
		if err != nil {
			return err
		}
		if !car.IsActive() {
			return apperror.NewValidation("carrier is deactivated").
				WithDetail("carrierId", in.CarrierID.String())
		}
	}

	if in.PaymentMethodID != nil {
		ok, err := s.methods.Exists(ctx, *in.PaymentMethodID)
		if err != nil {
			return fmt.Errorf("check payment method: %w", err)
		}
		if !ok {
			return apperror.NewNotFound("payment method", in.PaymentMethodID.String())
		}
	}

	return nil
}

func (s *Service) loadCondition(ctx context.Context, conditionID *id.ID) (*payment.Condition, error) {
	if conditionID == nil {
		return nil, nil
	}
	condition, err := s.conditions.GetByID(ctx, *conditionID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("payment condition", conditionID.String())
		}
		return nil, err
	}
	return condition, nil
}

func (s *Service) computeLines(ctx context.Context, inputs []LineInput) ([]*Line, error) {
	if len(inputs) == 0 {
		return nil, apperror.NewValidation("invoice requires at least one line item").
			WithDetail("field", "lines")
	}

	lines := make([]*Line, 0, len(inputs))
	for i, in := range inputs {
		p, err := s.products.GetByID(ctx, in.ProductID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.NewNotFound("product", in.ProductID.String()).
					WithDetail("lineNumber", i+1)
			}
			return nil, err
		}

		line, err := ComputeLine(p, i+1, in)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *Service) buildInvoice(in PostInput, lines []*Line) *Invoice {
	key := Key{Model: in.Model, Series: in.Series, Number: in.Number, Direction: in.Direction}
	inv := NewInvoice(key, in.CounterpartyID, in.EmissionDate)

	inv.CarrierID = in.CarrierID
	inv.PaymentConditionID = in.PaymentConditionID
	inv.PaymentMethodID = in.PaymentMethodID
	inv.Total = in.DeclaredTotal
	inv.ExitDate = in.ExitDate
	inv.AccessKey = in.AccessKey
	inv.AuthProtocol = in.AuthProtocol
	inv.Freight = in.Freight
	inv.GrossWeight = in.GrossWeight
	inv.NetWeight = in.NetWeight
	inv.Comment = in.Comment
	inv.Lines = lines

	return inv
}

// Delete removes a posted document with its lines and installments.
// Blocked once any installment is paid.
func (s *Service) Delete(ctx context.Context, documentID id.ID) error {
	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, documentID); err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("invoice", documentID.String())
			}
			return err
		}

		paid, err := s.installments.CountPaid(ctx, documentID)
		if err != nil {
			return fmt.Errorf("count paid installments: %w", err)
		}
		if paid > 0 {
			return apperror.NewIntegrity("document has paid installments and cannot be deleted").
				WithDetail("documentId", documentID.String()).
				WithDetail("paidInstallments", paid)
		}

		// Dependents go first, header last.
		if err := s.installments.DeleteByDocument(ctx, documentID); err != nil {
			return fmt.Errorf("delete installments: %w", err)
		}
		if err := s.repo.DeleteLines(ctx, documentID); err != nil {
			return fmt.Errorf("delete invoice lines: %w", err)
		}
		if err := s.repo.Delete(ctx, documentID); err != nil {
			return fmt.Errorf("delete invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.auditor.Record(ctx, domain.AuditActionDelete, documentID, nil); err != nil {
		logger.Warn(ctx, "audit record failed",
			"action", domain.AuditActionDelete, "document_id", documentID, "error", err)
	}

	logger.Info(ctx, "invoice deleted", "document_id", documentID)
	return nil
}

// Get retrieves an invoice with its lines.
func (s *Service) Get(ctx context.Context, documentID id.ID) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, documentID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("invoice", documentID.String())
		}
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("load invoice lines: %w", err)
	}
	inv.Lines = lines
	return inv, nil
}

// GetByKey retrieves an invoice with its lines by natural key.
func (s *Service) GetByKey(ctx context.Context, key Key) (*Invoice, error) {
	inv, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("invoice", key.String())
		}
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("load invoice lines: %w", err)
	}
	inv.Lines = lines
	return inv, nil
}

// List retrieves invoice headers with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Invoice], error) {
	return s.repo.List(ctx, filter)
}
