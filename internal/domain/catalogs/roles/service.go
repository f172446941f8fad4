package roles

import (
	"context"
	"fmt"
	"time"

	"faturas/internal/core/apperror"
	"faturas/internal/core/entity"
	"faturas/internal/core/id"
	"faturas/internal/core/tx"
	"faturas/internal/core/types"
	"faturas/internal/domain"
	"faturas/internal/domain/catalogs/party"
	"faturas/pkg/logger"
)

// PartyResolver resolves a tax id to a Party, creating one if needed.
type PartyResolver interface {
	Resolve(ctx context.Context, rawTaxID string, attrs party.Attributes) (id.ID, error)
}

// PartyReader retrieves resolved parties.
type PartyReader interface {
	GetByID(ctx context.Context, partyID id.ID) (*party.Party, error)
}

// ConditionChecker verifies payment condition references.
type ConditionChecker interface {
	Exists(ctx context.Context, conditionID id.ID) (bool, error)
}

// roleEntity is satisfied by all role catalog entities.
type roleEntity interface {
	entity.Validatable
	record() *RoleRecord
}

// RegisterInput carries the shared registration fields.
type RegisterInput struct {
	// TaxID is the raw CPF/CNPJ; formatting is tolerated. Empty creates
	// a party without a tax id (never deduplicated).
	TaxID string

	// Party holds the identity attributes. Non-empty fields overwrite
	// what an existing party already stores.
	Party party.Attributes
}

// ClientInput registers or updates a client role.
type ClientInput struct {
	RegisterInput
	CreditLimit types.Money
}

// SupplierInput registers or updates a supplier role.
type SupplierInput struct {
	RegisterInput
	PaymentConditionID *id.ID
}

// CarrierInput registers or updates a carrier role.
type CarrierInput struct {
	RegisterInput
	RNTRC *string
}

// Service registers and manages role records. Registration is
// upsert-shaped: a second registration for the same tax id reuses the
// existing Party and role record instead of duplicating either.
type Service struct {
	resolver   PartyResolver
	parties    PartyReader
	conditions ConditionChecker
	txManager  tx.Manager

	clients   ClientRepository
	suppliers SupplierRepository
	carriers  CarrierRepository
}

// ServiceConfig configures the role service.
type ServiceConfig struct {
	Resolver   PartyResolver
	Parties    PartyReader
	Conditions ConditionChecker
	TxManager  tx.Manager

	Clients   ClientRepository
	Suppliers SupplierRepository
	Carriers  CarrierRepository
}

// NewService creates a role service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		resolver:   cfg.Resolver,
		parties:    cfg.Parties,
		conditions: cfg.Conditions,
		txManager:  cfg.TxManager,
		clients:    cfg.Clients,
		suppliers:  cfg.Suppliers,
		carriers:   cfg.Carriers,
	}
}

// RegisterClient resolves the party and creates or refreshes its client
// role in a single transaction.
func (s *Service) RegisterClient(ctx context.Context, in ClientInput) (*Client, error) {
	var result *Client
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := registerRole(ctx, s, s.clients, "client", in.RegisterInput, NewClient,
			func(c *Client) { c.CreditLimit = in.CreditLimit })
		if err != nil {
			return err
		}
		result = c
		return nil
	})
	return result, err
}

// RegisterSupplier resolves the party and creates or refreshes its
// supplier role in a single transaction.
func (s *Service) RegisterSupplier(ctx context.Context, in SupplierInput) (*Supplier, error) {
	var result *Supplier
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if in.PaymentConditionID != nil {
			ok, err := s.conditions.Exists(ctx, *in.PaymentConditionID)
			if err != nil {
				return fmt.Errorf("check payment condition: %w", err)
			}
			if !ok {
				return apperror.NewNotFound("payment condition", in.PaymentConditionID.String())
			}
		}

		sup, err := registerRole(ctx, s, s.suppliers, "supplier", in.RegisterInput, NewSupplier,
			func(sup *Supplier) {
				if in.PaymentConditionID != nil {
					sup.PaymentConditionID = in.PaymentConditionID
				}
			})
		if err != nil {
			return err
		}
		result = sup
		return nil
	})
	return result, err
}

// RegisterCarrier resolves the party and creates or refreshes its
// carrier role in a single transaction.
func (s *Service) RegisterCarrier(ctx context.Context, in CarrierInput) (*Carrier, error) {
	var result *Carrier
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := registerRole(ctx, s, s.carriers, "carrier", in.RegisterInput, NewCarrier,
			func(c *Carrier) {
				if in.RNTRC != nil && *in.RNTRC != "" {
					c.RNTRC = in.RNTRC
				}
			})
		if err != nil {
			return err
		}
		result = c
		return nil
	})
	return result, err
}

// registerRole is the shared upsert: resolve party, then update the
// existing role record or create a fresh one.
func registerRole[T roleEntity](
	ctx context.Context,
	s *Service,
	repo Repository[T],
	roleName string,
	in RegisterInput,
	build func(partyID id.ID, code, name string) T,
	apply func(T),
) (T, error) {
	var zero T

	if in.Party.LegalName == "" {
		return zero, apperror.NewValidation("legal name is required").
			WithDetail("field", "legalName")
	}

	partyID, err := s.resolver.Resolve(ctx, in.TaxID, in.Party)
	if err != nil {
		return zero, err
	}

	p, err := s.parties.GetByID(ctx, partyID)
	if err != nil {
		return zero, fmt.Errorf("load resolved party: %w", err)
	}

	existing, err := repo.FindByPartyID(ctx, partyID)
	if err == nil {
		rec := existing.record()
		rec.Name = p.Name
		apply(existing)
		if err := existing.Validate(ctx); err != nil {
			return zero, err
		}
		if err := repo.Update(ctx, existing); err != nil {
			return zero, fmt.Errorf("update %s: %w", roleName, err)
		}
		logger.Debug(ctx, "role record refreshed",
			"role", roleName, "party_id", partyID)
		return existing, nil
	}
	if !apperror.IsNotFound(err) {
		return zero, err
	}

	role := build(partyID, p.Code, p.Name)
	apply(role)
	if err := role.Validate(ctx); err != nil {
		return zero, err
	}
	if err := repo.Create(ctx, role); err != nil {
		return zero, fmt.Errorf("create %s: %w", roleName, err)
	}

	logger.Info(ctx, "role record created",
		"role", roleName, "party_id", partyID)
	return role, nil
}

// --- Activation ---

// DeactivateClient moves a client out of circulation. Deactivated
// clients are rejected as counterparties on new invoices.
func (s *Service) DeactivateClient(ctx context.Context, clientID id.ID) error {
	return setActivation(ctx, s, s.clients, "client", clientID, ActivationDeactivated)
}

// ReactivateClient returns a deactivated client to circulation.
func (s *Service) ReactivateClient(ctx context.Context, clientID id.ID) error {
	return setActivation(ctx, s, s.clients, "client", clientID, ActivationActive)
}

func (s *Service) DeactivateSupplier(ctx context.Context, supplierID id.ID) error {
	return setActivation(ctx, s, s.suppliers, "supplier", supplierID, ActivationDeactivated)
}

func (s *Service) ReactivateSupplier(ctx context.Context, supplierID id.ID) error {
	return setActivation(ctx, s, s.suppliers, "supplier", supplierID, ActivationActive)
}

func (s *Service) DeactivateCarrier(ctx context.Context, carrierID id.ID) error {
	return setActivation(ctx, s, s.carriers, "carrier", carrierID, ActivationDeactivated)
}

func (s *Service) ReactivateCarrier(ctx context.Context, carrierID id.ID) error {
	return setActivation(ctx, s, s.carriers, "carrier", carrierID, ActivationActive)
}

func setActivation[T roleEntity](
	ctx context.Context,
	s *Service,
	repo Repository[T],
	roleName string,
	roleID id.ID,
	target Activation,
) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		role, err := repo.GetByID(ctx, roleID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound(roleName, roleID.String())
			}
			return err
		}

		rec := role.record()
		if rec.Activation == target {
			return apperror.NewConflict(
				fmt.Sprintf("%s is already %s", roleName, target)).
				WithDetail("id", roleID.String())
		}

		rec.Activation = target
		if target == ActivationDeactivated {
			now := time.Now().UTC()
			rec.DeactivatedAt = &now
		} else {
			rec.DeactivatedAt = nil
		}

		if err := repo.Update(ctx, role); err != nil {
			return fmt.Errorf("update %s activation: %w", roleName, err)
		}

		logger.Info(ctx, "role activation changed",
			"role", roleName, "id", roleID, "activation", target)
		return nil
	})
}

// --- Deletion ---

// DeleteClient removes a client role record. Invoices referencing the
// record block the deletion with an integrity error.
func (s *Service) DeleteClient(ctx context.Context, clientID id.ID) error {
	return deleteRole(ctx, s, s.clients, "client", clientID)
}

// DeleteSupplier removes a supplier role record.
func (s *Service) DeleteSupplier(ctx context.Context, supplierID id.ID) error {
	return deleteRole(ctx, s, s.suppliers, "supplier", supplierID)
}

// DeleteCarrier removes a carrier role record.
func (s *Service) DeleteCarrier(ctx context.Context, carrierID id.ID) error {
	return deleteRole(ctx, s, s.carriers, "carrier", carrierID)
}

func deleteRole[T roleEntity](ctx context.Context, s *Service, repo Repository[T], roleName string, roleID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := repo.Delete(ctx, roleID); err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound(roleName, roleID.String())
			}
			return err
		}
		logger.Info(ctx, "role deleted", "role", roleName, "id", roleID)
		return nil
	})
}

// --- Reads ---

// GetClient retrieves a client by id.
func (s *Service) GetClient(ctx context.Context, clientID id.ID) (*Client, error) {
	return getRole(ctx, s.clients, "client", clientID)
}

// GetSupplier retrieves a supplier by id.
func (s *Service) GetSupplier(ctx context.Context, supplierID id.ID) (*Supplier, error) {
	return getRole(ctx, s.suppliers, "supplier", supplierID)
}

// GetCarrier retrieves a carrier by id.
func (s *Service) GetCarrier(ctx context.Context, carrierID id.ID) (*Carrier, error) {
	return getRole(ctx, s.carriers, "carrier", carrierID)
}

func getRole[T roleEntity](ctx context.Context, repo Repository[T], roleName string, roleID id.ID) (T, error) {
	role, err := repo.GetByID(ctx, roleID)
	if err != nil {
		var zero T
		if apperror.IsNotFound(err) {
			return zero, apperror.NewNotFound(roleName, roleID.String())
		}
		return zero, err
	}
	return role, nil
}

// ListClients retrieves clients with filtering.
func (s *Service) ListClients(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Client], error) {
	return s.clients.List(ctx, filter)
}

// ListSuppliers retrieves suppliers with filtering.
func (s *Service) ListSuppliers(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Supplier], error) {
	return s.suppliers.List(ctx, filter)
}

// ListCarriers retrieves carriers with filtering.
func (s *Service) ListCarriers(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Carrier], error) {
	return s.carriers.List(ctx, filter)
}
