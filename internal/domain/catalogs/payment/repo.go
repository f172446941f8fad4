package payment

import (
	"faturas/internal/core/tx"
	"faturas/internal/domain"
)

// MethodRepository defines persistence for payment methods.
type MethodRepository = domain.CatalogRepository[*Method]

// ConditionRepository defines persistence for payment conditions.
// Implementations load and save the template rows together with the
// condition header.
type ConditionRepository = domain.CatalogRepository[*Condition]

// MethodService provides payment method business logic.
type MethodService = domain.CatalogService[*Method]

// ConditionService provides payment condition business logic.
type ConditionService = domain.CatalogService[*Condition]

// NewMethodService creates a payment method service.
func NewMethodService(repo MethodRepository, txManager tx.Manager) *MethodService {
	return domain.NewCatalogService(domain.CatalogServiceConfig[*Method]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "payment method",
	})
}

// NewConditionService creates a payment condition service.
func NewConditionService(repo ConditionRepository, txManager tx.Manager) *ConditionService {
	return domain.NewCatalogService(domain.CatalogServiceConfig[*Condition]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "payment condition",
	})
}
