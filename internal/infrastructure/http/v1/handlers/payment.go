package handlers

import (
	"faturas/internal/domain/catalogs/payment"
	"faturas/internal/infrastructure/http/v1/dto"
)

// PaymentMethodHandler handles HTTP requests for the payment method catalog.
type PaymentMethodHandler struct {
	*CatalogHandler[*payment.Method, dto.CreatePaymentMethodRequest, dto.UpdatePaymentMethodRequest]
}

// NewPaymentMethodHandler creates a new payment method handler.
func NewPaymentMethodHandler(base *BaseHandler, service *payment.MethodService) *PaymentMethodHandler {
	cfg := CatalogHandlerConfig[*payment.Method, dto.CreatePaymentMethodRequest, dto.UpdatePaymentMethodRequest]{
		Service:    service,
		EntityName: "payment-method",
		MapCreateDTO: func(req dto.CreatePaymentMethodRequest) (*payment.Method, error) {
			return req.ToEntity(), nil
		},
		MapUpdateDTO: func(req dto.UpdatePaymentMethodRequest, existing *payment.Method) error {
			req.ApplyTo(existing)
			return nil
		},
	}

	return &PaymentMethodHandler{
		CatalogHandler: NewCatalogHandler(base, cfg),
	}
}

// PaymentConditionHandler handles HTTP requests for the payment
// condition catalog (header plus installment templates).
type PaymentConditionHandler struct {
	*CatalogHandler[*payment.Condition, dto.CreatePaymentConditionRequest, dto.UpdatePaymentConditionRequest]
}

// NewPaymentConditionHandler creates a new payment condition handler.
func NewPaymentConditionHandler(base *BaseHandler, service *payment.ConditionService) *PaymentConditionHandler {
	cfg := CatalogHandlerConfig[*payment.Condition, dto.CreatePaymentConditionRequest, dto.UpdatePaymentConditionRequest]{
		Service:    service,
		EntityName: "payment-condition",
		MapCreateDTO: func(req dto.CreatePaymentConditionRequest) (*payment.Condition, error) {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdatePaymentConditionRequest, existing *payment.Condition) error {
			return req.ApplyTo(existing)
		},
	}

	return &PaymentConditionHandler{
		CatalogHandler: NewCatalogHandler(base, cfg),
	}
}
