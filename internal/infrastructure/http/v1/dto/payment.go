package dto

import (
	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/core/types"
	"faturas/internal/domain/catalogs/payment"
)

// CreatePaymentMethodRequest for creating payment methods.
type CreatePaymentMethodRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// ToEntity maps the request to a domain payment method.
func (r CreatePaymentMethodRequest) ToEntity() *payment.Method {
	m := payment.NewMethod(r.Code, r.Name)
	m.Description = r.Description
	return m
}

// UpdatePaymentMethodRequest for updating payment methods.
type UpdatePaymentMethodRequest struct {
	Code        *string `json:"code"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Version     int     `json:"version" binding:"required,min=1"`
}

// ApplyTo merges non-nil fields into an existing method.
func (r UpdatePaymentMethodRequest) ApplyTo(m *payment.Method) {
	if r.Code != nil {
		m.Code = *r.Code
	}
	if r.Name != nil {
		m.Name = *r.Name
	}
	if r.Description != nil {
		m.Description = r.Description
	}
	m.SetVersion(r.Version)
}

// InstallmentTemplateRequest is one parcel row of a payment condition.
type InstallmentTemplateRequest struct {
	ParcelNumber    int         `json:"parcelNumber" binding:"required,min=1"`
	PaymentMethodID string      `json:"paymentMethodId" binding:"required"`
	DayOffset       int         `json:"dayOffset"`
	Percentage      types.Money `json:"percentage"`
}

// CreatePaymentConditionRequest for creating payment conditions.
type CreatePaymentConditionRequest struct {
	Code      string                       `json:"code"`
	Name      string                       `json:"name" binding:"required"`
	Templates []InstallmentTemplateRequest `json:"templates" binding:"required,min=1"`
}

// ToEntity maps the request to a domain payment condition.
func (r CreatePaymentConditionRequest) ToEntity() (*payment.Condition, error) {
	cond := payment.NewCondition(r.Code, r.Name)

	templates, err := mapTemplates(r.Templates)
	if err != nil {
		return nil, err
	}
	cond.Templates = templates
	return cond, nil
}

// UpdatePaymentConditionRequest for updating payment conditions.
// Templates, when present, replace the stored set entirely.
type UpdatePaymentConditionRequest struct {
	Code      *string                      `json:"code"`
	Name      *string                      `json:"name"`
	Templates []InstallmentTemplateRequest `json:"templates"`
	Version   int                          `json:"version" binding:"required,min=1"`
}

// ApplyTo merges the request into an existing condition.
func (r UpdatePaymentConditionRequest) ApplyTo(cond *payment.Condition) error {
	if r.Code != nil {
		cond.Code = *r.Code
	}
	if r.Name != nil {
		cond.Name = *r.Name
	}
	if r.Templates != nil {
		templates, err := mapTemplates(r.Templates)
		if err != nil {
			return err
		}
		cond.Templates = templates
	}
	cond.SetVersion(r.Version)
	return nil
}

func mapTemplates(reqs []InstallmentTemplateRequest) ([]payment.InstallmentTemplate, error) {
	templates := make([]payment.InstallmentTemplate, 0, len(reqs))
	for _, t := range reqs {
		methodID, err := id.Parse(t.PaymentMethodID)
		if err != nil {
			return nil, apperror.NewValidation("invalid payment method id").
				WithDetail("parcelNumber", t.ParcelNumber)
		}
		templates = append(templates, payment.InstallmentTemplate{
			ParcelNumber:    t.ParcelNumber,
			PaymentMethodID: methodID,
			DayOffset:       t.DayOffset,
			Percentage:      t.Percentage,
		})
	}
	return templates, nil
}
