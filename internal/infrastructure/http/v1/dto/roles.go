package dto

import (
	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/core/types"
	"faturas/internal/domain/catalogs/party"
	"faturas/internal/domain/catalogs/roles"
	"faturas/internal/domain/taxid"
)

// PartyRequest carries the identity attributes of a role registration.
type PartyRequest struct {
	Kind      string `json:"kind" binding:"required,oneof=individual organization"`
	LegalName string `json:"legalName" binding:"required"`

	TradeName      *string `json:"tradeName"`
	RegistrationID *string `json:"registrationId"`
	Street         *string `json:"street"`
	Number         *string `json:"number"`
	District       *string `json:"district"`
	CityCode       *string `json:"cityCode"`
	ZipCode        *string `json:"zipCode"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
}

func (r PartyRequest) toAttributes() party.Attributes {
	return party.Attributes{
		Kind:           taxid.PersonKind(r.Kind),
		LegalName:      r.LegalName,
		TradeName:      r.TradeName,
		RegistrationID: r.RegistrationID,
		Street:         r.Street,
		Number:         r.Number,
		District:       r.District,
		CityCode:       r.CityCode,
		ZipCode:        r.ZipCode,
		Phone:          r.Phone,
		Email:          r.Email,
	}
}

// RegisterClientRequest registers or updates a client role.
type RegisterClientRequest struct {
	TaxID       string       `json:"taxId"`
	Party       PartyRequest `json:"party" binding:"required"`
	CreditLimit types.Money  `json:"creditLimit"`
}

// ToInput maps the request to the service input.
func (r RegisterClientRequest) ToInput() roles.ClientInput {
	return roles.ClientInput{
		RegisterInput: roles.RegisterInput{
			TaxID: r.TaxID,
			Party: r.Party.toAttributes(),
		},
		CreditLimit: r.CreditLimit,
	}
}

// RegisterSupplierRequest registers or updates a supplier role.
type RegisterSupplierRequest struct {
	TaxID              string       `json:"taxId"`
	Party              PartyRequest `json:"party" binding:"required"`
	PaymentConditionID *string      `json:"paymentConditionId"`
}

// ToInput maps the request to the service input.
func (r RegisterSupplierRequest) ToInput() (roles.SupplierInput, error) {
	in := roles.SupplierInput{
		RegisterInput: roles.RegisterInput{
			TaxID: r.TaxID,
			Party: r.Party.toAttributes(),
		},
	}
	if r.PaymentConditionID != nil {
		conditionID, err := id.Parse(*r.PaymentConditionID)
		if err != nil {
			return in, apperror.NewValidation("invalid payment condition id")
		}
		in.PaymentConditionID = &conditionID
	}
	return in, nil
}

// RegisterCarrierRequest registers or updates a carrier role.
type RegisterCarrierRequest struct {
	TaxID string       `json:"taxId"`
	Party PartyRequest `json:"party" binding:"required"`
	RNTRC *string      `json:"rntrc"`
}

// ToInput maps the request to the service input.
func (r RegisterCarrierRequest) ToInput() roles.CarrierInput {
	return roles.CarrierInput{
		RegisterInput: roles.RegisterInput{
			TaxID: r.TaxID,
			Party: r.Party.toAttributes(),
		},
		RNTRC: r.RNTRC,
	}
}
