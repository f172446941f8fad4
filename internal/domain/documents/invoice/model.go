// Package invoice provides the Invoice document: the NFe-shaped header
// with line items, per-line tax calculation, totals reconciliation and
// the posting flow that derives payable installments.
package invoice

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"faturas/internal/core/apperror"
	"faturas/internal/core/entity"
	"faturas/internal/core/id"
	"faturas/internal/core/types"
)

// Direction tags the document flow relative to the company.
type Direction string

const (
	// DirectionInbound: goods received, counterparty is a supplier
	DirectionInbound Direction = "inbound"

	// DirectionOutbound: goods issued, counterparty is a client
	DirectionOutbound Direction = "outbound"
)

// accessKeyRE matches the 44-digit NFe access key.
var accessKeyRE = regexp.MustCompile(`^\d{44}$`)

// Key is the invoice natural key. Uniqueness is enforced by the store.
type Key struct {
	Model     string    `json:"model"`
	Series    string    `json:"series"`
	Number    string    `json:"number"`
	Direction Direction `json:"direction"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", k.Model, k.Series, k.Number, k.Direction)
}

// TaxFields is one tax category's computed triple on a line.
type TaxFields struct {
	Base   types.Money `json:"base"`
	Rate   types.Money `json:"rate"`
	Amount types.Money `json:"amount"`
}

// Line is an invoice line item. (document_id, line_number) is unique.
type Line struct {
	ID         id.ID `db:"id" json:"id"`
	DocumentID id.ID `db:"document_id" json:"documentId"`
	LineNumber int   `db:"line_number" json:"lineNumber"`

	ProductID id.ID       `db:"product_id" json:"productId"`
	Quantity  types.Money `db:"quantity" json:"quantity"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
	LineTotal types.Money `db:"line_total" json:"lineTotal"`

	ICMS   TaxFields `db:"-" json:"icms"`
	IPI    TaxFields `db:"-" json:"ipi"`
	PIS    TaxFields `db:"-" json:"pis"`
	COFINS TaxFields `db:"-" json:"cofins"`
}

// Invoice is the document header. The embedded Date is the emission
// date. A stored row is a POSTED document; there is no draft state.
type Invoice struct {
	entity.Document

	Model     string    `db:"model" json:"model"`
	Series    string    `db:"series" json:"series"`
	Number    string    `db:"number" json:"number"`
	Direction Direction `db:"direction" json:"direction"`

	// CounterpartyID references a supplier (inbound) or client (outbound)
	CounterpartyID id.ID  `db:"counterparty_id" json:"counterpartyId"`
	CarrierID      *id.ID `db:"carrier_id" json:"carrierId,omitempty"`

	PaymentConditionID *id.ID `db:"payment_condition_id" json:"paymentConditionId,omitempty"`
	PaymentMethodID    *id.ID `db:"payment_method_id" json:"paymentMethodId,omitempty"`

	// Total is the declared document total, persisted as given
	Total types.Money `db:"total" json:"total"`

	ExitDate *time.Time `db:"exit_date" json:"exitDate,omitempty"`

	// Tax document metadata
	AccessKey    *string `db:"access_key" json:"accessKey,omitempty"`
	AuthProtocol *string `db:"auth_protocol" json:"authProtocol,omitempty"`

	Freight     types.Money `db:"freight" json:"freight"`
	GrossWeight types.Money `db:"gross_weight" json:"grossWeight"`
	NetWeight   types.Money `db:"net_weight" json:"netWeight"`

	Lines []*Line `db:"-" json:"lines"`
}

// NewInvoice creates an invoice header with generated id and timestamps.
func NewInvoice(key Key, counterpartyID id.ID, emission time.Time) *Invoice {
	inv := &Invoice{
		Document:       entity.NewDocument(),
		Model:          key.Model,
		Series:         key.Series,
		Number:         key.Number,
		Direction:      key.Direction,
		CounterpartyID: counterpartyID,
		Total:          types.Zero(),
		Freight:        types.Zero(),
		GrossWeight:    types.Zero(),
		NetWeight:      types.Zero(),
	}
	inv.Date = emission
	return inv
}

// Key returns the natural key.
func (i *Invoice) Key() Key {
	return Key{Model: i.Model, Series: i.Series, Number: i.Number, Direction: i.Direction}
}

// Validate implements entity.Validatable interface.
func (i *Invoice) Validate(ctx context.Context) error {
	if err := i.Document.Validate(ctx); err != nil {
		return err
	}

	if i.Model == "" || i.Series == "" || i.Number == "" {
		return apperror.NewValidation("model, series and number are required").
			WithDetail("key", i.Key().String())
	}

	switch i.Direction {
	case DirectionInbound, DirectionOutbound:
	default:
		return apperror.NewValidation("invalid document direction").
			WithDetail("field", "direction").
			WithDetail("value", string(i.Direction))
	}

	if id.IsNil(i.CounterpartyID) {
		return apperror.NewValidation("counterparty is required").
			WithDetail("field", "counterpartyId")
	}

	if !i.Total.IsPositive() {
		return apperror.NewValidation("declared total must be positive").
			WithDetail("field", "total").
			WithDetail("value", i.Total.String())
	}

	if i.AccessKey != nil && *i.AccessKey != "" && !accessKeyRE.MatchString(*i.AccessKey) {
		return apperror.NewValidation("access key must be 44 digits").
			WithDetail("field", "accessKey")
	}

	if i.Freight.IsNegative() || i.GrossWeight.IsNegative() || i.NetWeight.IsNegative() {
		return apperror.NewValidation("freight and weights cannot be negative")
	}

	if len(i.Lines) == 0 {
		return apperror.NewValidation("invoice requires at least one line item").
			WithDetail("field", "lines")
	}
	for idx, line := range i.Lines {
		if line.LineNumber != idx+1 {
			return apperror.NewValidation("line numbers must be contiguous starting at 1").
				WithDetail("position", idx).
				WithDetail("lineNumber", line.LineNumber)
		}
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("line item requires a product").
				WithDetail("lineNumber", line.LineNumber)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("line quantity must be positive").
				WithDetail("lineNumber", line.LineNumber).
				WithDetail("value", line.Quantity.String())
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("line unit price cannot be negative").
				WithDetail("lineNumber", line.LineNumber)
		}
	}

	return nil
}
