package invoice

import (
	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/core/types"
	"faturas/internal/domain/catalogs/product"
)

// TaxOverride carries explicit values for one tax category. A zero
// field is treated as absent, not as "force zero": the legacy override
// policy cannot express an explicit zero tax and this behavior is
// preserved until the product owner rules otherwise.
type TaxOverride struct {
	Base   types.Money `json:"base"`
	Rate   types.Money `json:"rate"`
	Amount types.Money `json:"amount"`
}

// TaxOverrides groups the per-category overrides of one line.
type TaxOverrides struct {
	ICMS   TaxOverride `json:"icms"`
	IPI    TaxOverride `json:"ipi"`
	PIS    TaxOverride `json:"pis"`
	COFINS TaxOverride `json:"cofins"`
}

// LineInput is the raw line item of a posting request.
type LineInput struct {
	ProductID id.ID        `json:"productId"`
	Quantity  types.Money  `json:"quantity"`
	UnitPrice types.Money  `json:"unitPrice"`
	Overrides TaxOverrides `json:"overrides"`
}

// ComputeLine builds a Line from the raw input and the product's
// default aliquots.
//
// Line total = quantity x unit price, rounded to cents. For each tax
// category: base defaults to the line total, rate to the product
// aliquot, amount to base x rate / 100; any non-zero override replaces
// the corresponding field verbatim.
func ComputeLine(p *product.Product, lineNumber int, in LineInput) (*Line, error) {
	if !in.Quantity.IsPositive() {
		return nil, apperror.NewValidation("line quantity must be positive").
			WithDetail("lineNumber", lineNumber).
			WithDetail("value", in.Quantity.String())
	}
	if in.UnitPrice.IsNegative() {
		return nil, apperror.NewValidation("line unit price cannot be negative").
			WithDetail("lineNumber", lineNumber).
			WithDetail("value", in.UnitPrice.String())
	}

	lineTotal := types.RoundMoney(in.Quantity.Mul(in.UnitPrice))

	return &Line{
		ID:         id.New(),
		LineNumber: lineNumber,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice,
		LineTotal:  lineTotal,
		ICMS:       computeTax(lineTotal, p.ICMSRate, in.Overrides.ICMS),
		IPI:        computeTax(lineTotal, p.IPIRate, in.Overrides.IPI),
		PIS:        computeTax(lineTotal, p.PISRate, in.Overrides.PIS),
		COFINS:     computeTax(lineTotal, p.COFINSRate, in.Overrides.COFINS),
	}, nil
}

func computeTax(lineTotal, defaultRate types.Money, ov TaxOverride) TaxFields {
	base := lineTotal
	if !ov.Base.IsZero() {
		base = ov.Base
	}

	rate := defaultRate
	if !ov.Rate.IsZero() {
		rate = ov.Rate
	}

	amount := types.Percent(base, rate)
	if !ov.Amount.IsZero() {
		amount = ov.Amount
	}

	return TaxFields{Base: base, Rate: rate, Amount: amount}
}
