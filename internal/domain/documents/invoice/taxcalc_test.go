package invoice

import (
	"testing"

	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/core/types"
	"faturas/internal/domain/catalogs/product"
)

func taxedProduct() *product.Product {
	p := product.NewProduct("PRD-001", "Parafuso sextavado", "UN")
	p.UnitPrice = types.MustMoney("5.00")
	p.ICMSRate = types.MustMoney("18.00")
	p.IPIRate = types.MustMoney("5.00")
	p.PISRate = types.MustMoney("1.65")
	p.COFINSRate = types.MustMoney("7.60")
	return p
}

func TestComputeLine_Defaults(t *testing.T) {
	p := taxedProduct()

	line, err := ComputeLine(p, 1, LineInput{
		ProductID: p.ID,
		Quantity:  types.MustMoney("10"),
		UnitPrice: types.MustMoney("5.00"),
	})
	if err != nil {
		t.Fatalf("compute line: %v", err)
	}

	if !line.LineTotal.Equal(types.MustMoney("50.00")) {
		t.Fatalf("line total %s, want 50.00", line.LineTotal)
	}

	checks := []struct {
		name   string
		fields TaxFields
		rate   string
		amount string
	}{
		{"icms", line.ICMS, "18.00", "9.00"},
		{"ipi", line.IPI, "5.00", "2.50"},
		{"pis", line.PIS, "1.65", "0.83"},      // 50 * 1.65% = 0.825, rounds half up
		{"cofins", line.COFINS, "7.60", "3.80"},
	}
	for _, c := range checks {
		if !c.fields.Base.Equal(types.MustMoney("50.00")) {
			t.Errorf("%s base %s, want line total", c.name, c.fields.Base)
		}
		if !c.fields.Rate.Equal(types.MustMoney(c.rate)) {
			t.Errorf("%s rate %s, want %s", c.name, c.fields.Rate, c.rate)
		}
		if !c.fields.Amount.Equal(types.MustMoney(c.amount)) {
			t.Errorf("%s amount %s, want %s", c.name, c.fields.Amount, c.amount)
		}
	}
}

func TestComputeLine_Overrides(t *testing.T) {
	p := taxedProduct()

	line, err := ComputeLine(p, 1, LineInput{
		ProductID: p.ID,
		Quantity:  types.MustMoney("2"),
		UnitPrice: types.MustMoney("100.00"),
		Overrides: TaxOverrides{
			ICMS: TaxOverride{Base: types.MustMoney("150.00"), Rate: types.MustMoney("12.00")},
			IPI:  TaxOverride{Amount: types.MustMoney("7.77")},
		},
	})
	if err != nil {
		t.Fatalf("compute line: %v", err)
	}

	// Overridden base and rate are used verbatim; amount follows them.
	if !line.ICMS.Base.Equal(types.MustMoney("150.00")) {
		t.Errorf("icms base %s, want override 150.00", line.ICMS.Base)
	}
	if !line.ICMS.Amount.Equal(types.MustMoney("18.00")) {
		t.Errorf("icms amount %s, want 150 * 12%% = 18.00", line.ICMS.Amount)
	}

	// An explicit amount wins over the computed one.
	if !line.IPI.Amount.Equal(types.MustMoney("7.77")) {
		t.Errorf("ipi amount %s, want override 7.77", line.IPI.Amount)
	}
	if !line.IPI.Base.Equal(types.MustMoney("200.00")) {
		t.Errorf("ipi base %s, want default line total", line.IPI.Base)
	}

	// Untouched categories keep product defaults.
	if !line.PIS.Rate.Equal(types.MustMoney("1.65")) {
		t.Errorf("pis rate %s, want product aliquot", line.PIS.Rate)
	}
}

func TestComputeLine_ZeroOverrideMeansAbsent(t *testing.T) {
	p := taxedProduct()

	// A zero rate override cannot force a zero tax: the product aliquot
	// still applies.
	line, err := ComputeLine(p, 1, LineInput{
		ProductID: p.ID,
		Quantity:  types.MustMoney("1"),
		UnitPrice: types.MustMoney("100.00"),
		Overrides: TaxOverrides{
			ICMS: TaxOverride{Rate: types.Zero()},
		},
	})
	if err != nil {
		t.Fatalf("compute line: %v", err)
	}

	if !line.ICMS.Rate.Equal(types.MustMoney("18.00")) {
		t.Errorf("icms rate %s, want product default (zero override is absent)", line.ICMS.Rate)
	}
}

func TestComputeLine_UntaxedProduct(t *testing.T) {
	p := product.NewProduct("SRV-001", "Frete local", "UN")

	line, err := ComputeLine(p, 1, LineInput{
		ProductID: p.ID,
		Quantity:  types.MustMoney("1"),
		UnitPrice: types.MustMoney("80.00"),
	})
	if err != nil {
		t.Fatalf("compute line: %v", err)
	}

	for name, f := range map[string]TaxFields{
		"icms": line.ICMS, "ipi": line.IPI, "pis": line.PIS, "cofins": line.COFINS,
	} {
		if !f.Amount.IsZero() {
			t.Errorf("%s amount %s, want zero for untaxed product", name, f.Amount)
		}
	}
}

func TestComputeLine_InvalidQuantity(t *testing.T) {
	p := taxedProduct()

	_, err := ComputeLine(p, 1, LineInput{
		ProductID: id.New(),
		Quantity:  types.Zero(),
		UnitPrice: types.MustMoney("5.00"),
	})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestComputeLine_RoundsLineTotal(t *testing.T) {
	p := taxedProduct()

	line, err := ComputeLine(p, 1, LineInput{
		ProductID: p.ID,
		Quantity:  types.MustMoney("3"),
		UnitPrice: types.MustMoney("0.335"),
	})
	if err != nil {
		t.Fatalf("compute line: %v", err)
	}
	// 3 * 0.335 = 1.005 -> 1.01 (half away from zero)
	if !line.LineTotal.Equal(types.MustMoney("1.01")) {
		t.Errorf("line total %s, want 1.01", line.LineTotal)
	}
}
