package invoice

import (
	"testing"

	"faturas/internal/core/apperror"
	"faturas/internal/core/types"
)

func linesWithTotals(totals ...string) []*Line {
	lines := make([]*Line, 0, len(totals))
	for i, t := range totals {
		lines = append(lines, &Line{LineNumber: i + 1, LineTotal: types.MustMoney(t)})
	}
	return lines
}

func TestReconcileTotal(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		totals   []string
		wantErr  bool
	}{
		{name: "exact match", declared: "100.00", totals: []string{"50.00", "50.00"}},
		{name: "off by 0.01 within tolerance", declared: "100.00", totals: []string{"33.33", "33.33", "33.34"}},
		{name: "off by 0.01 short within tolerance", declared: "100.00", totals: []string{"33.33", "33.33", "33.33"}, wantErr: false},
		{name: "off by 0.02 fails", declared: "100.00", totals: []string{"33.33", "33.33", "33.32"}, wantErr: true},
		{name: "declared above by 0.02 fails", declared: "100.02", totals: []string{"50.00", "50.00"}, wantErr: true},
		{name: "single line", declared: "42.90", totals: []string{"42.90"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ReconcileTotal(types.MustMoney(tt.declared), linesWithTotals(tt.totals...))
			if tt.wantErr {
				appErr, ok := apperror.AsAppError(err)
				if !ok || appErr.Code != apperror.CodeValidation {
					t.Fatalf("expected VALIDATION_ERROR, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
