package invoice

import (
	"faturas/internal/core/apperror"
	"faturas/internal/core/types"
)

// ReconcileTotal verifies the declared document total against the sum
// of the computed line totals. The declared total is persisted as given
// when the difference stays within the 0.01 tolerance; beyond it the
// posting fails.
func ReconcileTotal(declared types.Money, lines []*Line) error {
	sum := types.Zero()
	for _, line := range lines {
		sum = sum.Add(line.LineTotal)
	}

	if !types.WithinTolerance(declared, sum) {
		return apperror.NewValidation("declared total does not match the sum of line totals").
			WithDetail("declared", declared.String()).
			WithDetail("computed", sum.String()).
			WithDetail("difference", declared.Sub(sum).Abs().String())
	}
	return nil
}
