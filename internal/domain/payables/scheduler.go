package payables

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/core/types"
	"faturas/internal/domain/catalogs/payment"
)

// DueDatePolicy selects how installment due dates are derived from the
// payment condition. The legacy back office always spaced parcels a
// fixed 30 days apart and ignored the per-template day offset; whether
// that is a business rule or a bug is an open product question, so both
// behaviors are kept behind this policy switch.
type DueDatePolicy string

const (
	// DueDateFixedStep: parcel k is due emission + 30*k days.
	DueDateFixedStep DueDatePolicy = "fixed_step"

	// DueDateTemplateOffset: parcel k is due emission + template day offset.
	DueDateTemplateOffset DueDatePolicy = "template_offset"
)

const fixedStepDays = 30

// ParseDueDatePolicy converts a configuration string to a policy.
func ParseDueDatePolicy(s string) (DueDatePolicy, error) {
	switch DueDatePolicy(s) {
	case DueDateFixedStep, DueDateTemplateOffset:
		return DueDatePolicy(s), nil
	case "":
		return DueDateFixedStep, nil
	}
	return "", fmt.Errorf("unknown due date policy %q", s)
}

// Scheduler expands a payment condition into OPEN installments.
type Scheduler struct {
	policy DueDatePolicy
}

// NewScheduler creates a scheduler with the given due date policy.
func NewScheduler(policy DueDatePolicy) *Scheduler {
	return &Scheduler{policy: policy}
}

// Schedule derives the installments for a posted document.
//
// Every installment gets the same amount, round(total/n, 2). The
// rounding drift against the document total can reach (n-1)*0.01 and is
// deliberately not absorbed by the last parcel.
func (s *Scheduler) Schedule(
	documentID id.ID,
	total types.Money,
	emission time.Time,
	condition *payment.Condition,
) ([]*Installment, error) {
	if emission.IsZero() {
		return nil, apperror.NewValidation("emission date is required for scheduling").
			WithDetail("field", "emissionDate")
	}
	if !total.IsPositive() {
		return nil, apperror.NewValidation("document total must be positive for scheduling").
			WithDetail("field", "total").
			WithDetail("value", total.String())
	}
	n := condition.Installments()
	if n == 0 {
		return nil, apperror.NewValidation("payment condition has no installment templates").
			WithDetail("conditionId", condition.ID.String())
	}

	amount := total.DivRound(decimal.NewFromInt(int64(n)), types.MoneyScale)

	installments := make([]*Installment, 0, n)
	for _, tpl := range condition.Templates {
		due := s.dueDate(emission, tpl)
		installments = append(installments,
			NewInstallment(documentID, tpl.ParcelNumber, due, amount, tpl.PaymentMethodID))
	}
	return installments, nil
}

func (s *Scheduler) dueDate(emission time.Time, tpl payment.InstallmentTemplate) time.Time {
	if s.policy == DueDateTemplateOffset {
		return emission.AddDate(0, 0, tpl.DayOffset)
	}
	return emission.AddDate(0, 0, fixedStepDays*tpl.ParcelNumber)
}
