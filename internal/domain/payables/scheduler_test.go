package payables

import (
	"testing"
	"time"

	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/core/types"
	"faturas/internal/domain/catalogs/payment"
)

func makeCondition(offsets ...int) *payment.Condition {
	method := id.New()
	c := payment.NewCondition("TEST", "test condition")
	share := types.MustMoney("100").DivRound(types.NewMoney(float64(len(offsets))), 2)
	for i, off := range offsets {
		c.Templates = append(c.Templates, payment.InstallmentTemplate{
			ParcelNumber:    i + 1,
			PaymentMethodID: method,
			DayOffset:       off,
			Percentage:      share,
		})
	}
	return c
}

func TestSchedule_FixedStep(t *testing.T) {
	sched := NewScheduler(DueDateFixedStep)
	docID := id.New()
	emission := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	installments, err := sched.Schedule(docID, types.MustMoney("100.00"), emission, makeCondition(15, 45))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	if len(installments) != 2 {
		t.Fatalf("expected 2 installments, got %d", len(installments))
	}
	for k, inst := range installments {
		want := emission.AddDate(0, 0, 30*(k+1))
		if !inst.DueDate.Equal(want) {
			t.Errorf("parcel %d: due %s, want %s (fixed 30-day step ignores template offset)",
				k+1, inst.DueDate, want)
		}
		if !inst.Amount.Equal(types.MustMoney("50.00")) {
			t.Errorf("parcel %d: amount %s, want 50.00", k+1, inst.Amount)
		}
		if inst.Status != StatusOpen {
			t.Errorf("parcel %d: status %s, want OPEN", k+1, inst.Status)
		}
		if inst.DocumentID != docID {
			t.Errorf("parcel %d: wrong document id", k+1)
		}
	}
}

func TestSchedule_TemplateOffset(t *testing.T) {
	sched := NewScheduler(DueDateTemplateOffset)
	emission := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	installments, err := sched.Schedule(id.New(), types.MustMoney("90.00"), emission, makeCondition(0, 15, 45))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	wantOffsets := []int{0, 15, 45}
	for k, inst := range installments {
		want := emission.AddDate(0, 0, wantOffsets[k])
		if !inst.DueDate.Equal(want) {
			t.Errorf("parcel %d: due %s, want %s", k+1, inst.DueDate, want)
		}
	}
}

func TestSchedule_RoundingDriftBound(t *testing.T) {
	sched := NewScheduler(DueDateFixedStep)
	emission := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	total := types.MustMoney("100.00")

	installments, err := sched.Schedule(id.New(), total, emission, makeCondition(30, 60, 90))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	// 100/3 rounds to 33.33 per parcel; no remainder absorption.
	sum := types.Zero()
	for _, inst := range installments {
		if !inst.Amount.Equal(types.MustMoney("33.33")) {
			t.Errorf("amount %s, want 33.33", inst.Amount)
		}
		sum = sum.Add(inst.Amount)
	}

	drift := total.Sub(sum).Abs()
	maxDrift := types.MustMoney("0.02") // (n-1) * 0.01
	if drift.GreaterThan(maxDrift) {
		t.Errorf("drift %s exceeds (n-1)*0.01", drift)
	}
}

func TestSchedule_ZeroEmissionDate(t *testing.T) {
	sched := NewScheduler(DueDateFixedStep)

	_, err := sched.Schedule(id.New(), types.MustMoney("100.00"), time.Time{}, makeCondition(30))
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for zero emission date, got %v", err)
	}
}

func TestSchedule_NonPositiveTotal(t *testing.T) {
	sched := NewScheduler(DueDateFixedStep)
	emission := time.Now().UTC()

	if _, err := sched.Schedule(id.New(), types.Zero(), emission, makeCondition(30)); err == nil {
		t.Fatal("expected error for zero total")
	}
}

func TestParseDueDatePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    DueDatePolicy
		wantErr bool
	}{
		{in: "", want: DueDateFixedStep},
		{in: "fixed_step", want: DueDateFixedStep},
		{in: "template_offset", want: DueDateTemplateOffset},
		{in: "monthly", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDueDatePolicy(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDueDatePolicy(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseDueDatePolicy(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}
