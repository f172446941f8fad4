package payment

import (
	"context"
	"testing"

	"faturas/internal/core/apperror"
	"faturas/internal/core/id"
	"faturas/internal/core/types"
)

func twoParcelCondition(p1, p2 string) *Condition {
	method := id.New()
	c := NewCondition("30-60", "30/60 dias")
	c.Templates = []InstallmentTemplate{
		{ParcelNumber: 1, PaymentMethodID: method, DayOffset: 30, Percentage: types.MustMoney(p1)},
		{ParcelNumber: 2, PaymentMethodID: method, DayOffset: 60, Percentage: types.MustMoney(p2)},
	}
	return c
}

func TestConditionValidate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*Condition)
		wantErr bool
	}{
		{name: "even split", mutate: func(c *Condition) {}},
		{
			name: "uneven but complete split",
			mutate: func(c *Condition) {
				c.Templates[0].Percentage = types.MustMoney("33.33")
				c.Templates[1].Percentage = types.MustMoney("66.66")
			},
			// 99.99 is within the 0.01 tolerance
		},
		{
			name: "sum short of 100",
			mutate: func(c *Condition) {
				c.Templates[1].Percentage = types.MustMoney("40.00")
			},
			wantErr: true,
		},
		{
			name: "sum above 100",
			mutate: func(c *Condition) {
				c.Templates[1].Percentage = types.MustMoney("50.02")
			},
			wantErr: true,
		},
		{
			name: "non-contiguous parcel numbers",
			mutate: func(c *Condition) {
				c.Templates[1].ParcelNumber = 3
			},
			wantErr: true,
		},
		{
			name: "negative day offset",
			mutate: func(c *Condition) {
				c.Templates[0].DayOffset = -1
			},
			wantErr: true,
		},
		{
			name: "zero percentage parcel",
			mutate: func(c *Condition) {
				c.Templates[0].Percentage = types.Zero()
				c.Templates[1].Percentage = types.MustMoney("100.00")
			},
			wantErr: true,
		},
		{
			name: "missing payment method",
			mutate: func(c *Condition) {
				c.Templates[0].PaymentMethodID = id.Nil()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := twoParcelCondition("50.00", "50.00")
			tt.mutate(c)

			err := c.Validate(ctx)
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

func TestConditionValidate_NoTemplates(t *testing.T) {
	c := NewCondition("AVISTA", "À vista")
	if err := c.Validate(context.Background()); err == nil {
		t.Fatal("condition without templates must not validate")
	}
}
