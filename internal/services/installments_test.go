package services

import (
	"errors"
	"reflect"
	"testing"

	"contas/internal/core"
)

func fixedSeriesID() string { return "series-test" }

func TestGenerateInstallmentsSplitsRemainderLeftToRight(t *testing.T) {
	// 100.00 over 3 from Jan 31 of a leap year: the extra cent lands on
	// the first installment, February clamps to the 29th, March returns
	// to the 31st.
	plan := InstallmentPlan{
		Description: "Notebook",
		Total:       core.Money{Cents: 10000},
		Count:       3,
		Start:       core.NewDate(2024, 1, 31),
		WalletID:    1,
		CategoryID:  2,
	}

	bills, err := GenerateInstallments(plan, fixedSeriesID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantValues := []int64{3334, 3333, 3333}
	wantDates := []string{"2024-01-31", "2024-02-29", "2024-03-31"}
	wantDescs := []string{"Notebook (1/3)", "Notebook (2/3)", "Notebook (3/3)"}

	if len(bills) != 3 {
		t.Fatalf("expected 3 bills, got %d", len(bills))
	}
	var sum int64
	for i, b := range bills {
		if b.Value.Cents != wantValues[i] {
			t.Errorf("bill %d value: expected %d, got %d", i, wantValues[i], b.Value.Cents)
		}
		if got := b.DueDate.String(); got != wantDates[i] {
			t.Errorf("bill %d due date: expected %s, got %s", i, wantDates[i], got)
		}
		if b.Description != wantDescs[i] {
			t.Errorf("bill %d description: expected %q, got %q", i, wantDescs[i], b.Description)
		}
		if b.Series == nil || b.Series.ID != "series-test" || b.Series.Index != i+1 || b.Series.Count != 3 {
			t.Errorf("bill %d series metadata wrong: %+v", i, b.Series)
		}
		sum += b.Value.Cents
	}
	if sum != plan.Total.Cents {
		t.Errorf("series sums to %d, want %d", sum, plan.Total.Cents)
	}
}

func TestGenerateInstallmentsEvenSplit(t *testing.T) {
	plan := InstallmentPlan{
		Description: "Academia",
		Total:       core.Money{Cents: 1000},
		Count:       4,
		Start:       core.NewDate(2024, 3, 15),
		WalletID:    1,
	}

	bills, err := GenerateInstallments(plan, fixedSeriesID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantDates := []string{"2024-03-15", "2024-04-15", "2024-05-15", "2024-06-15"}
	for i, b := range bills {
		if b.Value.Cents != 250 {
			t.Errorf("bill %d value: expected 250, got %d", i, b.Value.Cents)
		}
		if got := b.DueDate.String(); got != wantDates[i] {
			t.Errorf("bill %d due date: expected %s, got %s", i, wantDates[i], got)
		}
	}
}

func TestGenerateInstallmentsDeterministic(t *testing.T) {
	plan := InstallmentPlan{
		Description: "Sofá",
		Total:       core.Money{Cents: 123457},
		Count:       7,
		Start:       core.NewDate(2024, 10, 31),
		WalletID:    3,
		CategoryID:  1,
	}

	first, err := GenerateInstallments(plan, fixedSeriesID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := GenerateInstallments(plan, fixedSeriesID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical plans produced different sequences")
	}
}

func TestGenerateInstallmentsDueDatesStrictlyIncrease(t *testing.T) {
	plan := InstallmentPlan{
		Description: "Geladeira",
		Total:       core.Money{Cents: 250000},
		Count:       12,
		Start:       core.NewDate(2024, 1, 31),
		WalletID:    1,
	}
	bills, err := GenerateInstallments(plan, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(bills); i++ {
		if !bills[i].DueDate.After(bills[i-1].DueDate) {
			t.Errorf("bill %d due %s not after bill %d due %s",
				i, bills[i].DueDate, i-1, bills[i-1].DueDate)
		}
	}
}

func TestGenerateInstallmentsValidation(t *testing.T) {
	valid := InstallmentPlan{
		Description: "Compra",
		Total:       core.Money{Cents: 1000},
		Count:       2,
		Start:       core.NewDate(2024, 5, 1),
		WalletID:    1,
	}

	cases := []struct {
		name    string
		mutate  func(*InstallmentPlan)
		field   string
		wantErr error
	}{
		{"zero installments", func(p *InstallmentPlan) { p.Count = 0 }, "installments", core.ErrInvalidInstallments},
		{"negative installments", func(p *InstallmentPlan) { p.Count = -2 }, "installments", core.ErrInvalidInstallments},
		{"zero total", func(p *InstallmentPlan) { p.Total.Cents = 0 }, "total_value", core.ErrInvalidAmount},
		{"empty description", func(p *InstallmentPlan) { p.Description = "  " }, "description", core.ErrEmptyDescription},
		{"zero start date", func(p *InstallmentPlan) { p.Start = core.Date{} }, "start_date", core.ErrInvalidDate},
		{"missing wallet", func(p *InstallmentPlan) { p.WalletID = 0 }, "wallet_id", core.ErrWalletNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := valid
			tc.mutate(&plan)
			bills, err := GenerateInstallments(plan, fixedSeriesID)
			if bills != nil {
				t.Fatal("expected no bills on validation failure")
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			var verr *core.ValidationError
			if !errors.As(err, &verr) || verr.Field != tc.field {
				t.Fatalf("expected validation error on field %q, got %v", tc.field, err)
			}
		})
	}
}
