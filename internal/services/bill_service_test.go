package services

import (
	"context"
	"errors"
	"testing"

	"contas/internal/core"
	"contas/internal/store/memory"
)

type capturingPublisher struct {
	published []core.Bill
	fail      bool
}

func (p *capturingPublisher) PublishBillCreated(_ context.Context, b core.Bill) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.published = append(p.published, b)
	return nil
}

func newTestService(t *testing.T) (*BillService, *memory.Store, *capturingPublisher) {
	t.Helper()
	st := memory.NewSeeded()
	pub := &capturingPublisher{}
	svc := NewBillService(st, pub).WithSeriesID(fixedSeriesID)
	if _, err := st.CreateWallet(context.Background(), core.Wallet{Name: "Principal"}); err != nil {
		t.Fatalf("seed wallet: %v", err)
	}
	return svc, st, pub
}

func TestCreateBillResolvesReferences(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()

	bill := core.Bill{
		Description: "Luz",
		Value:       core.Money{Cents: 15000},
		DueDate:     core.NewDate(2024, 4, 10),
		WalletID:    1,
		CategoryID:  1,
	}
	created, err := svc.CreateBill(ctx, bill)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.published))
	}

	bill.WalletID = 42
	if _, err := svc.CreateBill(ctx, bill); !errors.Is(err, core.ErrWalletNotFound) {
		t.Fatalf("expected wallet not found, got %v", err)
	}

	bill.WalletID = 1
	bill.CategoryID = 999
	if _, err := svc.CreateBill(ctx, bill); !errors.Is(err, core.ErrCategoryNotFound) {
		t.Fatalf("expected category not found, got %v", err)
	}
}

func TestCreateBillPublishFailureDoesNotFailWrite(t *testing.T) {
	svc, st, pub := newTestService(t)
	pub.fail = true

	_, err := svc.CreateBill(context.Background(), core.Bill{
		Description: "Água",
		Value:       core.Money{Cents: 8000},
		DueDate:     core.NewDate(2024, 4, 12),
		WalletID:    1,
	})
	if err != nil {
		t.Fatalf("publish failure must not fail the write: %v", err)
	}
	bills, _ := st.ListBills(context.Background())
	if len(bills) != 1 {
		t.Fatalf("expected bill persisted, got %d", len(bills))
	}
}

func TestCreateSeriesPersistsAtomically(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateSeries(ctx, InstallmentPlan{
		Description: "Notebook",
		Total:       core.Money{Cents: 10000},
		Count:       3,
		Start:       core.NewDate(2024, 1, 31),
		WalletID:    1,
		CategoryID:  2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("expected 3 bills, got %d", len(created))
	}
	var sum int64
	for _, b := range created {
		if b.ID == 0 {
			t.Error("expected assigned id")
		}
		sum += b.Value.Cents
	}
	if sum != 10000 {
		t.Fatalf("series sums to %d, want 10000", sum)
	}

	bills, _ := st.ListBills(ctx)
	if len(bills) != 3 {
		t.Fatalf("expected 3 persisted bills, got %d", len(bills))
	}
}

func TestCreateSeriesValidationPersistsNothing(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	cases := []InstallmentPlan{
		{Description: "x", Total: core.Money{Cents: 1000}, Count: 0, Start: core.NewDate(2024, 1, 1), WalletID: 1},
		{Description: "x", Total: core.Money{Cents: 0}, Count: 3, Start: core.NewDate(2024, 1, 1), WalletID: 1},
	}
	for _, plan := range cases {
		var verr *core.ValidationError
		if _, err := svc.CreateSeries(ctx, plan); !errors.As(err, &verr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	}

	bills, _ := st.ListBills(ctx)
	if len(bills) != 0 {
		t.Fatalf("expected nothing persisted, got %d bills", len(bills))
	}
}

func TestCreateSeriesUnknownWalletPersistsNothing(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateSeries(ctx, InstallmentPlan{
		Description: "x", Total: core.Money{Cents: 1000}, Count: 2,
		Start: core.NewDate(2024, 1, 1), WalletID: 42,
	})
	if !errors.Is(err, core.ErrWalletNotFound) {
		t.Fatalf("expected wallet not found, got %v", err)
	}
	bills, _ := st.ListBills(ctx)
	if len(bills) != 0 {
		t.Fatalf("expected nothing persisted, got %d bills", len(bills))
	}
}

func TestMonthlyRemindersFromStore(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, b := range []core.Bill{
		{Description: "Fevereiro", Value: core.Money{Cents: 100}, DueDate: core.NewDate(2024, 2, 10), WalletID: 1, CategoryID: 1},
		{Description: "Março", Value: core.Money{Cents: 100}, DueDate: core.NewDate(2024, 3, 10), WalletID: 1},
	} {
		if _, err := svc.CreateBill(ctx, b); err != nil {
			t.Fatalf("seed bill: %v", err)
		}
	}

	digest, err := svc.MonthlyReminders(ctx, core.NewDate(2024, 2, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(digest) != 1 || digest[0].Description != "Fevereiro" {
		t.Fatalf("wrong digest: %+v", digest)
	}
	if digest[0].CategoryName != "Moradia" {
		t.Fatalf("expected resolved category, got %q", digest[0].CategoryName)
	}
}

func TestWalletDetailUnknownWallet(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.WalletDetail(context.Background(), 42); !errors.Is(err, core.ErrWalletNotFound) {
		t.Fatalf("expected wallet not found, got %v", err)
	}
}
