package services

import (
	"context"
	"fmt"
	"log/slog"

	"contas/internal/core"
	"contas/internal/store"
)

// EventPublisher pushes bill events to the reminder fan-out. A nil
// publisher disables publishing; a publish failure never fails the write,
// since the bill is already durable locally.
type EventPublisher interface {
	PublishBillCreated(ctx context.Context, b core.Bill) error
}

// BillService orchestrates bill creation across the store and the event
// publisher, and resolves wallet and category references up front.
type BillService struct {
	store     store.Store
	publisher EventPublisher
	newID     SeriesIDFunc
}

func NewBillService(s store.Store, publisher EventPublisher) *BillService {
	return &BillService{store: s, publisher: publisher, newID: NewSeriesID}
}

// WithSeriesID overrides the series id generator. Test hook.
func (s *BillService) WithSeriesID(fn SeriesIDFunc) *BillService {
	s.newID = fn
	return s
}

// CreateBill validates references, persists a standalone bill and publishes
// the created event.
func (s *BillService) CreateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	if err := b.Validate(); err != nil {
		return core.Bill{}, err
	}
	if err := s.checkRefs(ctx, b.WalletID, b.CategoryID); err != nil {
		return core.Bill{}, err
	}

	created, err := s.store.CreateBill(ctx, b)
	if err != nil {
		return core.Bill{}, fmt.Errorf("create bill: %w", err)
	}

	s.publishCreated(ctx, created)
	return created, nil
}

// CreateSeries runs the installment generator for a plan and persists its
// full output atomically. Validation happens before generation, and
// generation before any write, so a failure leaves no partial series.
func (s *BillService) CreateSeries(ctx context.Context, plan InstallmentPlan) ([]core.Bill, error) {
	bills, err := GenerateInstallments(plan, s.newID)
	if err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, plan.WalletID, plan.CategoryID); err != nil {
		return nil, err
	}

	created, err := s.store.CreateSeries(ctx, bills)
	if err != nil {
		return nil, fmt.Errorf("create series: %w", err)
	}

	for _, b := range created {
		s.publishCreated(ctx, b)
	}
	slog.InfoContext(ctx, "Installment series created",
		"series_id", created[0].Series.ID,
		"installments", len(created),
		"total_cents", plan.Total.Cents,
		"wallet_id", plan.WalletID)
	return created, nil
}

// MonthlyReminders computes the digest for the month of ref from the
// persisted bill set. Pure read; safe to re-invoke after every mutation.
func (s *BillService) MonthlyReminders(ctx context.Context, ref core.Date) ([]DigestEntry, error) {
	bills, err := s.store.ListBillsDueBetween(ctx, ref.MonthStart(), ref.MonthEnd())
	if err != nil {
		return nil, fmt.Errorf("list bills due in month: %w", err)
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return MonthlyDigest(bills, categories, ref), nil
}

// WalletDetail returns the wallet with its full bill list and resolved
// categories.
func (s *BillService) WalletDetail(ctx context.Context, walletID int64) (WalletDetail, error) {
	w, err := s.store.GetWallet(ctx, walletID)
	if err != nil {
		return WalletDetail{}, err
	}
	bills, err := s.store.ListBillsByWallet(ctx, walletID)
	if err != nil {
		return WalletDetail{}, fmt.Errorf("list wallet bills: %w", err)
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return WalletDetail{}, fmt.Errorf("list categories: %w", err)
	}
	return NewWalletDetail(w, bills, categories), nil
}

func (s *BillService) checkRefs(ctx context.Context, walletID, categoryID int64) error {
	if _, err := s.store.GetWallet(ctx, walletID); err != nil {
		return err
	}
	if categoryID > 0 {
		if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
			return err
		}
	}
	return nil
}

func (s *BillService) publishCreated(ctx context.Context, b core.Bill) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishBillCreated(ctx, b); err != nil {
		slog.ErrorContext(ctx, "Failed to publish bill created event",
			"bill_id", b.ID, "error", err)
	}
}
