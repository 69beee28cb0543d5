// Package store defines the outbound persistence ports. Adapters live in
// subpackages (memory) and in internal/storage (SQLite).
package store

import (
	"context"

	"contas/internal/core"
)

type (
	WalletStore interface {
		CreateWallet(ctx context.Context, w core.Wallet) (core.Wallet, error)
		ListWallets(ctx context.Context) ([]core.Wallet, error)
		// GetWallet returns core.ErrWalletNotFound for unknown ids.
		GetWallet(ctx context.Context, id int64) (core.Wallet, error)
	}

	CategoryStore interface {
		// CreateCategory returns core.ErrCategoryExists on duplicate names.
		CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
		ListCategories(ctx context.Context) ([]core.Category, error)
		GetCategory(ctx context.Context, id int64) (core.Category, error)
	}

	BillStore interface {
		CreateBill(ctx context.Context, b core.Bill) (core.Bill, error)
		// CreateSeries persists all bills of an installment series as a
		// single atomic unit: either every bill is recorded or none is.
		CreateSeries(ctx context.Context, bills []core.Bill) ([]core.Bill, error)
		ListBills(ctx context.Context) ([]core.Bill, error)
		ListBillsByWallet(ctx context.Context, walletID int64) ([]core.Bill, error)
		// ListBillsDueBetween returns bills with from <= due date <= to.
		ListBillsDueBetween(ctx context.Context, from, to core.Date) ([]core.Bill, error)
	}

	// Store aggregates the ports implemented by every backend.
	Store interface {
		WalletStore
		CategoryStore
		BillStore
	}
)
