package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"contas/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "contas.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestMigrationsSeedCategories(t *testing.T) {
	repo := newTestRepo(t)
	categories, err := repo.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != 7 {
		t.Fatalf("expected 7 seeded categories, got %d", len(categories))
	}
	if categories[0].Name != "Moradia" {
		t.Fatalf("expected Moradia first, got %q", categories[0].Name)
	}
}

func TestCategoryDuplicateRejected(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateCategory(ctx, core.Category{Name: "Assinaturas"}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := repo.CreateCategory(ctx, core.Category{Name: "Assinaturas"}); !errors.Is(err, core.ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}
}

func TestWalletRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateWallet(ctx, core.Wallet{Name: "Principal", InitialBalance: core.Money{Cents: 50000}})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	got, err := repo.GetWallet(ctx, created.ID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if got.Name != "Principal" || got.InitialBalance.Cents != 50000 {
		t.Fatalf("wallet round trip mismatch: %+v", got)
	}

	if _, err := repo.GetWallet(ctx, 999); !errors.Is(err, core.ErrWalletNotFound) {
		t.Fatalf("expected ErrWalletNotFound, got %v", err)
	}
}

func TestBillRoundTripWithSeries(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	wallet, err := repo.CreateWallet(ctx, core.Wallet{Name: "Principal"})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	bills := []core.Bill{
		{
			Description: "Sofá (1/2)", Value: core.Money{Cents: 5001},
			DueDate: core.NewDate(2024, 1, 31), WalletID: wallet.ID, CategoryID: 1,
			Series: &core.SeriesRef{ID: "abc", Index: 1, Count: 2},
		},
		{
			Description: "Sofá (2/2)", Value: core.Money{Cents: 5000},
			DueDate: core.NewDate(2024, 2, 29), WalletID: wallet.ID, CategoryID: 1,
			Series: &core.SeriesRef{ID: "abc", Index: 2, Count: 2},
		},
	}
	created, err := repo.CreateSeries(ctx, bills)
	if err != nil {
		t.Fatalf("create series: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 bills, got %d", len(created))
	}

	stored, err := repo.ListBills(ctx)
	if err != nil {
		t.Fatalf("list bills: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored bills, got %d", len(stored))
	}
	first := stored[0]
	if first.Series == nil || first.Series.ID != "abc" || first.Series.Index != 1 || first.Series.Count != 2 {
		t.Fatalf("series metadata lost: %+v", first.Series)
	}
	if first.DueDate.String() != "2024-01-31" {
		t.Fatalf("due date mismatch: %s", first.DueDate)
	}
}

func TestListBillsDueBetween(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	wallet, err := repo.CreateWallet(ctx, core.Wallet{Name: "Principal"})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	dates := []core.Date{
		core.NewDate(2024, 1, 31),
		core.NewDate(2024, 2, 1),
		core.NewDate(2024, 2, 29),
		core.NewDate(2024, 3, 1),
	}
	for _, d := range dates {
		if _, err := repo.CreateBill(ctx, core.Bill{
			Description: "conta", Value: core.Money{Cents: 100},
			DueDate: d, WalletID: wallet.ID,
		}); err != nil {
			t.Fatalf("create bill: %v", err)
		}
	}

	ref := core.NewDate(2024, 2, 15)
	due, err := repo.ListBillsDueBetween(ctx, ref.MonthStart(), ref.MonthEnd())
	if err != nil {
		t.Fatalf("list due between: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 bills in February, got %d", len(due))
	}
	if due[0].DueDate.String() != "2024-02-01" || due[1].DueDate.String() != "2024-02-29" {
		t.Fatalf("wrong ordering: %s, %s", due[0].DueDate, due[1].DueDate)
	}
}

func TestUncategorizedBillStoredAsNull(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	wallet, err := repo.CreateWallet(ctx, core.Wallet{Name: "Principal"})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	if _, err := repo.CreateBill(ctx, core.Bill{
		Description: "avulsa", Value: core.Money{Cents: 100},
		DueDate: core.NewDate(2024, 5, 5), WalletID: wallet.ID,
	}); err != nil {
		t.Fatalf("create bill: %v", err)
	}

	bills, err := repo.ListBills(ctx)
	if err != nil {
		t.Fatalf("list bills: %v", err)
	}
	if !bills[0].Uncategorized() {
		t.Fatalf("expected uncategorized bill, got category %d", bills[0].CategoryID)
	}
}
