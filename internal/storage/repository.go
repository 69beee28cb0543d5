// Package storage is the SQLite adapter for the store ports. It keeps
// money as integer cents and due dates as sortable YYYY-MM-DD text.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"contas/internal/core"
	"contas/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateWallet(ctx context.Context, w core.Wallet) (core.Wallet, error) {
	if err := w.Validate(); err != nil {
		return core.Wallet{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO wallets (name, initial_balance_cents) VALUES (?, ?)`,
		w.Name, w.InitialBalance.Cents)
	if err != nil {
		return core.Wallet{}, fmt.Errorf("insert wallet: %w", err)
	}
	w.ID, err = res.LastInsertId()
	if err != nil {
		return core.Wallet{}, fmt.Errorf("wallet last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Wallet created", "id", w.ID, "name", w.Name)
	return w, nil
}

func (r *SQLiteRepository) ListWallets(ctx context.Context) ([]core.Wallet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, initial_balance_cents FROM wallets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []core.Wallet
	for rows.Next() {
		var w core.Wallet
		if err := rows.Scan(&w.ID, &w.Name, &w.InitialBalance.Cents); err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

func (r *SQLiteRepository) GetWallet(ctx context.Context, id int64) (core.Wallet, error) {
	var w core.Wallet
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, initial_balance_cents FROM wallets WHERE id = ?`, id).
		Scan(&w.ID, &w.Name, &w.InitialBalance.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Wallet{}, core.ErrWalletNotFound
	}
	if err != nil {
		return core.Wallet{}, fmt.Errorf("get wallet: %w", err)
	}
	return w, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM categories WHERE name = ?`, c.Name).Scan(&exists)
	if err != nil {
		return core.Category{}, fmt.Errorf("check category: %w", err)
	}
	if exists > 0 {
		return core.Category{}, core.ErrCategoryExists
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name) VALUES (?)`, c.Name)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category last insert id: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE id = ?`, id).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrCategoryNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) CreateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	if err := b.Validate(); err != nil {
		return core.Bill{}, err
	}
	res, err := r.db.ExecContext(ctx, insertBillSQL, billArgs(b)...)
	if err != nil {
		return core.Bill{}, fmt.Errorf("insert bill: %w", err)
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return core.Bill{}, fmt.Errorf("bill last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Bill created",
		"id", b.ID,
		"description", b.Description,
		"value_cents", b.Value.Cents,
		"due_date", b.DueDate.String())
	return b, nil
}

// CreateSeries inserts every bill of a series in one transaction. Any
// failure rolls the whole series back so readers never observe a partial
// series.
func (r *SQLiteRepository) CreateSeries(ctx context.Context, bills []core.Bill) ([]core.Bill, error) {
	for _, b := range bills {
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin series transaction: %w", err)
	}
	defer tx.Rollback()

	created := make([]core.Bill, 0, len(bills))
	for _, b := range bills {
		res, err := tx.ExecContext(ctx, insertBillSQL, billArgs(b)...)
		if err != nil {
			return nil, fmt.Errorf("insert series bill %d/%d: %w", b.Series.Index, b.Series.Count, err)
		}
		b.ID, err = res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("series bill last insert id: %w", err)
		}
		created = append(created, b)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit series: %w", err)
	}

	slog.InfoContext(ctx, "Installment series persisted",
		"series_id", created[0].Series.ID,
		"installments", len(created))
	return created, nil
}

func (r *SQLiteRepository) ListBills(ctx context.Context) ([]core.Bill, error) {
	return r.queryBills(ctx, selectBillSQL+` ORDER BY id`)
}

func (r *SQLiteRepository) ListBillsByWallet(ctx context.Context, walletID int64) ([]core.Bill, error) {
	return r.queryBills(ctx, selectBillSQL+` WHERE wallet_id = ? ORDER BY due_date, id`, walletID)
}

func (r *SQLiteRepository) ListBillsDueBetween(ctx context.Context, from, to core.Date) ([]core.Bill, error) {
	return r.queryBills(ctx,
		selectBillSQL+` WHERE due_date >= ? AND due_date <= ? ORDER BY due_date, id`,
		from.String(), to.String())
}

const (
	insertBillSQL = `INSERT INTO bills
		(description, value_cents, due_date, wallet_id, category_id, series_id, series_index, series_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	selectBillSQL = `SELECT id, description, value_cents, due_date, wallet_id, category_id, series_id, series_index, series_count
		FROM bills`
)

func billArgs(b core.Bill) []any {
	var categoryID any
	if b.CategoryID > 0 {
		categoryID = b.CategoryID
	}
	var seriesID, seriesIndex, seriesCount any
	if b.Series != nil {
		seriesID = b.Series.ID
		seriesIndex = b.Series.Index
		seriesCount = b.Series.Count
	}
	return []any{
		b.Description, b.Value.Cents, b.DueDate.String(),
		b.WalletID, categoryID, seriesID, seriesIndex, seriesCount,
	}
}

func (r *SQLiteRepository) queryBills(ctx context.Context, query string, args ...any) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bills: %w", err)
	}
	defer rows.Close()

	var bills []core.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func scanBill(rows *sql.Rows) (core.Bill, error) {
	var (
		b           core.Bill
		dueDate     string
		categoryID  sql.NullInt64
		seriesID    sql.NullString
		seriesIndex sql.NullInt64
		seriesCount sql.NullInt64
	)
	if err := rows.Scan(&b.ID, &b.Description, &b.Value.Cents, &dueDate,
		&b.WalletID, &categoryID, &seriesID, &seriesIndex, &seriesCount); err != nil {
		return core.Bill{}, fmt.Errorf("scan bill: %w", err)
	}

	parsed, err := core.ParseDate(dueDate)
	if err != nil {
		return core.Bill{}, fmt.Errorf("bill %d has malformed due date %q", b.ID, dueDate)
	}
	b.DueDate = parsed

	if categoryID.Valid {
		b.CategoryID = categoryID.Int64
	}
	if seriesID.Valid {
		b.Series = &core.SeriesRef{
			ID:    seriesID.String,
			Index: int(seriesIndex.Int64),
			Count: int(seriesCount.Int64),
		}
	}
	return b, nil
}
