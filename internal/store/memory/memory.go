// Package memory is an in-memory store adapter used by the memory backend
// and by handler tests. It mirrors the SQLite adapter's semantics,
// including id assignment and atomic series writes.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"contas/internal/core"
)

// DefaultCategories seeds new stores with the stock category set.
var DefaultCategories = []string{
	"Moradia", "Transporte", "Alimentação", "Saúde", "Educação", "Lazer", "Outros",
}

type Store struct {
	mu         sync.Mutex
	wallets    []core.Wallet
	categories []core.Category
	bills      []core.Bill
	nextWallet int64
	nextCat    int64
	nextBill   int64
}

func New() *Store {
	return &Store{nextWallet: 1, nextCat: 1, nextBill: 1}
}

// NewSeeded returns a store preloaded with the default categories.
func NewSeeded() *Store {
	s := New()
	for _, name := range DefaultCategories {
		s.categories = append(s.categories, core.Category{ID: s.nextCat, Name: name})
		s.nextCat++
	}
	return s
}

func (s *Store) CreateWallet(_ context.Context, w core.Wallet) (core.Wallet, error) {
	if err := w.Validate(); err != nil {
		return core.Wallet{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w.ID = s.nextWallet
	s.nextWallet++
	s.wallets = append(s.wallets, w)
	return w, nil
}

func (s *Store) ListWallets(_ context.Context) ([]core.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Wallet(nil), s.wallets...), nil
}

func (s *Store) GetWallet(_ context.Context, id int64) (core.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.wallets {
		if w.ID == id {
			return w, nil
		}
	}
	return core.Wallet{}, core.ErrWalletNotFound
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return core.Category{}, core.ErrCategoryExists
		}
	}
	c.ID = s.nextCat
	s.nextCat++
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.categories...), nil
}

func (s *Store) GetCategory(_ context.Context, id int64) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Category{}, core.ErrCategoryNotFound
}

func (s *Store) CreateBill(_ context.Context, b core.Bill) (core.Bill, error) {
	if err := b.Validate(); err != nil {
		return core.Bill{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.nextBill
	s.nextBill++
	s.bills = append(s.bills, b)
	return b, nil
}

// CreateSeries validates every bill before touching store state, so a bad
// entry leaves nothing behind.
func (s *Store) CreateSeries(_ context.Context, bills []core.Bill) ([]core.Bill, error) {
	for _, b := range bills {
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	created := make([]core.Bill, 0, len(bills))
	for _, b := range bills {
		b.ID = s.nextBill
		s.nextBill++
		s.bills = append(s.bills, b)
		created = append(created, b)
	}
	return created, nil
}

func (s *Store) ListBills(_ context.Context) ([]core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Bill(nil), s.bills...), nil
}

func (s *Store) ListBillsByWallet(_ context.Context, walletID int64) ([]core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Bill
	for _, b := range s.bills {
		if b.WalletID == walletID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) ListBillsDueBetween(_ context.Context, from, to core.Date) ([]core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Bill
	for _, b := range s.bills {
		if !b.DueDate.Before(from) && !b.DueDate.After(to) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DueDate.Equal(out[j].DueDate.Time) {
			return out[i].ID < out[j].ID
		}
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out, nil
}
