package core

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// Wallet holds a balance and owns bills.
	Wallet struct {
		ID             int64  `json:"id"`
		Name           string `json:"name"`
		InitialBalance Money  `json:"initial_balance"`
	}

	// Category groups bills for display purposes.
	Category struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	// SeriesRef tags a bill that was generated as part of an installment
	// series. Standalone bills carry no series reference.
	SeriesRef struct {
		ID    string `json:"id"`
		Index int    `json:"index"` // 1-based position in the series
		Count int    `json:"count"`
	}

	// Bill is a single dated amount owed against a wallet. Bills are
	// immutable once created.
	Bill struct {
		ID          int64      `json:"id"`
		Description string     `json:"description"`
		Value       Money      `json:"value"`
		DueDate     Date       `json:"due_date"`
		WalletID    int64      `json:"wallet_id"`
		CategoryID  int64      `json:"category_id,omitempty"` // 0 means uncategorized
		Series      *SeriesRef `json:"series,omitempty"`
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDate         = errors.New("invalid date")
	ErrEmptyDescription    = errors.New("empty description")
	ErrEmptyName           = errors.New("empty name")
	ErrInvalidInstallments = errors.New("installment count must be at least 1")

	ErrWalletNotFound   = errors.New("wallet not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrBillNotFound     = errors.New("bill not found")
)

// ValidationError identifies the request field that failed validation.
// It wraps the underlying sentinel so callers can test with errors.Is.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid builds a ValidationError for the named field.
func Invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

func (w Wallet) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return Invalid("name", ErrEmptyName)
	}
	if len(w.Name) > 120 {
		return Invalid("name", errors.New("name too long (max 120 characters)"))
	}
	// Initial balance is non-negative by convention only; not enforced here.
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return Invalid("name", ErrEmptyName)
	}
	if len(c.Name) > 120 {
		return Invalid("name", errors.New("name too long (max 120 characters)"))
	}
	return nil
}

func (b Bill) Validate() error {
	if strings.TrimSpace(b.Description) == "" {
		return Invalid("description", ErrEmptyDescription)
	}
	if len(b.Description) > 200 {
		return Invalid("description", errors.New("description too long (max 200 characters)"))
	}
	if err := b.Value.Validate(); err != nil {
		return Invalid("value", err)
	}
	if err := b.DueDate.Validate(); err != nil {
		return Invalid("due_date", err)
	}
	if b.WalletID <= 0 {
		return Invalid("wallet_id", ErrWalletNotFound)
	}
	return nil
}

// Uncategorized reports whether the bill has no category reference.
func (b Bill) Uncategorized() bool { return b.CategoryID <= 0 }
