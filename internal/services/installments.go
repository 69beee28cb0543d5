// Package services provides business logic and orchestration on top of the
// core domain and the store ports.
//
// This file implements the installment generator: it turns a purchase total
// and an installment count into the dated, valued bills of a series.
package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"contas/internal/core"
)

// InstallmentPlan describes a recurring purchase to be materialized as an
// installment series.
type InstallmentPlan struct {
	Description string
	Total       core.Money
	Count       int
	Start       core.Date
	WalletID    int64
	CategoryID  int64 // 0 means uncategorized
}

func (p InstallmentPlan) validate() error {
	if strings.TrimSpace(p.Description) == "" {
		return core.Invalid("description", core.ErrEmptyDescription)
	}
	if err := p.Total.Validate(); err != nil {
		return core.Invalid("total_value", err)
	}
	if p.Count < 1 {
		return core.Invalid("installments", core.ErrInvalidInstallments)
	}
	if err := p.Start.Validate(); err != nil {
		return core.Invalid("start_date", err)
	}
	if p.WalletID <= 0 {
		return core.Invalid("wallet_id", core.ErrWalletNotFound)
	}
	return nil
}

// SeriesIDFunc produces the series identifier. Injectable so tests get
// deterministic output; production uses NewSeriesID.
type SeriesIDFunc func() string

// NewSeriesID returns a random UUID series identifier.
func NewSeriesID() string { return uuid.NewString() }

// GenerateInstallments produces the ordered bill sequence for a plan.
//
// Values: the total is split with core.SplitEven, so the sum of the
// generated bills equals the plan total to the cent, with the remainder
// absorbed by the leading installments.
//
// Dates: installment i is due at Start advanced by i calendar months,
// with end-of-month clamping applied independently per installment (see
// core.Date.AddMonths).
//
// The function is pure: identical plan and series id yield an identical
// sequence. Nothing is persisted here; callers write the result through
// BillStore.CreateSeries as one atomic unit.
func GenerateInstallments(plan InstallmentPlan, newID SeriesIDFunc) ([]core.Bill, error) {
	if err := plan.validate(); err != nil {
		return nil, err
	}
	if newID == nil {
		newID = NewSeriesID
	}

	seriesID := newID()
	values := core.SplitEven(plan.Total, plan.Count)

	bills := make([]core.Bill, plan.Count)
	for i := range bills {
		bills[i] = core.Bill{
			Description: fmt.Sprintf("%s (%d/%d)", strings.TrimSpace(plan.Description), i+1, plan.Count),
			Value:       values[i],
			DueDate:     plan.Start.AddMonths(i),
			WalletID:    plan.WalletID,
			CategoryID:  plan.CategoryID,
			Series: &core.SeriesRef{
				ID:    seriesID,
				Index: i + 1,
				Count: plan.Count,
			},
		}
	}
	return bills, nil
}
