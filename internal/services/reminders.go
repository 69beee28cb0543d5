package services

import (
	"sort"

	"contas/internal/core"
)

// UncategorizedLabel is the display name attached when a bill's category
// reference is absent or does not resolve.
const UncategorizedLabel = "Sem categoria"

// DigestEntry is a bill with its category resolved for display. The
// underlying bill is copied, never mutated.
type DigestEntry struct {
	core.Bill
	CategoryName string `json:"category_name"`
}

// WalletDetail is a wallet with its full bill list, categories resolved.
type WalletDetail struct {
	core.Wallet
	Bills []DigestEntry `json:"bills"`
}

// MonthlyDigest selects the bills due within the calendar month of ref,
// across all wallets, ordered by due date ascending with bill id as the
// stable tie-break. An empty result is a valid empty slice.
func MonthlyDigest(bills []core.Bill, categories []core.Category, ref core.Date) []DigestEntry {
	names := categoryNames(categories)
	digest := make([]DigestEntry, 0)
	for _, b := range bills {
		if b.DueDate.InMonth(ref) {
			digest = append(digest, resolve(b, names))
		}
	}
	sort.SliceStable(digest, func(i, j int) bool {
		if digest[i].DueDate.Equal(digest[j].DueDate.Time) {
			return digest[i].ID < digest[j].ID
		}
		return digest[i].DueDate.Before(digest[j].DueDate)
	})
	return digest
}

// NewWalletDetail builds the wallet projection: every bill of the wallet,
// any due date, with resolved category names.
func NewWalletDetail(w core.Wallet, bills []core.Bill, categories []core.Category) WalletDetail {
	names := categoryNames(categories)
	detail := WalletDetail{Wallet: w, Bills: make([]DigestEntry, 0, len(bills))}
	for _, b := range bills {
		if b.WalletID == w.ID {
			detail.Bills = append(detail.Bills, resolve(b, names))
		}
	}
	return detail
}

func categoryNames(categories []core.Category) map[int64]string {
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}

func resolve(b core.Bill, names map[int64]string) DigestEntry {
	entry := DigestEntry{Bill: b, CategoryName: UncategorizedLabel}
	if !b.Uncategorized() {
		if name, ok := names[b.CategoryID]; ok {
			entry.CategoryName = name
		}
	}
	return entry
}
