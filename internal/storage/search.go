package storage

import (
	"sort"
	"strings"

	"github.com/Abdulquadri-Mahmud/ADRMS/internal/core"
)

// SearchFields lists the fields the free-text query is matched against.
func SearchFields(r core.FinancialRecord) []string {
	return []string{r.Description, r.Vendor, r.ReceiptNo, r.Reference}
}

func matchesSearch(r core.FinancialRecord, needle string) bool {
	needle = strings.ToLower(needle)
	for _, f := range SearchFields(r) {
		if f != "" && strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// SortRecords applies the canonical listing order in place: transaction date
// descending, creation time descending, id descending. The id tie-break
// keeps the order reproducible even for rows created in the same instant.
func SortRecords(recs []core.FinancialRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.TransactionDate.Equal(b.TransactionDate) {
			return a.TransactionDate.After(b.TransactionDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
