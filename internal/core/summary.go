package core

// Summary holds aggregate figures for a filtered window. It is derived on
// demand and never persisted.
type Summary struct {
	TotalIncome   Money `json:"totalIncome"`
	TotalExpenses Money `json:"totalExpenses"`
	// TotalPurchases is the share of TotalExpenses that comes from rows
	// still carrying the legacy PURCHASE type.
	TotalPurchases Money `json:"totalPurchases"`
	NetBalance     Money `json:"netBalance"`
	RecordCount    int64 `json:"recordCount"`
}

// TypeTotal is one aggregation bucket: a raw stored type with its summed
// amount and row count.
type TypeTotal struct {
	Type       RecordType
	TotalCents int64
	Count      int64
}

// SummarizeTotals folds per-type buckets into the summary figures.
// Legacy PURCHASE buckets count into expenses and are also reported
// separately so unmigrated data stays visible.
func SummarizeTotals(totals []TypeTotal) Summary {
	var s Summary
	for _, t := range totals {
		s.RecordCount += t.Count
		switch t.Type {
		case Income:
			s.TotalIncome.Cents += t.TotalCents
		case Expense:
			s.TotalExpenses.Cents += t.TotalCents
		case Purchase:
			s.TotalExpenses.Cents += t.TotalCents
			s.TotalPurchases.Cents += t.TotalCents
		}
	}
	s.NetBalance.Cents = s.TotalIncome.Cents - s.TotalExpenses.Cents
	return s
}
