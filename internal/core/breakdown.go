package core

import "errors"

// Fund ids for contribution breakdowns. A breakdown splits one record's
// amount across these named funds.
var FundTypes = []string{
	"chandaAam",
	"chandaWasiyyat",
	"jalsaSalana",
	"tarikiJadid",
	"waqfiJadid",
	"welfareFund",
	"zakat",
	"fitrana",
	"mosqueDonation",
	"mta",
	"scholarship",
	"zakatulFitr",
	"tabligh",
	"sadakat",
	"centinaryKhilafat",
	"bilalFund",
	"yatamaFund",
	"localFund",
	"miscellanous",
	"maryamFund",
}

var (
	ErrUnknownFund        = errors.New("unknown fund type")
	ErrBreakdownIndex     = errors.New("breakdown index out of range")
	ErrBreakdownMismatch  = errors.New("breakdown total does not match record amount")
	ErrEmptyBreakdownItem = errors.New("breakdown item amount must be positive")
)

// FundAmount is one (fund, amount) pair of a breakdown.
type FundAmount struct {
	Fund   string
	Amount Money
}

// Breakdown is an ordered list of fund allocations. Entries for the same
// fund are allowed and merged only by Flatten.
type Breakdown struct {
	items []FundAmount
}

func validFund(fund string) bool {
	for _, f := range FundTypes {
		if f == fund {
			return true
		}
	}
	return false
}

// Add appends an allocation. The fund must be a known fund type and the
// amount positive.
func (b *Breakdown) Add(fund string, amount Money) error {
	if !validFund(fund) {
		return ErrUnknownFund
	}
	if amount.Cents <= 0 {
		return ErrEmptyBreakdownItem
	}
	b.items = append(b.items, FundAmount{Fund: fund, Amount: amount})
	return nil
}

// UpdateAt replaces the allocation at position i.
func (b *Breakdown) UpdateAt(i int, fund string, amount Money) error {
	if i < 0 || i >= len(b.items) {
		return ErrBreakdownIndex
	}
	if !validFund(fund) {
		return ErrUnknownFund
	}
	if amount.Cents <= 0 {
		return ErrEmptyBreakdownItem
	}
	b.items[i] = FundAmount{Fund: fund, Amount: amount}
	return nil
}

// Remove deletes the allocation at position i, preserving order.
func (b *Breakdown) Remove(i int) error {
	if i < 0 || i >= len(b.items) {
		return ErrBreakdownIndex
	}
	b.items = append(b.items[:i], b.items[i+1:]...)
	return nil
}

// Len returns the number of allocations.
func (b *Breakdown) Len() int { return len(b.items) }

// Items returns a copy of the allocations in insertion order.
func (b *Breakdown) Items() []FundAmount {
	out := make([]FundAmount, len(b.items))
	copy(out, b.items)
	return out
}

// Total sums all allocations in cents.
func (b *Breakdown) Total() Money {
	var cents int64
	for _, it := range b.items {
		cents += it.Amount.Cents
	}
	return Money{Cents: cents}
}

// Flatten merges duplicate funds into a fund -> cents map, the shape the
// persisted contribution document uses.
func (b *Breakdown) Flatten() map[string]int64 {
	out := make(map[string]int64, len(b.items))
	for _, it := range b.items {
		out[it.Fund] += it.Amount.Cents
	}
	return out
}

// MatchesAmount reports whether the breakdown total equals the given record
// amount. An empty breakdown matches anything: breakdowns are optional.
func (b *Breakdown) MatchesAmount(amount Money) error {
	if len(b.items) == 0 {
		return nil
	}
	if b.Total().Cents != amount.Cents {
		return ErrBreakdownMismatch
	}
	return nil
}
