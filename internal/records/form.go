package records

import (
	"strings"
	"time"

	"github.com/Abdulquadri-Mahmud/ADRMS/internal/core"
)

// FundField is one raw (fund, amount) row of a contribution breakdown as
// submitted by the nested form builder.
type FundField struct {
	Fund   string `json:"fund"`
	Amount string `json:"amount"`
}

// RecordForm is the raw, untyped field set of a create/update submission.
// Validate converts it into a typed record or a set of field errors; nothing
// is persisted unless every field passes.
type RecordForm struct {
	Type            string      `json:"type"`
	Category        string      `json:"category"`
	Amount          string      `json:"amount"`
	Description     string      `json:"description"`
	TransactionDate string      `json:"transactionDate"`
	ReceiptNo       string      `json:"receiptNo"`
	PaymentMethod   string      `json:"paymentMethod"`
	Vendor          string      `json:"vendor"`
	Reference       string      `json:"reference"`
	Breakdown       []FundField `json:"breakdown,omitempty"`
}

// Validate checks every field and returns the typed record on success. The
// returned record carries no ownership fields; the service stamps those from
// the caller.
func (f RecordForm) Validate() (core.FinancialRecord, FieldErrors) {
	errs := FieldErrors{}
	var rec core.FinancialRecord

	t, err := core.ParseRecordType(f.Type)
	if err != nil {
		errs.add("type", "transaction type is required")
	} else {
		rec.Type = t
	}

	rec.Category = strings.TrimSpace(f.Category)
	if rec.Category == "" {
		errs.add("category", "category is required")
	}

	cents, err := core.ParseDecimalToCents(f.Amount)
	if err != nil {
		errs.add("amount", "amount must be greater than 0")
	} else {
		rec.Amount = core.Money{Cents: cents}
	}

	rec.Description = strings.TrimSpace(f.Description)
	if rec.Description == "" {
		errs.add("description", "description is required")
	}

	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(f.TransactionDate), time.UTC)
	if err != nil {
		errs.add("transactionDate", "invalid date, expected YYYY-MM-DD")
	} else {
		rec.TransactionDate = date
	}

	rec.ReceiptNo = strings.TrimSpace(f.ReceiptNo)
	rec.PaymentMethod = strings.TrimSpace(f.PaymentMethod)
	rec.Vendor = strings.TrimSpace(f.Vendor)
	rec.Reference = strings.TrimSpace(f.Reference)

	if len(f.Breakdown) > 0 {
		bd, bdErrs := f.breakdown()
		if len(bdErrs) > 0 {
			for field, msgs := range bdErrs {
				errs[field] = append(errs[field], msgs...)
			}
		} else if err := bd.MatchesAmount(rec.Amount); err != nil {
			errs.add("breakdown", "fund breakdown must add up to the record amount")
		}
	}

	if len(errs) > 0 {
		return core.FinancialRecord{}, errs
	}
	return rec, nil
}

func (f RecordForm) breakdown() (*core.Breakdown, FieldErrors) {
	errs := FieldErrors{}
	var bd core.Breakdown
	for _, ff := range f.Breakdown {
		cents, err := core.ParseDecimalToCents(ff.Amount)
		if err != nil {
			errs.add("breakdown", "fund amount must be greater than 0")
			continue
		}
		if err := bd.Add(strings.TrimSpace(ff.Fund), core.Money{Cents: cents}); err != nil {
			errs.add("breakdown", err.Error())
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return &bd, nil
}
