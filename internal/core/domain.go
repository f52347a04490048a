package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  RecordType = "INCOME"
	Expense RecordType = "EXPENSE"

	// Purchase is a legacy type still present in old documents. New writes
	// never use it; reads and filters normalize it to Expense.
	Purchase RecordType = "PURCHASE"
)

type (
	RecordType string

	Money struct {
		Cents int64 `json:"cents"`
	}

	// FinancialRecord is a single income or expense transaction owned by
	// exactly one organization.
	FinancialRecord struct {
		ID              string     `json:"id"`
		Type            RecordType `json:"type"`
		Category        string     `json:"category"`
		Amount          Money      `json:"amount"`
		Description     string     `json:"description"`
		TransactionDate time.Time  `json:"transactionDate"`
		ReceiptNo       string     `json:"receiptNo,omitempty"`
		PaymentMethod   string     `json:"paymentMethod,omitempty"`
		Vendor          string     `json:"vendor,omitempty"`
		Reference       string     `json:"reference,omitempty"`

		OrganizationID string    `json:"organizationId"`
		AdminID        string    `json:"adminId,omitempty"`
		CreatedAt      time.Time `json:"createdAt"`
		UpdatedAt      time.Time `json:"updatedAt"`

		// OrganizationName is populated on reads that join the organization;
		// it is display-only and never persisted on the record.
		OrganizationName string `json:"organizationName,omitempty"`
	}

	Organization struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
)

var (
	ErrInvalidType      = errors.New("invalid record type")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid transaction date")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyDescription = errors.New("empty description")
	ErrMissingOrg       = errors.New("missing organization")
)

// ParseRecordType normalizes a raw type string. The legacy PURCHASE value
// maps to Expense so new writes never reintroduce it.
func ParseRecordType(s string) (RecordType, error) {
	switch RecordType(strings.ToUpper(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense, Purchase:
		return Expense, nil
	default:
		return "", ErrInvalidType
	}
}

// Normalize maps the legacy Purchase type to Expense and leaves the rest as-is.
func (t RecordType) Normalize() RecordType {
	if t == Purchase {
		return Expense
	}
	return t
}

func (t RecordType) Valid() bool {
	return t == Income || t == Expense
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (r FinancialRecord) Validate() error {
	if !r.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Description) == "" {
		return ErrEmptyDescription
	}
	if len(r.Description) > 500 {
		return errors.New("description too long (max 500 characters)")
	}
	if r.TransactionDate.IsZero() {
		return ErrInvalidDate
	}
	if r.OrganizationID == "" {
		return ErrMissingOrg
	}
	return nil
}
