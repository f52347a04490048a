package core

// Suggested categories per record type. Category itself is free text; these
// are the lists the dashboard offers in its forms.
var (
	IncomeCategories = []string{
		"Donations",
		"Membership Fees",
		"Event Revenue",
		"Fundraising",
		"Other Income",
	}

	ExpenseCategories = []string{
		"Utilities",
		"Rent",
		"Salaries",
		"Maintenance",
		"Transportation",
		"Communication",
		"Office Supplies",
		"Equipment",
		"Furniture",
		"Books/Publications",
		"Food & Refreshments",
		"Other Expenses",
	}

	PaymentMethods = []string{
		"Cash",
		"Bank Transfer",
		"Cheque",
		"Mobile Money",
		"Card Payment",
		"Other",
	}
)

// SuggestedCategories returns the category list for a record type.
func SuggestedCategories(t RecordType) []string {
	switch t.Normalize() {
	case Income:
		return IncomeCategories
	case Expense:
		return ExpenseCategories
	default:
		return nil
	}
}
