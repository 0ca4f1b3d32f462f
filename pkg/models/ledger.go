package models

// Vendor is a contact in the external ledger. It is never owned locally;
// uniqueness is enforced by the ledger, and this system only avoids
// creating duplicates by searching before creating.
type Vendor struct {
	ContactID    string `json:"contact_id"`
	ContactName  string `json:"contact_name"`
	GSTNo        string `json:"gst_no,omitempty"`
	GSTTreatment string `json:"gst_treatment,omitempty"`
}

// TaxRule is a read-only tax definition fetched fresh from the ledger.
type TaxRule struct {
	TaxID         string  `json:"tax_id"`
	TaxName       string  `json:"tax_name"`
	TaxPercentage float64 `json:"tax_percentage"`
}

// Account is one entry of the ledger's chart of accounts.
type Account struct {
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	AccountType string `json:"account_type"`
}

// LookupBundle aggregates the reference data one review session needs.
// It is a fresh snapshot per request and is never mutated locally.
type LookupBundle struct {
	Vendors         []Vendor  `json:"vendors"`
	Taxes           []TaxRule `json:"taxes"`
	ExpenseAccounts []Account `json:"expenseAccounts"`
	BankAccounts    []Account `json:"bankAccounts"`
}

// ExpensePayload is the expense-creation request sent to the ledger.
// Field names follow the ledger's wire format.
type ExpensePayload struct {
	AccountID              string  `json:"account_id"`
	PaidThroughAccountID   string  `json:"paid_through_account_id,omitempty"`
	Date                   string  `json:"date"`
	Amount                 float64 `json:"amount"`
	TaxID                  string  `json:"tax_id,omitempty"`
	IsInclusiveTax         bool    `json:"is_inclusive_tax"`
	ReferenceNumber        string  `json:"reference_number"`
	VendorID               string  `json:"vendor_id"`
	Description            string  `json:"description"`
	GSTTreatment           string  `json:"gst_treatment"`
	IsReverseChargeApplied bool    `json:"is_reverse_charge_applied"`
	GSTNo                  string  `json:"gst_no,omitempty"`
}

// Expense is the ledger's record of a booked expense as returned by the
// creation call.
type Expense struct {
	ExpenseID       string  `json:"expense_id"`
	ReferenceNumber string  `json:"reference_number"`
	VendorName      string  `json:"vendor_name"`
	Total           float64 `json:"total"`
}
