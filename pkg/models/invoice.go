package models

// GST type classification reported by the extraction model.
const (
	GSTTypeInterState = "inter_state" // vendor outside the home state, IGST applies
	GSTTypeIntraState = "intra_state" // vendor inside the home state, CGST + SGST apply
)

// Tax treatment of the entered amounts.
const (
	TaxTreatmentInclusive = "inclusive"
	TaxTreatmentExclusive = "exclusive"
)

// GST treatment values accepted by the ledger for contacts and expenses.
const (
	GSTTreatmentOverseas     = "overseas"
	GSTTreatmentBusinessGST  = "business_gst"
	GSTTreatmentBusinessNone = "business_none"
)

// LineItem is one billed row extracted from the invoice body.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

// ExtractedInvoice is the model's best-effort reading of an uploaded
// document. Every field is a hypothesis: it may be empty, wrong, or
// inconsistent with the source document. Downstream code must tolerate
// that; the review form lets the user correct all of it.
type ExtractedInvoice struct {
	VendorName    string     `json:"vendor_name"`
	VendorGSTIN   string     `json:"vendor_gstin,omitempty"`
	InvoiceNumber string     `json:"invoice_number"`
	InvoiceDate   string     `json:"invoice_date"` // YYYY-MM-DD
	DueDate       string     `json:"due_date,omitempty"`
	VendorState   string     `json:"vendor_state"`
	IsRegistered  bool       `json:"is_registered"`
	ReverseCharge bool       `json:"reverse_charge"`
	GSTType       string     `json:"gst_type"`      // inter_state or intra_state
	TaxTreatment  string     `json:"tax_treatment"` // inclusive or exclusive
	SubTotal      float64    `json:"sub_total"`
	TaxAmount     float64    `json:"tax_amount"`
	TotalAmount   float64    `json:"total_amount"`
	GSTRate       float64    `json:"gst_rate"` // combined rate, never a single split component
	LineItems     []LineItem `json:"line_items"`
}

// ReviewedInvoice is the user-corrected superset of ExtractedInvoice
// submitted from the review form. It is consumed exactly once per
// submission; VendorID, TaxID and the account ids reference entities
// owned by the external ledger.
type ReviewedInvoice struct {
	VendorName           string  `json:"vendor_name"`
	VendorID             string  `json:"vendor_id,omitempty"`
	VendorGSTIN          string  `json:"vendor_gstin,omitempty"`
	BillNumber           string  `json:"bill_number"`
	InvoiceDate          string  `json:"invoice_date"`
	DueDate              string  `json:"due_date,omitempty"`
	GSTType              string  `json:"gst_type"`
	TaxTreatment         string  `json:"tax_treatment"`
	GSTRate              float64 `json:"gst_rate"`
	SubTotal             float64 `json:"sub_total"`
	TaxAmount            float64 `json:"tax_amount"`
	TotalAmount          float64 `json:"total_amount"`
	AccountID            string  `json:"account_id"`
	TaxID                string  `json:"tax_id,omitempty"`
	PaidThroughAccountID string  `json:"paid_through_account_id,omitempty"`
	ReverseCharge        bool    `json:"reverse_charge"`
	Notes                string  `json:"notes,omitempty"`
	FilePath             string  `json:"file_path,omitempty"`
	FileName             string  `json:"file_name,omitempty"`
}
