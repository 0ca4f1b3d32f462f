package recon

import "invoicebridge/pkg/models"

// ClassifyGSTTreatment decides the expense record's GST treatment. The
// precedence is load-bearing: reverse charge always overrides GSTIN
// presence, and the jurisdiction type disambiguates how reverse charge is
// treated.
func ClassifyGSTTreatment(gstType string, reverseCharge bool, gstin string) string {
	switch {
	case gstType == models.GSTTypeInterState && reverseCharge:
		return models.GSTTreatmentOverseas
	case reverseCharge:
		return models.GSTTreatmentBusinessNone
	case gstin != "":
		return models.GSTTreatmentBusinessGST
	default:
		return models.GSTTreatmentBusinessNone
	}
}

// SelectLineAmount picks the amount booked on the expense line. Inclusive
// entries book the total; exclusive entries book the subtotal and let the
// ledger compute the tax from the selected tax rule.
func SelectLineAmount(taxTreatment string, subTotal, total float64) float64 {
	if taxTreatment == models.TaxTreatmentInclusive {
		return total
	}
	return subTotal
}
