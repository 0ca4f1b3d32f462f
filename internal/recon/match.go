package recon

import (
	"math"
	"strings"

	"invoicebridge/pkg/models"
)

// rateTolerance is the accepted difference between a requested combined
// rate and a tax rule's percentage.
const rateTolerance = 0.01

// MatchVendorName picks the best candidate for a free-text vendor name.
// Exact case-insensitive match on the trimmed name wins; otherwise the
// first vendor related by bidirectional substring containment. Returns nil
// when nothing relates.
func MatchVendorName(vendors []models.Vendor, name string) *models.Vendor {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}

	for i := range vendors {
		if strings.ToLower(strings.TrimSpace(vendors[i].ContactName)) == needle {
			return &vendors[i]
		}
	}

	for i := range vendors {
		candidate := strings.ToLower(vendors[i].ContactName)
		if strings.Contains(candidate, needle) || strings.Contains(needle, candidate) {
			return &vendors[i]
		}
	}

	return nil
}

// taxKeywords returns the name fragments expected for the jurisdiction
// type: inter-state invoices carry a single integrated tax, intra-state
// ones the general name or either split component.
func taxKeywords(gstType string) []string {
	if gstType == models.GSTTypeInterState {
		return []string{"igst"}
	}
	return []string{"gst", "cgst", "sgst"}
}

// MatchTaxRule finds a tax rule for the requested combined rate. Preferred
// match: percentage within tolerance AND name carrying a jurisdiction
// keyword. Fallback: any rule within tolerance, ignoring the name. No match
// returns nil; the caller leaves the field unset for the user to pick,
// since matching is a convenience, not a gate.
func MatchTaxRule(taxes []models.TaxRule, rate float64, gstType string) *models.TaxRule {
	keywords := taxKeywords(gstType)

	for i := range taxes {
		if math.Abs(taxes[i].TaxPercentage-rate) >= rateTolerance {
			continue
		}
		name := strings.ToLower(taxes[i].TaxName)
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				return &taxes[i]
			}
		}
	}

	for i := range taxes {
		if math.Abs(taxes[i].TaxPercentage-rate) < rateTolerance {
			return &taxes[i]
		}
	}

	return nil
}
