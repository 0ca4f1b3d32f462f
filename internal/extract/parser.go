package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"invoicebridge/pkg/models"
)

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// parseInvoiceJSON turns a model response into an ExtractedInvoice.
// Models occasionally wrap the JSON in commentary or markdown fences, so
// it tries, in order: direct parse, fenced code block, outermost brace
// substring. First success wins; all failing returns ErrExtractionParse.
func parseInvoiceJSON(raw string) (*models.ExtractedInvoice, error) {
	const op = "parseInvoiceJSON"

	candidates := []string{strings.TrimSpace(raw)}

	if m := fencedBlockRe.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}

	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		candidates = append(candidates, raw[start:end+1])
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		var invoice models.ExtractedInvoice
		if err := json.Unmarshal([]byte(candidate), &invoice); err == nil {
			return &invoice, nil
		}
	}

	return nil, WrapExtractionError(op, ErrExtractionParse, "no parseable JSON in response")
}
