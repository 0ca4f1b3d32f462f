package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// minExtractableChars is the minimum amount of trimmed text a PDF must
// yield to be considered text-bearing. Anything shorter is treated as a
// scanned image masquerading as a PDF: sending it to the model would
// waste a paid call and return garbage.
const minExtractableChars = 20

// extractPDFText pulls the text layer out of a PDF on disk.
func extractPDFText(filePath string) (string, error) {
	const op = "extractPDFText"

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", WrapExtractionError(op, err, fmt.Sprintf("failed to open %s", filePath))
	}
	defer f.Close()

	var buf bytes.Buffer
	reader, err := r.GetPlainText()
	if err != nil {
		return "", WrapExtractionError(op, err, "failed to read text layer")
	}
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", WrapExtractionError(op, err, "failed to read text layer")
	}

	return buf.String(), nil
}
