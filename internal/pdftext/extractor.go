package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"credintel/internal/domain"
	"credintel/internal/port"
)

type extractor struct{}

// NewExtractor creates a PDF text extractor.
func NewExtractor() port.TextExtractor {
	return &extractor{}
}

// Extract pulls plain text from PDF bytes, decrypting with password
// when the document is protected. An empty result is treated as a
// parse failure: a scanned report with no text layer cannot feed the
// prompt.
func (e *extractor) Extract(fileBytes []byte, password string) (string, error) {
	if len(fileBytes) == 0 {
		return "", fmt.Errorf("%w: empty file", domain.ErrPDFParse)
	}

	reader, err := pdf.NewReaderEncrypted(bytes.NewReader(fileBytes), int64(len(fileBytes)), func() string {
		return password
	})
	if err != nil {
		if isPasswordError(err) {
			return "", fmt.Errorf("%w: %v", domain.ErrPDFDecryption, err)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrPDFParse, err)
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages; the remaining pages may still
			// carry enough data for the analyst prompt.
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		text.WriteString(pageText)
	}

	result := strings.TrimSpace(text.String())
	if result == "" {
		return "", fmt.Errorf("%w: no extractable text", domain.ErrPDFParse)
	}
	return result, nil
}

// isPasswordError distinguishes decryption failures from structural
// ones. The pdf package reports both through plain errors, so the
// message text is the only signal available.
func isPasswordError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password") || strings.Contains(msg, "encrypt")
}
