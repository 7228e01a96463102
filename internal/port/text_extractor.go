package port

// TextExtractor pulls plain text out of a PDF document.
// password may be empty for unencrypted documents.
type TextExtractor interface {
	Extract(fileBytes []byte, password string) (string, error)
}
