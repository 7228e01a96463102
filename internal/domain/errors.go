package domain

import "errors"

var (
	ErrInvalidInputCombination = errors.New("provide exactly one input: file, source locator, or fallback key")
	ErrUnsupportedFileType     = errors.New("unsupported file type")
	ErrFileTooLarge            = errors.New("file exceeds maximum allowed size")
	ErrUnrecognizedSource      = errors.New("source locator is not an s3 URI, JSON payload, or readable path")
	ErrInvalidFallbackKey      = errors.New("fallback key must be a 10-character PAN")
	ErrMalformedJSON           = errors.New("malformed JSON payload")
	ErrPDFDecryption           = errors.New("failed to decrypt PDF")
	ErrPDFParse                = errors.New("failed to parse PDF")
	ErrObjectNotFound          = errors.New("object not found in storage")
	ErrStorageUnavailable      = errors.New("object storage unavailable")
	ErrRecordNotFound          = errors.New("no stored report for fallback key")
	ErrPromptTemplate          = errors.New("prompt template missing data placeholder")
	ErrInferenceUnavailable    = errors.New("inference provider unavailable")
)
