package resolver

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"credintel/internal/domain"
)

// Request carries the raw inputs of a report generation call before
// classification. All fields are optional; exactly one of FileBytes,
// SourceLocator, FallbackKey must be set.
type Request struct {
	FileBytes     []byte
	Filename      string
	SourceLocator string
	FallbackKey   string
	PDFPassword   string
}

// Resolve classifies a request into exactly one ResolvedInput variant.
// Classification is deterministic; the local-path branch is the only
// one that touches the filesystem, stat-ing and then reading the file.
func Resolve(req Request) (*domain.ResolvedInput, error) {
	provided := 0
	if len(req.FileBytes) > 0 {
		provided++
	}
	if strings.TrimSpace(req.SourceLocator) != "" {
		provided++
	}
	if strings.TrimSpace(req.FallbackKey) != "" {
		provided++
	}
	if provided != 1 {
		return nil, domain.ErrInvalidInputCombination
	}

	switch {
	case len(req.FileBytes) > 0:
		return resolveUpload(req)
	case strings.TrimSpace(req.SourceLocator) != "":
		return resolveLocator(strings.TrimSpace(req.SourceLocator), req.PDFPassword)
	default:
		return resolveFallbackKey(strings.TrimSpace(req.FallbackKey))
	}
}

func resolveUpload(req Request) (*domain.ResolvedInput, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(req.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	return &domain.ResolvedInput{
		Variant:     domain.InputUpload,
		FileBytes:   req.FileBytes,
		Filename:    req.Filename,
		FileType:    fileType,
		PDFPassword: req.PDFPassword,
	}, nil
}

// resolveLocator classifies a source locator in fixed priority order:
// s3 URI pattern, then JSON syntax, then local filesystem existence.
// The order matters: a locator that happens to satisfy more than one
// interpretation always takes the earliest match.
func resolveLocator(locator, password string) (*domain.ResolvedInput, error) {
	if strings.HasPrefix(locator, "s3://") {
		bucket, key, ok := parseS3URI(locator)
		if !ok {
			return nil, domain.ErrUnrecognizedSource
		}
		return &domain.ResolvedInput{
			Variant:     domain.InputRemoteObject,
			Bucket:      bucket,
			Key:         key,
			PDFPassword: password,
		}, nil
	}

	if json.Valid([]byte(locator)) {
		return &domain.ResolvedInput{
			Variant: domain.InputInlineJSON,
			RawJSON: locator,
		}, nil
	}

	if info, err := os.Stat(locator); err == nil && !info.IsDir() {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(locator), "."))
		fileType, ok := domain.AllowedExtensions[ext]
		if !ok {
			return nil, domain.ErrUnsupportedFileType
		}
		data, err := os.ReadFile(locator)
		if err != nil {
			log.Printf("resolver: reading local file %s: %v", locator, err)
			return nil, domain.ErrUnrecognizedSource
		}
		return &domain.ResolvedInput{
			Variant:     domain.InputLocalFile,
			FileBytes:   data,
			Filename:    filepath.Base(locator),
			FileType:    fileType,
			PDFPassword: password,
		}, nil
	}

	return nil, domain.ErrUnrecognizedSource
}

// resolveFallbackKey validates a PAN-style lookup key: exactly 10
// alphanumeric characters, normalized to upper case.
func resolveFallbackKey(key string) (*domain.ResolvedInput, error) {
	if len(key) != 10 {
		return nil, domain.ErrInvalidFallbackKey
	}
	for _, r := range key {
		isDigit := r >= '0' && r <= '9'
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !isDigit && !isAlpha {
			return nil, domain.ErrInvalidFallbackKey
		}
	}
	return &domain.ResolvedInput{
		Variant:     domain.InputStoredRecord,
		FallbackKey: strings.ToUpper(key),
	}, nil
}

// parseS3URI splits "s3://bucket/key/parts" into bucket and key.
func parseS3URI(uri string) (bucket, key string, ok bool) {
	rest := strings.TrimPrefix(uri, "s3://")
	slash := strings.Index(rest, "/")
	if slash <= 0 || slash == len(rest)-1 {
		return "", "", false
	}
	return rest[:slash], rest[slash+1:], true
}
