package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"credintel/internal/domain"
	"credintel/internal/port"
)

// Loader converts a resolved input into a normalized document.
type Loader interface {
	Load(ctx context.Context, input *domain.ResolvedInput) (*domain.NormalizedDocument, error)
}

type loader struct {
	storage   port.ObjectStorage
	extractor port.TextExtractor
}

// New creates a Loader backed by object storage and a PDF extractor.
func New(storage port.ObjectStorage, extractor port.TextExtractor) Loader {
	return &loader{storage: storage, extractor: extractor}
}

func (l *loader) Load(ctx context.Context, input *domain.ResolvedInput) (*domain.NormalizedDocument, error) {
	switch input.Variant {
	case domain.InputUpload:
		return l.loadFile(input, domain.OriginUpload, input.Filename)

	case domain.InputLocalFile:
		return l.loadFile(input, domain.OriginLocal, input.Filename)

	case domain.InputInlineJSON:
		data, err := parseStructuredJSON([]byte(input.RawJSON))
		if err != nil {
			return nil, err
		}
		return &domain.NormalizedDocument{
			StructuredData:   data,
			Origin:           domain.OriginInlineJSON,
			SourceIdentifier: "inline",
		}, nil

	case domain.InputRemoteObject:
		return l.loadRemote(ctx, input)

	default:
		return nil, fmt.Errorf("loader: unexpected input variant %q", input.Variant)
	}
}

func (l *loader) loadFile(input *domain.ResolvedInput, origin domain.Origin, identifier string) (*domain.NormalizedDocument, error) {
	switch input.FileType {
	case domain.FileTypePDF:
		text, err := l.extractor.Extract(input.FileBytes, input.PDFPassword)
		if err != nil {
			return nil, err
		}
		return &domain.NormalizedDocument{
			StructuredData:   map[string]interface{}{"raw_text": text},
			Origin:           origin,
			SourceIdentifier: identifier,
		}, nil

	case domain.FileTypeJSON:
		data, err := parseStructuredJSON(input.FileBytes)
		if err != nil {
			return nil, err
		}
		return &domain.NormalizedDocument{
			StructuredData:   data,
			Origin:           origin,
			SourceIdentifier: identifier,
		}, nil

	default:
		return nil, domain.ErrUnsupportedFileType
	}
}

func (l *loader) loadRemote(ctx context.Context, input *domain.ResolvedInput) (*domain.NormalizedDocument, error) {
	log.Printf("loader: downloading s3://%s/%s", input.Bucket, input.Key)

	data, err := l.storage.Download(ctx, input.Bucket, input.Key)
	if err != nil {
		var noKey *types.NoSuchKey
		var noBucket *types.NoSuchBucket
		if errors.As(err, &noKey) || errors.As(err, &noBucket) {
			return nil, fmt.Errorf("%w: s3://%s/%s", domain.ErrObjectNotFound, input.Bucket, input.Key)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	identifier := fmt.Sprintf("s3://%s/%s", input.Bucket, input.Key)
	remote := &domain.ResolvedInput{
		FileBytes:   data,
		PDFPassword: input.PDFPassword,
	}
	switch {
	case strings.HasSuffix(strings.ToLower(input.Key), ".pdf"):
		remote.FileType = domain.FileTypePDF
	case strings.HasSuffix(strings.ToLower(input.Key), ".json"):
		remote.FileType = domain.FileTypeJSON
	default:
		return nil, domain.ErrUnsupportedFileType
	}
	return l.loadFile(remote, domain.OriginS3, identifier)
}

// parseStructuredJSON decodes a JSON payload into the canonical map
// form. Objects pass through, arrays are wrapped under "records",
// scalars are rejected: a bare number or string is not a credit
// report.
func parseStructuredJSON(raw []byte) (map[string]interface{}, error) {
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedJSON, err)
	}

	switch v := value.(type) {
	case map[string]interface{}:
		return v, nil
	case []interface{}:
		return map[string]interface{}{"records": v}, nil
	default:
		return nil, fmt.Errorf("%w: payload must be an object or array", domain.ErrMalformedJSON)
	}
}
