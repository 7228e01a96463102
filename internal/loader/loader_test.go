package loader_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"credintel/internal/domain"
	"credintel/internal/loader"
	"credintel/mocks"
)

func TestLoad_UploadPDF(t *testing.T) {
	extractor := new(mocks.MockTextExtractor)
	extractor.On("Extract", []byte("%PDF-1.4 data"), "pw").Return("extracted bureau text", nil)

	l := loader.New(new(mocks.MockObjectStorage), extractor)
	doc, err := l.Load(context.Background(), &domain.ResolvedInput{
		Variant:     domain.InputUpload,
		FileBytes:   []byte("%PDF-1.4 data"),
		Filename:    "report.pdf",
		FileType:    domain.FileTypePDF,
		PDFPassword: "pw",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.OriginUpload, doc.Origin)
	assert.Equal(t, "report.pdf", doc.SourceIdentifier)
	assert.Equal(t, map[string]interface{}{"raw_text": "extracted bureau text"}, doc.StructuredData)
	extractor.AssertExpectations(t)
}

func TestLoad_UploadPDFWrongPassword(t *testing.T) {
	extractor := new(mocks.MockTextExtractor)
	extractor.On("Extract", mock.Anything, "wrong").Return("", domain.ErrPDFDecryption)

	l := loader.New(new(mocks.MockObjectStorage), extractor)
	_, err := l.Load(context.Background(), &domain.ResolvedInput{
		Variant:     domain.InputUpload,
		FileBytes:   []byte("%PDF"),
		FileType:    domain.FileTypePDF,
		PDFPassword: "wrong",
	})

	assert.ErrorIs(t, err, domain.ErrPDFDecryption)
}

func TestLoad_UploadJSONObject(t *testing.T) {
	l := loader.New(new(mocks.MockObjectStorage), new(mocks.MockTextExtractor))
	doc, err := l.Load(context.Background(), &domain.ResolvedInput{
		Variant:   domain.InputUpload,
		FileBytes: []byte(`{"score": 720, "accounts": []}`),
		Filename:  "bureau.json",
		FileType:  domain.FileTypeJSON,
	})

	require.NoError(t, err)
	assert.Equal(t, float64(720), doc.StructuredData["score"])
}

func TestLoad_UploadJSONArrayWrapped(t *testing.T) {
	l := loader.New(new(mocks.MockObjectStorage), new(mocks.MockTextExtractor))
	doc, err := l.Load(context.Background(), &domain.ResolvedInput{
		Variant:   domain.InputUpload,
		FileBytes: []byte(`[{"id":1},{"id":2}]`),
		Filename:  "records.json",
		FileType:  domain.FileTypeJSON,
	})

	require.NoError(t, err)
	records, ok := doc.StructuredData["records"].([]interface{})
	require.True(t, ok)
	assert.Len(t, records, 2)
}

func TestLoad_UploadJSONScalarRejected(t *testing.T) {
	l := loader.New(new(mocks.MockObjectStorage), new(mocks.MockTextExtractor))
	_, err := l.Load(context.Background(), &domain.ResolvedInput{
		Variant:   domain.InputUpload,
		FileBytes: []byte(`42`),
		Filename:  "scalar.json",
		FileType:  domain.FileTypeJSON,
	})

	assert.ErrorIs(t, err, domain.ErrMalformedJSON)
}

func TestLoad_InlineJSON(t *testing.T) {
	l := loader.New(new(mocks.MockObjectStorage), new(mocks.MockTextExtractor))
	doc, err := l.Load(context.Background(), &domain.ResolvedInput{
		Variant: domain.InputInlineJSON,
		RawJSON: `{"pan":"ABCDE1234F"}`,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.OriginInlineJSON, doc.Origin)
	assert.Equal(t, "inline", doc.SourceIdentifier)
	assert.Equal(t, "ABCDE1234F", doc.StructuredData["pan"])
}

func TestLoad_RemoteJSONObject(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Download", mock.Anything, "bureau-data", "reports/x.json").
		Return([]byte(`{"score":680}`), nil)

	l := loader.New(storage, new(mocks.MockTextExtractor))
	doc, err := l.Load(context.Background(), &domain.ResolvedInput{
		Variant: domain.InputRemoteObject,
		Bucket:  "bureau-data",
		Key:     "reports/x.json",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.OriginS3, doc.Origin)
	assert.Equal(t, "s3://bureau-data/reports/x.json", doc.SourceIdentifier)
	storage.AssertExpectations(t)
}

func TestLoad_RemotePDFUsesExtractor(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Download", mock.Anything, "bureau-data", "reports/x.pdf").
		Return([]byte("%PDF-bytes"), nil)
	extractor := new(mocks.MockTextExtractor)
	extractor.On("Extract", []byte("%PDF-bytes"), "pw").Return("text", nil)

	l := loader.New(storage, extractor)
	doc, err := l.Load(context.Background(), &domain.ResolvedInput{
		Variant:     domain.InputRemoteObject,
		Bucket:      "bureau-data",
		Key:         "reports/x.pdf",
		PDFPassword: "pw",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.OriginS3, doc.Origin)
	assert.Equal(t, "text", doc.StructuredData["raw_text"])
}

func TestLoad_RemoteObjectMissing(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Download", mock.Anything, "bureau-data", "missing.json").
		Return(nil, &types.NoSuchKey{})

	l := loader.New(storage, new(mocks.MockTextExtractor))
	_, err := l.Load(context.Background(), &domain.ResolvedInput{
		Variant: domain.InputRemoteObject,
		Bucket:  "bureau-data",
		Key:     "missing.json",
	})

	assert.ErrorIs(t, err, domain.ErrObjectNotFound)
}

func TestLoad_RemoteStorageFailure(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Download", mock.Anything, "bureau-data", "x.json").
		Return(nil, errors.New("connection refused"))

	l := loader.New(storage, new(mocks.MockTextExtractor))
	_, err := l.Load(context.Background(), &domain.ResolvedInput{
		Variant: domain.InputRemoteObject,
		Bucket:  "bureau-data",
		Key:     "x.json",
	})

	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestLoad_RemoteUnsupportedKeySuffix(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Download", mock.Anything, "bureau-data", "report.csv").
		Return([]byte("a,b"), nil)

	l := loader.New(storage, new(mocks.MockTextExtractor))
	_, err := l.Load(context.Background(), &domain.ResolvedInput{
		Variant: domain.InputRemoteObject,
		Bucket:  "bureau-data",
		Key:     "report.csv",
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}
