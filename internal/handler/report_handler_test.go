package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"credintel/internal/domain"
	"credintel/internal/handler"
	"credintel/internal/service"
	"credintel/mocks"
)

func setupRouter(svc service.ReportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewReportHandler(svc, 0)
	r.POST("/ai/generate_credit_report", h.Generate)
	return r
}

func postForm(t *testing.T, r *gin.Engine, fields url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ai/generate_credit_report",
		strings.NewReader(fields.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGenerate_SuccessPayload(t *testing.T) {
	recordID := uuid.New()
	svc := new(mocks.MockReportService)
	svc.On("Generate", mock.Anything, mock.MatchedBy(func(in service.GenerateReportInput) bool {
		return in.SourceLocator == `{"score":700}` && in.RequesterID == "user-42"
	})).Return(&domain.ReportOutcome{
		Record:     &domain.ReportRecord{ID: recordID, PAN: "ABCDE1234F"},
		ReportText: `{"remarks":"ok"}`,
		FileURL:    "https://s3.presigned/original",
		Warnings:   []string{domain.WarningUnparsedReport},
	}, nil)

	r := setupRouter(svc)
	w := postForm(t, r, url.Values{
		"source_url": {`{"score":700}`},
		"user_id":    {"user-42"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.True(t, resp.Success)
	require.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, recordID.String(), data["record_id"])
	assert.Equal(t, `{"remarks":"ok"}`, data["report_text"])
	assert.Equal(t, "https://s3.presigned/original", data["file_url"])
	assert.Equal(t, []interface{}{"unparsed_report"}, data["warnings"])
	assert.Equal(t, false, data["partial_success"])
	svc.AssertExpectations(t)
}

func TestGenerate_PartialSuccessFlagged(t *testing.T) {
	svc := new(mocks.MockReportService)
	svc.On("Generate", mock.Anything, mock.Anything).Return(&domain.ReportOutcome{
		Record:     &domain.ReportRecord{ID: uuid.New()},
		ReportText: "text",
		Warnings:   []string{domain.WarningPersistenceFailed},
		Partial:    true,
	}, nil)

	r := setupRouter(svc)
	w := postForm(t, r, url.Values{"source_url": {`{"a":1}`}})

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w).Data.(map[string]interface{})
	assert.Equal(t, true, data["partial_success"])
	assert.Contains(t, data["warnings"], "persistence_failed")
}

func TestGenerate_FileUploadForwarded(t *testing.T) {
	svc := new(mocks.MockReportService)
	svc.On("Generate", mock.Anything, mock.MatchedBy(func(in service.GenerateReportInput) bool {
		return in.Filename == "report.pdf" &&
			string(in.FileBytes) == "%PDF-1.4 fake" &&
			in.PDFPassword == "secret"
	})).Return(&domain.ReportOutcome{
		Record: &domain.ReportRecord{ID: uuid.New()},
	}, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "report.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("pdf_password", "secret"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/ai/generate_credit_report", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestGenerate_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domain.ErrInvalidInputCombination, http.StatusBadRequest, "INVALID_INPUT_COMBINATION"},
		{domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{domain.ErrInvalidFallbackKey, http.StatusBadRequest, "INVALID_FALLBACK_KEY"},
		{domain.ErrObjectNotFound, http.StatusNotFound, "OBJECT_NOT_FOUND"},
		{domain.ErrRecordNotFound, http.StatusNotFound, "RECORD_NOT_FOUND"},
		{fmt.Errorf("%w: retries exhausted", domain.ErrInferenceUnavailable), http.StatusBadGateway, "INFERENCE_UNAVAILABLE"},
		{domain.ErrStorageUnavailable, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
		{assert.AnError, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.wantCode, func(t *testing.T) {
			svc := new(mocks.MockReportService)
			svc.On("Generate", mock.Anything, mock.Anything).Return(nil, tc.err)

			w := postForm(t, setupRouter(svc), url.Values{"fallback_id": {"ABCDE1234F"}})

			assert.Equal(t, tc.wantStatus, w.Code)
			resp := decodeBody(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}
