package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"credintel/internal/service"
)

// ReportHandler handles credit report generation endpoints.
type ReportHandler struct {
	reportService  service.ReportService
	requestTimeout time.Duration
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService, requestTimeout time.Duration) *ReportHandler {
	return &ReportHandler{reportService: reportService, requestTimeout: requestTimeout}
}

// generateReportForm models the non-file form fields of the generate endpoint.
type generateReportForm struct {
	SourceURL   string `form:"source_url"`
	FallbackID  string `form:"fallback_id"`
	Prompt      string `form:"prompt"`
	PDFPassword string `form:"pdf_password"`
	UserID      string `form:"user_id"`
}

// Generate handles POST /ai/generate_credit_report
// @Summary Generate a credit intelligence report
// @Description Accepts exactly one of: an uploaded PDF/JSON file, a source_url (s3:// URI, raw JSON payload, or server-local path), or a 10-character PAN fallback_id referencing previously stored data. Normalizes the input, runs LLM analysis, persists the report, and returns it. Persistence failures downgrade to a partial success with warnings rather than discarding the report.
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file false "Credit report file (PDF or JSON)"
// @Param source_url formData string false "s3:// URI, raw JSON payload, or file path"
// @Param fallback_id formData string false "10-character PAN for stored-data fallback"
// @Param prompt formData string false "Prompt override; must contain the data placeholder"
// @Param pdf_password formData string false "Password for encrypted PDFs"
// @Param user_id formData string false "Requester identifier for the audit trail"
// @Success 200 {object} APIResponse "Generated report (check warnings and partial_success)"
// @Failure 400 {object} APIResponse "Invalid input combination or unreadable document"
// @Failure 413 {object} APIResponse "Uploaded file exceeds the size limit"
// @Failure 404 {object} APIResponse "Referenced object or stored record not found"
// @Failure 502 {object} APIResponse "Inference provider unavailable"
// @Failure 503 {object} APIResponse "Object storage unavailable"
// @Router /ai/generate_credit_report [post]
func (h *ReportHandler) Generate(c *gin.Context) {
	var form generateReportForm
	if err := c.ShouldBind(&form); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not parse request form")
		return
	}

	input := service.GenerateReportInput{
		SourceLocator:  form.SourceURL,
		FallbackKey:    form.FallbackID,
		PromptOverride: form.Prompt,
		PDFPassword:    form.PDFPassword,
		RequesterID:    form.UserID,
	}

	if file, header, err := c.Request.FormFile("file"); err == nil {
		defer func() { _ = file.Close() }()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read uploaded file")
			return
		}
		input.FileBytes = data
		input.Filename = header.Filename
	}

	ctx := c.Request.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	outcome, err := h.reportService.Generate(ctx, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"record_id":       outcome.Record.ID,
		"report_text":     outcome.ReportText,
		"report":          outcome.Report,
		"file_url":        outcome.FileURL,
		"warnings":        outcome.Warnings,
		"partial_success": outcome.Partial,
	})
}
