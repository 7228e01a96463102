package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"credintel/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInputCombination):
		return http.StatusBadRequest, "INVALID_INPUT_COMBINATION", "provide exactly one input: file, source_url, or fallback_id"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, json"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUnrecognizedSource):
		return http.StatusBadRequest, "UNRECOGNIZED_SOURCE_LOCATOR", "source_url must be an s3:// URI, a JSON payload, or a readable file path"
	case errors.Is(err, domain.ErrInvalidFallbackKey):
		return http.StatusBadRequest, "INVALID_FALLBACK_KEY", "fallback_id must be a valid 10-character PAN"
	case errors.Is(err, domain.ErrMalformedJSON):
		return http.StatusBadRequest, "MALFORMED_JSON", "JSON payload could not be parsed as an object or array"
	case errors.Is(err, domain.ErrPDFDecryption):
		return http.StatusBadRequest, "PDF_DECRYPTION_ERROR", "PDF could not be decrypted; check pdf_password"
	case errors.Is(err, domain.ErrPDFParse):
		return http.StatusBadRequest, "PDF_PARSE_ERROR", "PDF could not be parsed or contains no extractable text"
	case errors.Is(err, domain.ErrPromptTemplate):
		return http.StatusBadRequest, "PROMPT_TEMPLATE_ERROR", "prompt override must contain the data placeholder"
	case errors.Is(err, domain.ErrObjectNotFound):
		return http.StatusNotFound, "OBJECT_NOT_FOUND", "referenced object does not exist in storage"
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, "RECORD_NOT_FOUND", "no stored report found for fallback_id"
	case errors.Is(err, domain.ErrInferenceUnavailable):
		return http.StatusBadGateway, "INFERENCE_UNAVAILABLE", "inference provider unavailable after retries"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "object storage unavailable"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
