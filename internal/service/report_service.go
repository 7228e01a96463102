package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"credintel/internal/config"
	"credintel/internal/domain"
	"credintel/internal/inference"
	"credintel/internal/loader"
	"credintel/internal/port"
	"credintel/internal/prompt"
	"credintel/internal/resolver"
)

// GenerateReportInput is the DTO for report generation requests.
type GenerateReportInput struct {
	FileBytes      []byte
	Filename       string
	SourceLocator  string
	FallbackKey    string
	PromptOverride string
	PDFPassword    string
	RequesterID    string
}

// ReportService defines the credit report generation contract.
type ReportService interface {
	Generate(ctx context.Context, input GenerateReportInput) (*domain.ReportOutcome, error)
}

type reportService struct {
	loader     loader.Loader
	reportRepo port.ReportRepository
	storage    port.ObjectStorage
	client     port.InferenceClient
	infCfg     *config.InferenceConfig
	s3Cfg      *config.S3Config
}

// NewReportService creates a new ReportService implementation.
func NewReportService(
	docLoader loader.Loader,
	reportRepo port.ReportRepository,
	storage port.ObjectStorage,
	client port.InferenceClient,
	infCfg *config.InferenceConfig,
	s3Cfg *config.S3Config,
) ReportService {
	return &reportService{
		loader:     docLoader,
		reportRepo: reportRepo,
		storage:    storage,
		client:     client,
		infCfg:     infCfg,
		s3Cfg:      s3Cfg,
	}
}

// Generate runs the full pipeline: resolve, load, build prompt, infer,
// persist. Failures before inference abort the request; failures after
// a successful inference degrade to a partial success so the caller
// still receives the report it paid a model call for.
func (s *reportService) Generate(ctx context.Context, input GenerateReportInput) (*domain.ReportOutcome, error) {
	log.Printf("reportService.Generate: stage=%s", domain.StageResolving)
	resolved, err := resolver.Resolve(resolver.Request{
		FileBytes:     input.FileBytes,
		Filename:      input.Filename,
		SourceLocator: input.SourceLocator,
		FallbackKey:   input.FallbackKey,
		PDFPassword:   input.PDFPassword,
	})
	if err != nil {
		return nil, err
	}

	if err := s.checkFileSize(resolved); err != nil {
		return nil, err
	}

	log.Printf("reportService.Generate: stage=%s variant=%s", domain.StageLoading, resolved.Variant)
	doc, err := s.loadDocument(ctx, resolved)
	if err != nil {
		return nil, err
	}

	spec, err := prompt.Build(doc, input.PromptOverride)
	if err != nil {
		return nil, err
	}
	log.Printf("reportService.Generate: stage=%s origin=%s source=%s",
		domain.StagePromptReady, doc.Origin, doc.SourceIdentifier)

	log.Printf("reportService.Generate: stage=%s provider=%s", domain.StageInferring, s.client.ProviderName())
	completion, err := s.completeWithRetry(ctx, spec.Text)
	if err != nil {
		return nil, err
	}

	outcome := &domain.ReportOutcome{
		ReportText: completion.Text,
		Document:   doc,
	}

	// Best-effort parse: a malformed model response is a warning, not
	// a failure. The raw text is preserved verbatim either way.
	report, parsed := parseReport(completion.Text)
	if report == nil {
		log.Printf("reportService.Generate: model output is not valid report JSON, returning raw text")
		outcome.Warnings = append(outcome.Warnings, domain.WarningUnparsedReport)
	}
	outcome.Report = report

	record := s.buildRecord(resolved, doc, completion, report, parsed, input.RequesterID)
	log.Printf("reportService.Generate: stage=%s record=%s", domain.StagePersisting, record.ID)
	s.persist(ctx, resolved, record, outcome)
	outcome.Record = record

	log.Printf("reportService.Generate: stage=%s record=%s warnings=%d",
		domain.StageCompleted, record.ID, len(outcome.Warnings))
	return outcome, nil
}

// checkFileSize enforces the configured upload ceiling on file-backed
// inputs. A zero limit disables the check.
func (s *reportService) checkFileSize(resolved *domain.ResolvedInput) error {
	if resolved.Variant != domain.InputUpload && resolved.Variant != domain.InputLocalFile {
		return nil
	}
	maxBytes := s.s3Cfg.MaxFileSizeMB * 1024 * 1024
	if maxBytes > 0 && int64(len(resolved.FileBytes)) > maxBytes {
		return domain.ErrFileTooLarge
	}
	return nil
}

// loadDocument turns the resolved input into a normalized document,
// serving the stored-record variant from the repository.
func (s *reportService) loadDocument(ctx context.Context, resolved *domain.ResolvedInput) (*domain.NormalizedDocument, error) {
	if resolved.Variant != domain.InputStoredRecord {
		return s.loader.Load(ctx, resolved)
	}

	record, err := s.reportRepo.GetLatestByPAN(ctx, resolved.FallbackKey)
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := json.Unmarshal(record.StructuredData, &data); err != nil {
		return nil, fmt.Errorf("decoding stored record %s: %w", record.ID, err)
	}
	return &domain.NormalizedDocument{
		StructuredData:   data,
		Origin:           domain.OriginFallback,
		SourceIdentifier: resolved.FallbackKey,
	}, nil
}

// completeWithRetry calls the inference client with bounded retries.
// Only transient failures are retried; rate limits wait out the
// provider's Retry-After hint, other transient errors back off
// exponentially. Exhaustion surfaces as ErrInferenceUnavailable.
func (s *reportService) completeWithRetry(ctx context.Context, promptText string) (*port.CompletionOutput, error) {
	maxAttempts := s.infCfg.MaxRetries + 1
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	backoff := time.Duration(s.infCfg.BackoffSecs) * time.Second

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			wait := backoff * (1 << (attempt - 1))
			var rateLimited *inference.RateLimitError
			if errors.As(lastErr, &rateLimited) && rateLimited.RetryAfter > wait {
				wait = rateLimited.RetryAfter
			}
			log.Printf("reportService: inference attempt %d/%d failed, retrying in %s: %v",
				attempt, maxAttempts, wait, lastErr)
			if wait > 0 {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(wait):
				}
			}
		}

		completion, err := s.client.Complete(ctx, promptText)
		if err == nil {
			return completion, nil
		}
		if !inference.IsTransient(err) {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrInferenceUnavailable, err)
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: retries exhausted: %v", domain.ErrInferenceUnavailable, lastErr)
}

// parseReport attempts to decode the model output as a CreditReport.
// Code fences are stripped first; models wrap JSON in them despite
// instructions.
func parseReport(text string) (*domain.CreditReport, json.RawMessage) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var report domain.CreditReport
	if err := json.Unmarshal([]byte(cleaned), &report); err != nil {
		return nil, nil
	}
	return &report, json.RawMessage(cleaned)
}

func (s *reportService) buildRecord(
	resolved *domain.ResolvedInput,
	doc *domain.NormalizedDocument,
	completion *port.CompletionOutput,
	report *domain.CreditReport,
	parsed json.RawMessage,
	requesterID string,
) *domain.ReportRecord {
	structured, err := json.Marshal(doc.StructuredData)
	if err != nil {
		// Marshal of a map decoded from JSON cannot fail in practice;
		// keep the record insertable regardless.
		structured = json.RawMessage(`{}`)
	}

	pan := report.PANValue()
	if pan == "" && resolved.Variant == domain.InputStoredRecord {
		pan = resolved.FallbackKey
	}

	record := &domain.ReportRecord{
		ID:               uuid.New(),
		PAN:              strings.ToUpper(pan),
		Origin:           doc.Origin,
		SourceIdentifier: doc.SourceIdentifier,
		StructuredData:   structured,
		ReportText:       completion.Text,
		ReportParsed:     parsed,
		ModelUsed:        completion.ModelUsed,
		CreatedAt:        time.Now().UTC(),
	}
	if requesterID != "" {
		record.RequesterID = &requesterID
	}
	return record
}

// persist uploads the original file and inserts the record. Both are
// best-effort at this stage: the report already exists, so failures
// downgrade the response to a partial success instead of discarding
// the inference result.
func (s *reportService) persist(ctx context.Context, resolved *domain.ResolvedInput, record *domain.ReportRecord, outcome *domain.ReportOutcome) {
	if len(resolved.FileBytes) > 0 && (resolved.Variant == domain.InputUpload || resolved.Variant == domain.InputLocalFile) {
		key := fmt.Sprintf("users/credit-score/%s.%s", record.ID, resolved.FileType)
		_, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.s3Cfg.Bucket,
			Key:         key,
			Body:        bytes.NewReader(resolved.FileBytes),
			ContentType: domain.AllowedFileTypes[resolved.FileType],
			Size:        int64(len(resolved.FileBytes)),
		})
		if err != nil {
			log.Printf("reportService.persist: file upload failed for record %s: %v", record.ID, err)
			outcome.Warnings = append(outcome.Warnings, domain.WarningFileUploadFailed)
		} else {
			bucket := s.s3Cfg.Bucket
			record.FileBucket = &bucket
			record.FileKey = &key

			url, err := s.storage.GetPresignedURL(ctx, bucket, key, s.s3Cfg.PresignExpiry)
			if err != nil {
				log.Printf("reportService.persist: presigning %s failed: %v", key, err)
			} else {
				outcome.FileURL = url
			}
		}
	}

	if err := s.reportRepo.Insert(ctx, record); err != nil {
		log.Printf("reportService.persist: insert failed for record %s: %v", record.ID, err)
		outcome.Warnings = append(outcome.Warnings, domain.WarningPersistenceFailed)
		outcome.Partial = true
		s.deleteOrphanedFile(ctx, record, outcome)
	}
}

// deleteOrphanedFile removes an uploaded original whose record failed
// to persist. Nothing references the object once the insert is lost,
// so leaving it would strand storage the caller cannot reach again.
func (s *reportService) deleteOrphanedFile(ctx context.Context, record *domain.ReportRecord, outcome *domain.ReportOutcome) {
	if record.FileBucket == nil || record.FileKey == nil {
		return
	}
	if err := s.storage.Delete(ctx, *record.FileBucket, *record.FileKey); err != nil {
		log.Printf("reportService.persist: deleting orphaned object %s failed: %v", *record.FileKey, err)
		return
	}
	record.FileBucket = nil
	record.FileKey = nil
	outcome.FileURL = ""
}
