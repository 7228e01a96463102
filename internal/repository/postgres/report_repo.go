package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"credintel/internal/domain"
	"credintel/internal/port"
)

type reportRepo struct {
	db *sqlx.DB
}

// NewReportRepo creates a new PostgreSQL-backed ReportRepository.
func NewReportRepo(db *sqlx.DB) port.ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Insert(ctx context.Context, record *domain.ReportRecord) error {
	query := `INSERT INTO credit_reports
		(id, pan, origin, source_identifier, structured_data, report_text,
		 report_parsed, model_used, file_bucket, file_key, requester_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.PAN, record.Origin, record.SourceIdentifier,
		record.StructuredData, record.ReportText, record.ReportParsed,
		record.ModelUsed, record.FileBucket, record.FileKey,
		record.RequesterID, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("reportRepo.Insert: %w", err)
	}
	return nil
}

func (r *reportRepo) GetLatestByPAN(ctx context.Context, pan string) (*domain.ReportRecord, error) {
	var record domain.ReportRecord
	err := r.db.GetContext(ctx, &record,
		`SELECT * FROM credit_reports
		 WHERE pan = $1
		 ORDER BY created_at DESC LIMIT 1`, pan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("reportRepo.GetLatestByPAN: %w", err)
	}
	return &record, nil
}
