package port

import (
	"context"

	"credintel/internal/domain"
)

// ReportRepository persists generated credit reports. The table is
// append-only; the latest row per PAN serves fallback lookups.
type ReportRepository interface {
	Insert(ctx context.Context, record *domain.ReportRecord) error
	GetLatestByPAN(ctx context.Context, pan string) (*domain.ReportRecord, error)
}
