package pipeline

import (
	"context"

	"imageatelier/internal/domain"
)

// History is the read-only accessor over the record store. Both queries are
// side-effect free and ordered newest first.
type History struct {
	records domain.ImageRecordRepository
}

// NewHistory constructs the history query service.
func NewHistory(records domain.ImageRecordRepository) *History {
	return &History{records: records}
}

// ListAll returns every record across all users.
func (h *History) ListAll(ctx context.Context) ([]domain.ImageRecord, error) {
	return h.records.ListAll(ctx)
}

// ListByUser returns the records owned by one user. An unknown user yields an
// empty slice.
func (h *History) ListByUser(ctx context.Context, userID int64) ([]domain.ImageRecord, error) {
	return h.records.ListByUser(ctx, userID)
}
