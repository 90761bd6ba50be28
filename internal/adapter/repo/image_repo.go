package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"imageatelier/internal/domain"
	"imageatelier/internal/sqlinline"
)

// ImageRecordRepositoryPG implements domain.ImageRecordRepository using PostgreSQL.
type ImageRecordRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewImageRecordRepository constructs a new image record repository instance.
func NewImageRecordRepository(pool *pgxpool.Pool) *ImageRecordRepositoryPG {
	return &ImageRecordRepositoryPG{pool: pool}
}

// Create persists a new history entry. The record write is the last step of a
// generation run, so a failure here surfaces as ErrStorageUnavailable to the
// pipeline.
func (r *ImageRecordRepositoryPG) Create(ctx context.Context, record *domain.ImageRecord) (*domain.ImageRecord, error) {
	row := r.pool.QueryRow(ctx, sqlinline.QInsertImageRecord, record.ImageURL, record.Prompt, record.UserID)
	created, err := scanImageRecord(row)
	if err != nil {
		return nil, fmt.Errorf("%w: insert image record: %v", domain.ErrStorageUnavailable, err)
	}
	return created, nil
}

// ListAll returns every record across all users, newest first.
func (r *ImageRecordRepositoryPG) ListAll(ctx context.Context) ([]domain.ImageRecord, error) {
	rows, err := r.pool.Query(ctx, sqlinline.QSelectAllImageRecords)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectImageRecords(rows)
}

// ListByUser returns the records owned by one user, newest first. An unknown
// user yields an empty slice, not an error.
func (r *ImageRecordRepositoryPG) ListByUser(ctx context.Context, userID int64) ([]domain.ImageRecord, error) {
	rows, err := r.pool.Query(ctx, sqlinline.QSelectImageRecordsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectImageRecords(rows)
}

func collectImageRecords(rows pgx.Rows) ([]domain.ImageRecord, error) {
	records := []domain.ImageRecord{}
	for rows.Next() {
		rec, err := scanImageRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func scanImageRecord(row pgx.Row) (*domain.ImageRecord, error) {
	var rec domain.ImageRecord
	if err := row.Scan(&rec.ID, &rec.ImageURL, &rec.Prompt, &rec.UserID, &rec.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

var _ domain.ImageRecordRepository = (*ImageRecordRepositoryPG)(nil)
