package domain

import "context"

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// ImageRecordRepository persists and lists generation history entries.
// List results are ordered by created_at descending.
type ImageRecordRepository interface {
	Create(ctx context.Context, record *ImageRecord) (*ImageRecord, error)
	ListAll(ctx context.Context) ([]ImageRecord, error)
	ListByUser(ctx context.Context, userID int64) ([]ImageRecord, error)
}
