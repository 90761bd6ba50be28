package domain

import "time"

// User represents a registered account. A user owns zero or more image
// records; deleting a user cascades to its records at the database level.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
