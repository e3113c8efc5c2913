package models

import "time"

// SessionRecord backs the database session store. Data is the JSON-encoded
// key/value state of one session.
type SessionRecord struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Data      []byte
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
