package model

import (
	"time"
)

// PublishedBook is an immutable snapshot of a book's full structure at
// the moment of publishing. Snapshot holds the composed book view as
// json, compressed with the named codec.
type PublishedBook struct {
	ID        string `gorm:"primaryKey;uuid;not null"`
	Version   string `gorm:"primaryKey;not null"`
	OwnerID   string `gorm:"uuid;not null"`
	Title     string `gorm:"not null"`
	Snapshot  []byte `gorm:"not null"`
	Codec     string `gorm:"not null"` // compression codec used for Snapshot
	CreatedAt time.Time
}

// LatestPublishedBook tracks the most recent published version per book.
type LatestPublishedBook struct {
	ID        string `gorm:"primaryKey;uuid;not null"`
	Version   string `gorm:"not null"`
	OwnerID   string `gorm:"uuid;not null"`
	Title     string `gorm:"not null"`
	Snapshot  []byte `gorm:"not null"`
	Codec     string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
