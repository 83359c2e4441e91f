package model

import (
	"time"
)

// Part is a major division of a book.
type Part struct {
	ID        string `gorm:"primaryKey;uuid;not null"`
	OwnerID   string `gorm:"uuid;not null"`
	BookID    string `gorm:"uuid;not null;index"`
	Title     string `gorm:"not null"`
	Summary   string
	SortKey   int64 `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
