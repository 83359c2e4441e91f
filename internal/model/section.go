package model

import (
	"time"
)

// Section is a division of a chapter.
type Section struct {
	ID        string `gorm:"primaryKey;uuid;not null"`
	OwnerID   string `gorm:"uuid;not null"`
	BookID    string `gorm:"uuid;not null"`
	PartID    string `gorm:"uuid;not null"`
	ChapterID string `gorm:"uuid;not null;index"`
	Title     string `gorm:"not null"`
	Summary   string
	Content   string
	SortKey   int64 `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
